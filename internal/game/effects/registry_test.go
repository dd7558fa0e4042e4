package effects

import (
	"testing"

	"github.com/cardforge/rules-engine/internal/game/events"
	"github.com/cardforge/rules-engine/internal/game/ids"
	"github.com/cardforge/rules-engine/internal/game/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistry_AddRemove(t *testing.T) {
	reg := NewRegistry(zap.NewNop())

	in := NewPreventInterceptor(1, "no taps", []events.Kind{events.KindBecomeTapped}, ids.NoObject)
	reg.Add(in)

	got, ok := reg.Get(in.ID())
	require.True(t, ok)
	assert.Equal(t, in.ID(), got.ID())
	assert.Equal(t, 1, reg.Len())

	reg.Remove(in.ID())
	_, ok = reg.Get(in.ID())
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_NilAndDuplicateAdd(t *testing.T) {
	reg := NewRegistry(nil)

	reg.Add(nil)
	assert.Equal(t, 0, reg.Len())

	in := NewPreventInterceptor(1, "no taps", []events.Kind{events.KindBecomeTapped}, ids.NoObject)
	reg.Add(in)
	reg.Add(in)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_RegistrationOrderPreserved(t *testing.T) {
	reg := NewRegistry(nil)

	first := NewRedirectInterceptor(1, "first", []events.Kind{events.KindDestroy}, 1, 2)
	second := NewRedirectInterceptor(2, "second", []events.Kind{events.KindDestroy}, 1, 3)
	reg.Add(first)
	reg.Add(second)

	all := reg.Interceptors()
	require.Len(t, all, 2)
	assert.Equal(t, first.ID(), all[0].ID())
	assert.Equal(t, second.ID(), all[1].ID())
}

func TestRegistry_ApplicableTo(t *testing.T) {
	reg := NewRegistry(nil)
	table := state.NewTable(0)

	destroyRedirect := NewRedirectInterceptor(1, "redirect destroy", []events.Kind{events.KindDestroy}, 1, 2)
	tapPrevent := NewPreventInterceptor(2, "no taps", []events.Kind{events.KindBecomeTapped}, ids.NoObject)
	reg.Add(destroyRedirect)
	reg.Add(tapPrevent)

	applicable := reg.ApplicableTo(events.NewDestroy(1), table, map[string]bool{})
	require.Len(t, applicable, 1)
	assert.Equal(t, destroyRedirect.ID(), applicable[0].ID())

	// Consumed interceptors are excluded from the lineage's candidates.
	applicable = reg.ApplicableTo(events.NewDestroy(1), table, map[string]bool{destroyRedirect.ID(): true})
	assert.Empty(t, applicable)
}

func TestRegistry_Clear(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Add(NewPreventInterceptor(1, "no taps", []events.Kind{events.KindBecomeTapped}, ids.NoObject))
	reg.Add(NewPreventInterceptor(2, "no untaps", []events.Kind{events.KindBecomeUntapped}, ids.NoObject))

	reg.Clear()
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.Interceptors())
}

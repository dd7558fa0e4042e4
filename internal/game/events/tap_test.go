package events

import (
	"testing"

	"github.com/cardforge/rules-engine/internal/game/ids"
	"github.com/cardforge/rules-engine/internal/game/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTapUntap_Kinds(t *testing.T) {
	assert.Equal(t, KindBecomeTapped, NewTap(1).Kind())
	assert.Equal(t, KindBecomeUntapped, NewUntap(1).Kind())
}

func TestTapUntap_NoSource(t *testing.T) {
	_, ok := NewTap(1).SourceObject()
	assert.False(t, ok)

	_, ok = NewUntap(1).SourceObject()
	assert.False(t, ok)
}

func TestTap_Redirect(t *testing.T) {
	ev := NewTap(1)

	replaced, ok := ev.WithTargetReplaced(ObjectTarget(1), ObjectTarget(2))
	require.True(t, ok)

	tap, ok := replaced.(Tap)
	require.True(t, ok)
	assert.Equal(t, ids.ObjectID(2), tap.Permanent())
}

func TestTapUntap_RejectPlayerTargetRegardlessOfOld(t *testing.T) {
	tap := NewTap(1)
	untap := NewUntap(1)

	for _, old := range []Target{ObjectTarget(1), ObjectTarget(9), PlayerTarget(0)} {
		_, ok := tap.WithTargetReplaced(old, PlayerTarget(1))
		assert.False(t, ok, "tap accepted player target with old=%s", old)

		_, ok = untap.WithTargetReplaced(old, PlayerTarget(1))
		assert.False(t, ok, "untap accepted player target with old=%s", old)
	}
}

func TestTapUntap_AffectedPlayer(t *testing.T) {
	table := state.NewTable(0)
	id := table.AddObject(state.Object{Name: "Mountain", Controller: 1})

	assert.Equal(t, ids.PlayerID(1), NewTap(id).AffectedPlayer(table))
	assert.Equal(t, ids.PlayerID(1), NewUntap(id).AffectedPlayer(table))

	table.RemoveObject(id)
	assert.Equal(t, ids.PlayerID(0), NewTap(id).AffectedPlayer(table))
	assert.Equal(t, ids.PlayerID(0), NewUntap(id).AffectedPlayer(table))
}

func TestTapUntap_DisplayConstant(t *testing.T) {
	assert.Equal(t, "Become tapped", NewTap(1).Display())
	assert.Equal(t, "Become tapped", NewTap(99).Display())
	assert.Equal(t, "Become untapped", NewUntap(1).Display())
}

func TestTapUntap_RedirectableTargets(t *testing.T) {
	targets := NewUntap(3).RedirectableTargets()
	require.Len(t, targets, 1)
	assert.Equal(t, ObjectTarget(3), targets[0].Target)
	assert.Equal(t, RedirectObjectsOnly, targets[0].Scope)
	assert.Equal(t, "untap target", targets[0].Description)
}

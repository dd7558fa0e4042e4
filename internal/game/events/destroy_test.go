package events

import (
	"testing"

	"github.com/cardforge/rules-engine/internal/game/ids"
	"github.com/cardforge/rules-engine/internal/game/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestroy_Constructors(t *testing.T) {
	withSource := DestroyFromSource(1, 10)
	source, ok := withSource.SourceObject()
	require.True(t, ok)
	assert.Equal(t, ids.ObjectID(10), source)
	assert.Equal(t, ids.ObjectID(1), withSource.Permanent())

	sba := DestroyFromStateBasedAction(1)
	_, ok = sba.SourceObject()
	assert.False(t, ok)

	plain := NewDestroy(1)
	_, ok = plain.SourceObject()
	assert.False(t, ok)
}

func TestDestroy_Kind(t *testing.T) {
	assert.Equal(t, KindDestroy, NewDestroy(1).Kind())
}

func TestDestroy_RedirectPreservesSource(t *testing.T) {
	ev := DestroyFromSource(1, 10)

	replaced, ok := ev.WithTargetReplaced(ObjectTarget(1), ObjectTarget(2))
	require.True(t, ok)

	destroy, ok := replaced.(Destroy)
	require.True(t, ok)
	assert.Equal(t, ids.ObjectID(2), destroy.Permanent())

	source, ok := destroy.SourceObject()
	require.True(t, ok)
	assert.Equal(t, ids.ObjectID(10), source)

	// The original is untouched.
	assert.Equal(t, ids.ObjectID(1), ev.Permanent())
}

func TestDestroy_RedirectFromStateBasedAction(t *testing.T) {
	ev := DestroyFromStateBasedAction(1)
	_, hasSource := ev.SourceObject()
	require.False(t, hasSource)

	replaced, ok := ev.WithTargetReplaced(ObjectTarget(1), ObjectTarget(2))
	require.True(t, ok)

	destroy := replaced.(Destroy)
	assert.Equal(t, ids.ObjectID(2), destroy.Permanent())
	_, hasSource = destroy.SourceObject()
	assert.False(t, hasSource)
}

func TestDestroy_RedirectRejectsUnknownOldTarget(t *testing.T) {
	ev := NewDestroy(1)

	_, ok := ev.WithTargetReplaced(ObjectTarget(5), ObjectTarget(2))
	assert.False(t, ok)

	_, ok = ev.WithTargetReplaced(PlayerTarget(0), ObjectTarget(2))
	assert.False(t, ok)
}

func TestDestroy_RedirectRejectsPlayerTarget(t *testing.T) {
	ev := NewDestroy(1)

	_, ok := ev.WithTargetReplaced(ObjectTarget(1), PlayerTarget(0))
	assert.False(t, ok)
}

func TestDestroy_AffectedPlayer(t *testing.T) {
	table := state.NewTable(0)
	id := table.AddObject(state.Object{Name: "Wall of Stone", Controller: 1})

	ev := NewDestroy(id)
	assert.Equal(t, ids.PlayerID(1), ev.AffectedPlayer(table))

	// After the object leaves play, fall back to the active player.
	table.RemoveObject(id)
	assert.Equal(t, ids.PlayerID(0), ev.AffectedPlayer(table))
}

func TestDestroy_DisplayConstant(t *testing.T) {
	assert.Equal(t, "Destroy permanent", NewDestroy(1).Display())
	assert.Equal(t, "Destroy permanent", DestroyFromSource(99, 3).Display())
}

func TestDestroy_RedirectableTargets(t *testing.T) {
	targets := NewDestroy(4).RedirectableTargets()
	require.Len(t, targets, 1)
	assert.Equal(t, ObjectTarget(4), targets[0].Target)
	assert.Equal(t, RedirectObjectsOnly, targets[0].Scope)
}

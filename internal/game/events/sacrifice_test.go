package events

import (
	"testing"

	"github.com/cardforge/rules-engine/internal/game/ids"
	"github.com/cardforge/rules-engine/internal/game/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSacrifice_Kind(t *testing.T) {
	assert.Equal(t, KindSacrifice, NewSacrifice(1).Kind())
}

func TestSacrifice_AffectedPlayerPriority(t *testing.T) {
	table := state.NewTable(3)
	id := table.AddObject(state.Object{Name: "Sakura-Tribe Elder", Controller: 1})

	ev := SacrificeFromSource(id, 10)

	// Live controller wins while the object is still in play.
	assert.Equal(t, ids.PlayerID(1), ev.AffectedPlayer(table))

	// A snapshot with a different controller outranks live data.
	snap, ok := state.CaptureSnapshot(table, id)
	require.True(t, ok)
	snap.Controller = 2
	withSnap := ev.WithSnapshot(snap)
	assert.Equal(t, ids.PlayerID(2), withSnap.AffectedPlayer(table))

	// An explicit sacrificing player outranks everything.
	explicit := withSnap.WithSacrificingPlayer(0)
	assert.Equal(t, ids.PlayerID(0), explicit.AffectedPlayer(table))
	assert.Equal(t, ids.PlayerID(0), explicit.Player(table))
	assert.Equal(t, ids.PlayerID(0), explicit.Controller(table))
}

func TestSacrifice_AffectedPlayerAfterRemoval(t *testing.T) {
	table := state.NewTable(3)
	id := table.AddObject(state.Object{Name: "Blood Pet", Controller: 1})

	ev := SacrificeFromSource(id, 10)
	assert.Equal(t, ids.PlayerID(1), ev.AffectedPlayer(table))

	// Capture before removal, attach after: the snapshot keeps the query
	// answerable once the live object is gone.
	snap, ok := state.CaptureSnapshot(table, id)
	require.True(t, ok)
	table.RemoveObject(id)

	withSnap := ev.WithSnapshot(snap)
	assert.Equal(t, ids.PlayerID(1), withSnap.AffectedPlayer(table))

	// Without the snapshot, only the active player is left.
	assert.Equal(t, ids.PlayerID(3), ev.AffectedPlayer(table))
}

func TestSacrifice_SnapshotWriteOnce(t *testing.T) {
	ev := NewSacrifice(1)

	first := ev.WithSnapshot(state.ObjectSnapshot{ObjectID: 1, Controller: 1})
	second := first.WithSnapshot(state.ObjectSnapshot{ObjectID: 1, Controller: 2})

	snap, ok := second.Snapshot()
	require.True(t, ok)
	assert.Equal(t, ids.PlayerID(1), snap.Controller)
}

func TestSacrifice_SacrificingPlayerWriteOnce(t *testing.T) {
	ev := NewSacrifice(1).WithSacrificingPlayer(1).WithSacrificingPlayer(2)

	table := state.NewTable(0)
	assert.Equal(t, ids.PlayerID(1), ev.AffectedPlayer(table))
}

func TestSacrifice_RedirectPreservesSnapshotAndPlayer(t *testing.T) {
	snap := state.ObjectSnapshot{ObjectID: 1, Controller: 2, Name: "Festering Goblin"}
	ev := SacrificeFromSource(1, 10).WithSnapshot(snap).WithSacrificingPlayer(2)

	replaced, ok := ev.WithTargetReplaced(ObjectTarget(1), ObjectTarget(5))
	require.True(t, ok)

	sac, ok := replaced.(Sacrifice)
	require.True(t, ok)
	assert.Equal(t, ids.ObjectID(5), sac.Permanent())

	source, ok := sac.SourceObject()
	require.True(t, ok)
	assert.Equal(t, ids.ObjectID(10), source)

	kept, ok := sac.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "Festering Goblin", kept.Name)

	table := state.NewTable(0)
	assert.Equal(t, ids.PlayerID(2), sac.AffectedPlayer(table))
}

func TestSacrifice_RedirectRejectsPlayerTarget(t *testing.T) {
	ev := NewSacrifice(1)

	_, ok := ev.WithTargetReplaced(ObjectTarget(1), PlayerTarget(0))
	assert.False(t, ok)
}

func TestSacrifice_CloneIndependence(t *testing.T) {
	ev := NewSacrifice(1).WithSnapshot(state.ObjectSnapshot{ObjectID: 1, Controller: 1})

	clone := ev.Clone()
	sac, ok := clone.(Sacrifice)
	require.True(t, ok)

	snap, ok := sac.Snapshot()
	require.True(t, ok)
	assert.Equal(t, ids.PlayerID(1), snap.Controller)
	assert.Equal(t, ev.Display(), clone.Display())
}

func TestSacrifice_DisplayConstant(t *testing.T) {
	assert.Equal(t, "Sacrifice permanent", NewSacrifice(1).Display())
	assert.Equal(t, "Sacrifice permanent", SacrificeFromSource(9, 2).Display())
}

package state

import (
	"sort"
	"sync"

	"github.com/cardforge/rules-engine/internal/game/ids"
)

// Table is an in-memory Game implementation. It backs tests, the demo
// server, and the default per-kind mutators. The event pipeline owns all
// mutation during event resolution; Table's own locking only protects
// concurrent readers outside that flow (e.g. view building).
type Table struct {
	mu           sync.RWMutex
	objects      map[ids.ObjectID]Object
	activePlayer ids.PlayerID
	alloc        *ids.Allocator
}

// NewTable creates an empty table with the given active player.
func NewTable(activePlayer ids.PlayerID) *Table {
	return &Table{
		objects:      make(map[ids.ObjectID]Object),
		activePlayer: activePlayer,
		alloc:        ids.NewAllocator(),
	}
}

// AddObject places an object with a freshly allocated ID and returns it.
func (t *Table) AddObject(obj Object) ids.ObjectID {
	t.mu.Lock()
	defer t.mu.Unlock()

	obj.ID = t.alloc.NextObjectID()
	t.objects[obj.ID] = obj
	return obj.ID
}

// PutObject places an object under its existing ID, for scenarios that need
// explicit control over identifiers.
func (t *Table) PutObject(obj Object) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.objects[obj.ID] = obj
}

// RemoveObject detaches an object from play. Its ID is never reused.
func (t *Table) RemoveObject(id ids.ObjectID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.objects, id)
}

// Object returns the live object, or false once it has left play.
func (t *Table) Object(id ids.ObjectID) (Object, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	obj, ok := t.objects[id]
	return obj, ok
}

// Objects returns all objects in play, ordered by ID.
func (t *Table) Objects() []Object {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Object, 0, len(t.objects))
	for _, obj := range t.objects {
		out = append(out, obj)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ActivePlayer returns the player whose turn it is.
func (t *Table) ActivePlayer() ids.PlayerID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.activePlayer
}

// SetActivePlayer updates the active player.
func (t *Table) SetActivePlayer(p ids.PlayerID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activePlayer = p
}

// SetTapped flips the tapped flag of an object in play.
func (t *Table) SetTapped(id ids.ObjectID, tapped bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	obj, ok := t.objects[id]
	if !ok {
		return false
	}
	obj.Tapped = tapped
	t.objects[id] = obj
	return true
}

// SetController changes which player controls an object in play.
func (t *Table) SetController(id ids.ObjectID, controller ids.PlayerID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	obj, ok := t.objects[id]
	if !ok {
		return false
	}
	obj.Controller = controller
	t.objects[id] = obj
	return true
}

// Package ids defines the identifier types shared by the rules engine.
package ids

import "sync/atomic"

// ObjectID identifies a single in-game object. IDs increase monotonically
// within a game session and are never reused; when an object leaves play,
// its ID is retired with it.
type ObjectID uint64

// NoObject is the reserved zero value meaning "no object".
const NoObject ObjectID = 0

// PlayerID identifies a player by seat index.
type PlayerID uint8

// Allocator hands out object IDs for one game session.
type Allocator struct {
	next atomic.Uint64
}

// NewAllocator creates an allocator whose first ID is 1 (0 is reserved).
func NewAllocator() *Allocator {
	a := &Allocator{}
	a.next.Store(1)
	return a
}

// NextObjectID returns a fresh, never-before-issued object ID.
func (a *Allocator) NextObjectID() ObjectID {
	return ObjectID(a.next.Add(1) - 1)
}

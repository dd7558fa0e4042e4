// Package state defines the game-state collaborator boundary consumed by the
// event pipeline: live object lookups, the active player, and point-in-time
// object snapshots for last-known-information queries.
package state

import "github.com/cardforge/rules-engine/internal/game/ids"

// Object is the live, public view of an in-game object.
type Object struct {
	ID         ids.ObjectID
	Controller ids.PlayerID
	Owner      ids.PlayerID
	Name       string
	CardTypes  []string
	Power      int
	Toughness  int
	Tapped     bool
}

// Game is the read surface the event core needs from the game-state
// container. Object returns false once an object has left play; the active
// player is always defined and serves as the last-resort fallback for
// affected-player resolution.
type Game interface {
	Object(id ids.ObjectID) (Object, bool)
	ActivePlayer() ids.PlayerID
}

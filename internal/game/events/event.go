// Package events models discrete game occurrences as immutable values that
// flow through the replacement pipeline before being committed to game state.
// Every concrete event kind implements the Event interface; new kinds plug
// into the pipeline with no change to its logic.
package events

import (
	"github.com/cardforge/rules-engine/internal/game/ids"
	"github.com/cardforge/rules-engine/internal/game/state"
)

// Event is the uniform contract every concrete event kind implements.
//
// Events are immutable value objects: "modification" always means
// constructing a new event with one field changed. Implementations use value
// receivers so instances are freely copyable; the concrete kind is recovered
// from the interface with a plain type assertion.
type Event interface {
	// Kind returns the static classification used for rule matching.
	// Invariant for the lifetime of the instance.
	Kind() Kind

	// AffectedPlayer resolves which player is considered affected by this
	// event. It is total: when no better information is available it falls
	// back to the active player, so the pipeline always has an attributable
	// player for ordering and choice purposes.
	AffectedPlayer(game state.Game) ids.PlayerID

	// RedirectableTargets enumerates the substitution points this event
	// exposes. Order matters only for deterministic presentation.
	RedirectableTargets() []RedirectableTarget

	// WithTargetReplaced returns a new event with old replaced by new, or
	// false when old is not this event's current redirectable target or
	// new's variant is incompatible with the field being replaced. Pure:
	// the receiver is never mutated.
	WithTargetReplaced(old, new Target) (Event, bool)

	// SourceObject returns the attributed cause, when known. Absent for
	// engine-internal and state-based triggers.
	SourceObject() (ids.ObjectID, bool)

	// Display returns a short human-readable label, constant per kind.
	Display() string

	// Clone returns an independent copy of the event behind the interface.
	Clone() Event
}

// liveController looks up the controller of an object still in play.
func liveController(game state.Game, id ids.ObjectID) (ids.PlayerID, bool) {
	obj, ok := game.Object(id)
	if !ok {
		return 0, false
	}
	return obj.Controller, true
}

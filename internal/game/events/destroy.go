package events

import (
	"github.com/cardforge/rules-engine/internal/game/ids"
	"github.com/cardforge/rules-engine/internal/game/state"
)

// Destroy is a permanent being destroyed.
type Destroy struct {
	permanent ids.ObjectID
	source    ids.ObjectID
	hasSource bool
}

// NewDestroy creates a destroy event with no attributed source.
func NewDestroy(permanent ids.ObjectID) Destroy {
	return Destroy{permanent: permanent}
}

// DestroyFromSource creates a destroy event caused by a specific object.
func DestroyFromSource(permanent, source ids.ObjectID) Destroy {
	return Destroy{permanent: permanent, source: source, hasSource: true}
}

// DestroyFromStateBasedAction creates a destroy event caused by a game rule
// (e.g. lethal damage). Such destruction has no attributable source object.
func DestroyFromStateBasedAction(permanent ids.ObjectID) Destroy {
	return Destroy{permanent: permanent}
}

// Permanent returns the subject of the destruction.
func (e Destroy) Permanent() ids.ObjectID {
	return e.permanent
}

// WithPermanent returns a copy of the event with a different subject.
// Source attribution is preserved.
func (e Destroy) WithPermanent(permanent ids.ObjectID) Destroy {
	e.permanent = permanent
	return e
}

// Kind implements Event.
func (e Destroy) Kind() Kind {
	return KindDestroy
}

// AffectedPlayer resolves to the live controller of the subject, falling
// back to the active player once the object has left the game.
func (e Destroy) AffectedPlayer(game state.Game) ids.PlayerID {
	if controller, ok := liveController(game, e.permanent); ok {
		return controller
	}
	return game.ActivePlayer()
}

// RedirectableTargets implements Event.
func (e Destroy) RedirectableTargets() []RedirectableTarget {
	return []RedirectableTarget{{
		Target:      ObjectTarget(e.permanent),
		Description: "destruction target",
		Scope:       RedirectObjectsOnly,
	}}
}

// WithTargetReplaced implements Event.
func (e Destroy) WithTargetReplaced(old, new Target) (Event, bool) {
	if old != ObjectTarget(e.permanent) {
		return nil, false
	}
	if new.Type != TargetObject {
		return nil, false
	}
	return e.WithPermanent(new.Object), true
}

// SourceObject implements Event.
func (e Destroy) SourceObject() (ids.ObjectID, bool) {
	return e.source, e.hasSource
}

// Display implements Event.
func (e Destroy) Display() string {
	return "Destroy permanent"
}

// Clone implements Event.
func (e Destroy) Clone() Event {
	return e
}

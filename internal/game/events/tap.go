package events

import (
	"github.com/cardforge/rules-engine/internal/game/ids"
	"github.com/cardforge/rules-engine/internal/game/state"
)

// Tap is a permanent becoming tapped. Tapping has no attributable source.
type Tap struct {
	permanent ids.ObjectID
}

// NewTap creates a tap event.
func NewTap(permanent ids.ObjectID) Tap {
	return Tap{permanent: permanent}
}

// Permanent returns the permanent becoming tapped.
func (e Tap) Permanent() ids.ObjectID {
	return e.permanent
}

// WithPermanent returns a copy of the event with a different subject.
func (e Tap) WithPermanent(permanent ids.ObjectID) Tap {
	e.permanent = permanent
	return e
}

// Kind implements Event.
func (e Tap) Kind() Kind {
	return KindBecomeTapped
}

// AffectedPlayer resolves to the live controller of the subject, falling
// back to the active player.
func (e Tap) AffectedPlayer(game state.Game) ids.PlayerID {
	if controller, ok := liveController(game, e.permanent); ok {
		return controller
	}
	return game.ActivePlayer()
}

// RedirectableTargets implements Event.
func (e Tap) RedirectableTargets() []RedirectableTarget {
	return []RedirectableTarget{{
		Target:      ObjectTarget(e.permanent),
		Description: "tap target",
		Scope:       RedirectObjectsOnly,
	}}
}

// WithTargetReplaced implements Event.
func (e Tap) WithTargetReplaced(old, new Target) (Event, bool) {
	if old != ObjectTarget(e.permanent) {
		return nil, false
	}
	if new.Type != TargetObject {
		return nil, false
	}
	return e.WithPermanent(new.Object), true
}

// SourceObject implements Event.
func (e Tap) SourceObject() (ids.ObjectID, bool) {
	return ids.NoObject, false
}

// Display implements Event.
func (e Tap) Display() string {
	return "Become tapped"
}

// Clone implements Event.
func (e Tap) Clone() Event {
	return e
}

// Untap is a permanent becoming untapped. Untapping has no attributable
// source.
type Untap struct {
	permanent ids.ObjectID
}

// NewUntap creates an untap event.
func NewUntap(permanent ids.ObjectID) Untap {
	return Untap{permanent: permanent}
}

// Permanent returns the permanent becoming untapped.
func (e Untap) Permanent() ids.ObjectID {
	return e.permanent
}

// WithPermanent returns a copy of the event with a different subject.
func (e Untap) WithPermanent(permanent ids.ObjectID) Untap {
	e.permanent = permanent
	return e
}

// Kind implements Event.
func (e Untap) Kind() Kind {
	return KindBecomeUntapped
}

// AffectedPlayer resolves to the live controller of the subject, falling
// back to the active player.
func (e Untap) AffectedPlayer(game state.Game) ids.PlayerID {
	if controller, ok := liveController(game, e.permanent); ok {
		return controller
	}
	return game.ActivePlayer()
}

// RedirectableTargets implements Event.
func (e Untap) RedirectableTargets() []RedirectableTarget {
	return []RedirectableTarget{{
		Target:      ObjectTarget(e.permanent),
		Description: "untap target",
		Scope:       RedirectObjectsOnly,
	}}
}

// WithTargetReplaced implements Event.
func (e Untap) WithTargetReplaced(old, new Target) (Event, bool) {
	if old != ObjectTarget(e.permanent) {
		return nil, false
	}
	if new.Type != TargetObject {
		return nil, false
	}
	return e.WithPermanent(new.Object), true
}

// SourceObject implements Event.
func (e Untap) SourceObject() (ids.ObjectID, bool) {
	return ids.NoObject, false
}

// Display implements Event.
func (e Untap) Display() string {
	return "Become untapped"
}

// Clone implements Event.
func (e Untap) Clone() Event {
	return e
}

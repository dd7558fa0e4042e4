package events

import (
	"github.com/cardforge/rules-engine/internal/game/ids"
	"github.com/cardforge/rules-engine/internal/game/state"
)

// Sacrifice is a permanent being sacrificed.
//
// A sacrifice may carry a snapshot of the permanent taken just before it
// left the game, plus an explicit sacrificing player. Both are write-once
// and survive redirection unchanged; only the subject is ever replaced.
type Sacrifice struct {
	permanent ids.ObjectID
	source    ids.ObjectID
	hasSource bool

	snapshot  *state.ObjectSnapshot
	sacPlayer ids.PlayerID
	hasPlayer bool
}

// NewSacrifice creates a sacrifice event with no attributed source.
func NewSacrifice(permanent ids.ObjectID) Sacrifice {
	return Sacrifice{permanent: permanent}
}

// SacrificeFromSource creates a sacrifice event required by a specific
// object (a cost, a ward, an edict effect).
func SacrificeFromSource(permanent, source ids.ObjectID) Sacrifice {
	return Sacrifice{permanent: permanent, source: source, hasSource: true}
}

// WithSnapshot attaches the last-known-information capture.
// Write-once: a snapshot already attached is never replaced.
func (e Sacrifice) WithSnapshot(snap state.ObjectSnapshot) Sacrifice {
	if e.snapshot != nil {
		return e
	}
	e.snapshot = &snap
	return e
}

// WithSacrificingPlayer records which player performed the sacrifice.
// Write-once: an explicit player already recorded is never replaced.
func (e Sacrifice) WithSacrificingPlayer(p ids.PlayerID) Sacrifice {
	if e.hasPlayer {
		return e
	}
	e.sacPlayer = p
	e.hasPlayer = true
	return e
}

// Permanent returns the subject of the sacrifice.
func (e Sacrifice) Permanent() ids.ObjectID {
	return e.permanent
}

// WithPermanent returns a copy of the event with a different subject.
// Source, snapshot, and sacrificing player are preserved.
func (e Sacrifice) WithPermanent(permanent ids.ObjectID) Sacrifice {
	e.permanent = permanent
	return e
}

// Snapshot returns the captured last-known information, if any.
func (e Sacrifice) Snapshot() (state.ObjectSnapshot, bool) {
	if e.snapshot == nil {
		return state.ObjectSnapshot{}, false
	}
	return *e.snapshot, true
}

// Player resolves the sacrificing player with the same priority order as
// AffectedPlayer.
func (e Sacrifice) Player(game state.Game) ids.PlayerID {
	return e.AffectedPlayer(game)
}

// Controller resolves the controller of the sacrificed permanent with the
// same priority order as AffectedPlayer.
func (e Sacrifice) Controller(game state.Game) ids.PlayerID {
	return e.AffectedPlayer(game)
}

// Kind implements Event.
func (e Sacrifice) Kind() Kind {
	return KindSacrifice
}

// AffectedPlayer resolves in strict priority order: the explicit sacrificing
// player, then the snapshot controller, then the live controller, then the
// active player. A sacrificed permanent has usually left the game by the
// time downstream triggers ask who was affected, so the most authoritative
// still-available information wins.
func (e Sacrifice) AffectedPlayer(game state.Game) ids.PlayerID {
	if e.hasPlayer {
		return e.sacPlayer
	}
	if e.snapshot != nil {
		return e.snapshot.Controller
	}
	if controller, ok := liveController(game, e.permanent); ok {
		return controller
	}
	return game.ActivePlayer()
}

// RedirectableTargets implements Event. Sacrifice rarely redirects in
// practice (you sacrifice your own permanents), but the substitution point
// is exposed; scope validation rejects anything unsound.
func (e Sacrifice) RedirectableTargets() []RedirectableTarget {
	return []RedirectableTarget{{
		Target:      ObjectTarget(e.permanent),
		Description: "sacrifice target",
		Scope:       RedirectObjectsOnly,
	}}
}

// WithTargetReplaced implements Event.
func (e Sacrifice) WithTargetReplaced(old, new Target) (Event, bool) {
	if old != ObjectTarget(e.permanent) {
		return nil, false
	}
	if new.Type != TargetObject {
		return nil, false
	}
	return e.WithPermanent(new.Object), true
}

// SourceObject implements Event.
func (e Sacrifice) SourceObject() (ids.ObjectID, bool) {
	return e.source, e.hasSource
}

// Display implements Event.
func (e Sacrifice) Display() string {
	return "Sacrifice permanent"
}

// Clone implements Event.
func (e Sacrifice) Clone() Event {
	if e.snapshot != nil {
		snap := *e.snapshot
		e.snapshot = &snap
	}
	return e
}

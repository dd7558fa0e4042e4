package events

import (
	"fmt"

	"github.com/cardforge/rules-engine/internal/game/ids"
)

// TargetType distinguishes the variants of a Target value.
type TargetType string

const (
	// TargetObject addresses an in-game object.
	TargetObject TargetType = "OBJECT"
	// TargetPlayer addresses a player.
	TargetPlayer TargetType = "PLAYER"
)

// Target identifies what an event acts upon, or what a redirect effect
// proposes as the new subject. Equality is structural.
type Target struct {
	Type   TargetType
	Object ids.ObjectID
	Player ids.PlayerID
}

// ObjectTarget builds a Target addressing an object.
func ObjectTarget(id ids.ObjectID) Target {
	return Target{Type: TargetObject, Object: id}
}

// PlayerTarget builds a Target addressing a player.
func PlayerTarget(p ids.PlayerID) Target {
	return Target{Type: TargetPlayer, Player: p}
}

// String returns a short label for logs.
func (t Target) String() string {
	switch t.Type {
	case TargetObject:
		return fmt.Sprintf("object(%d)", t.Object)
	case TargetPlayer:
		return fmt.Sprintf("player(%d)", t.Player)
	default:
		return "target(?)"
	}
}

// RedirectScope constrains what a redirect may substitute a target with.
// A proposed target whose variant is outside the scope must be rejected,
// never coerced.
type RedirectScope string

const (
	// RedirectObjectsOnly permits object targets only.
	RedirectObjectsOnly RedirectScope = "OBJECTS_ONLY"
	// RedirectPlayersOnly permits player targets only.
	RedirectPlayersOnly RedirectScope = "PLAYERS_ONLY"
	// RedirectPlayersOrObjects permits either variant.
	RedirectPlayersOrObjects RedirectScope = "PLAYERS_OR_OBJECTS"
)

// Allows reports whether the proposed target's variant satisfies this scope.
func (s RedirectScope) Allows(t Target) bool {
	switch s {
	case RedirectObjectsOnly:
		return t.Type == TargetObject
	case RedirectPlayersOnly:
		return t.Type == TargetPlayer
	case RedirectPlayersOrObjects:
		return true
	default:
		return false
	}
}

// RedirectableTarget exposes one substitution point within an event: which
// target may be replaced, a label for presentation, and the scope of
// acceptable replacements.
type RedirectableTarget struct {
	Target      Target
	Description string
	Scope       RedirectScope
}

package state

import "github.com/cardforge/rules-engine/internal/game/ids"

// ObjectSnapshot is an immutable capture of an object's public
// characteristics at a specific moment. It is taken immediately before the
// object is removed from play so that later queries (affected player,
// "the creature that died" triggers) remain answerable after the live object
// is gone. A snapshot is never mutated after capture.
type ObjectSnapshot struct {
	ObjectID   ids.ObjectID
	Controller ids.PlayerID
	Owner      ids.PlayerID
	Name       string
	CardTypes  []string
	Power      int
	Toughness  int
	Tapped     bool
}

// CaptureSnapshot reads the live object and returns its snapshot.
// Returns false if the object has already left the game.
func CaptureSnapshot(game Game, id ids.ObjectID) (ObjectSnapshot, bool) {
	obj, ok := game.Object(id)
	if !ok {
		return ObjectSnapshot{}, false
	}
	types := make([]string, len(obj.CardTypes))
	copy(types, obj.CardTypes)
	return ObjectSnapshot{
		ObjectID:   obj.ID,
		Controller: obj.Controller,
		Owner:      obj.Owner,
		Name:       obj.Name,
		CardTypes:  types,
		Power:      obj.Power,
		Toughness:  obj.Toughness,
		Tapped:     obj.Tapped,
	}, true
}

package effects

import (
	"fmt"

	"github.com/cardforge/rules-engine/internal/game/events"
	"github.com/cardforge/rules-engine/internal/game/state"
)

// TableMutator applies committed events to an in-memory table: destroy and
// sacrifice detach the subject from play, tap and untap flip the flag.
type TableMutator struct {
	Table *state.Table
}

// NewTableMutator creates a mutator over the given table.
func NewTableMutator(table *state.Table) *TableMutator {
	return &TableMutator{Table: table}
}

// Commit implements Mutator, dispatching per event kind.
func (m *TableMutator) Commit(_ state.Game, ev events.Event) error {
	switch e := ev.(type) {
	case events.Destroy:
		m.Table.RemoveObject(e.Permanent())
		return nil
	case events.Sacrifice:
		m.Table.RemoveObject(e.Permanent())
		return nil
	case events.Tap:
		if !m.Table.SetTapped(e.Permanent(), true) {
			return fmt.Errorf("tap: object %d not in play", e.Permanent())
		}
		return nil
	case events.Untap:
		if !m.Table.SetTapped(e.Permanent(), false) {
			return fmt.Errorf("untap: object %d not in play", e.Permanent())
		}
		return nil
	default:
		return fmt.Errorf("no mutator for event kind %s", ev.Kind())
	}
}

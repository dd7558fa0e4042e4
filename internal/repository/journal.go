package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cardforge/rules-engine/internal/game/effects"
	"github.com/cardforge/rules-engine/internal/game/events"
)

const journalSchema = `
CREATE TABLE IF NOT EXISTS event_journal (
	id          BIGSERIAL PRIMARY KEY,
	game_id     TEXT NOT NULL,
	kind        TEXT NOT NULL,
	description TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	applied     TEXT[] NOT NULL DEFAULT '{}',
	iterations  INT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS event_journal_game_idx ON event_journal (game_id, id);
`

// EventJournal records resolution outcomes so a finished game can be audited
// event by event.
type EventJournal struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewEventJournal wraps an existing connection pool.
func NewEventJournal(pool *pgxpool.Pool, logger *zap.Logger) *EventJournal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventJournal{pool: pool, logger: logger}
}

// EnsureSchema creates the journal table if it does not exist.
func (j *EventJournal) EnsureSchema(ctx context.Context) error {
	if _, err := j.pool.Exec(ctx, journalSchema); err != nil {
		return fmt.Errorf("ensure journal schema: %w", err)
	}
	return nil
}

// Record appends one resolution to the journal. submitted is the event as it
// entered the pipeline; res.Event may be nil when the event was prevented.
func (j *EventJournal) Record(ctx context.Context, gameID string, submitted events.Event, res effects.Result) error {
	outcome := "committed"
	description := submitted.Display()
	if res.Prevented {
		outcome = "prevented"
	} else if res.Event != nil {
		description = res.Event.Display()
	}

	_, err := j.pool.Exec(ctx,
		`INSERT INTO event_journal (game_id, kind, description, outcome, applied, iterations)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		gameID,
		string(submitted.Kind()),
		description,
		outcome,
		res.Applied,
		res.Iterations,
	)
	if err != nil {
		return fmt.Errorf("record journal entry: %w", err)
	}

	j.logger.Debug("journal entry recorded",
		zap.String("game_id", gameID),
		zap.String("kind", string(submitted.Kind())),
		zap.String("outcome", outcome))
	return nil
}

// Entry is one journaled resolution.
type Entry struct {
	ID          int64
	GameID      string
	Kind        string
	Description string
	Outcome     string
	Applied     []string
	Iterations  int
}

// History returns the journal for one game in resolution order.
func (j *EventJournal) History(ctx context.Context, gameID string) ([]Entry, error) {
	rows, err := j.pool.Query(ctx,
		`SELECT id, game_id, kind, description, outcome, applied, iterations
		 FROM event_journal WHERE game_id = $1 ORDER BY id`,
		gameID)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.GameID, &e.Kind, &e.Description, &e.Outcome, &e.Applied, &e.Iterations); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return entries, nil
}

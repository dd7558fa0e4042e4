package effects

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cardforge/rules-engine/internal/game/events"
	"github.com/cardforge/rules-engine/internal/game/ids"
	"github.com/cardforge/rules-engine/internal/game/state"
	"github.com/cardforge/rules-engine/internal/telemetry"
)

var (
	// ErrRedirectContract signals that an interceptor the registry reported
	// as applicable proposed a redirection the event rejected. Rule and
	// event disagree about the event's shape; the game must not proceed.
	ErrRedirectContract = errors.New("interceptor proposed a redirection its event rejected")

	// ErrRunawayResolution signals that the fixpoint loop exceeded its
	// iteration ceiling, typically a malformed or adversarial effect set.
	ErrRunawayResolution = errors.New("replacement resolution exceeded iteration limit")
)

// DefaultMaxIterations bounds the fixpoint loop. Well-formed effect sets
// terminate far earlier because each interceptor applies once per lineage.
const DefaultMaxIterations = 100

// Chooser supplies the affected player's ordering choice when several
// interceptors apply to one event simultaneously. The engine blocks the
// pipeline until the choice is supplied; no other event is in flight.
type Chooser interface {
	Choose(player ids.PlayerID, ev events.Event, candidates []Interceptor) Interceptor
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(player ids.PlayerID, ev events.Event, candidates []Interceptor) Interceptor

// Choose implements Chooser.
func (f ChooserFunc) Choose(player ids.PlayerID, ev events.Event, candidates []Interceptor) Interceptor {
	return f(player, ev, candidates)
}

// firstRegistered is the default chooser: registration order decides.
func firstRegistered(_ ids.PlayerID, _ events.Event, candidates []Interceptor) Interceptor {
	return candidates[0]
}

// Result describes the outcome of resolving one event.
type Result struct {
	// Event is the final event to commit; nil when Prevented.
	Event events.Event
	// Prevented is true when an interceptor cancelled the event.
	Prevented bool
	// Applied lists interceptor IDs in application order (the lineage).
	Applied []string
	// Iterations is the number of fixpoint iterations consumed.
	Iterations int
}

// Mutator performs the actual state transition for a committed event.
// The pipeline decides what event reaches it; it does not implement the
// mutation itself.
type Mutator interface {
	Commit(game state.Game, ev events.Event) error
}

// Pipeline resolves events through every applicable interceptor effect
// exactly once, in a well-defined order, and recognizes when an event
// should not happen at all.
type Pipeline struct {
	registry      *Registry
	chooser       Chooser
	logger        *zap.Logger
	metrics       telemetry.Recorder
	maxIterations int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithChooser injects the player-choice seam for simultaneous interceptors.
func WithChooser(c Chooser) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.chooser = c
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(rec telemetry.Recorder) Option {
	return func(p *Pipeline) {
		if rec != nil {
			p.metrics = rec
		}
	}
}

// WithMaxIterations overrides the fixpoint iteration ceiling.
func WithMaxIterations(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxIterations = n
		}
	}
}

// NewPipeline creates a pipeline over the given registry.
func NewPipeline(registry *Registry, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry:      registry,
		chooser:       ChooserFunc(firstRegistered),
		logger:        zap.NewNop(),
		metrics:       telemetry.NoopRecorder{},
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve runs the fixpoint loop: repeatedly find interceptors applicable to
// the current event and not yet consumed for this lineage, apply one, and
// continue with the produced event until none apply or one prevents the
// event entirely.
func (p *Pipeline) Resolve(game state.Game, ev events.Event) (Result, error) {
	applied := make(map[string]bool)
	lineage := make([]string, 0, 4)
	current := ev

	for iteration := 1; ; iteration++ {
		if iteration > p.maxIterations {
			last := "none"
			if len(lineage) > 0 {
				last = lineage[len(lineage)-1]
			}
			p.logger.Error("replacement resolution exceeded iteration limit",
				zap.String("event_kind", string(current.Kind())),
				zap.Int("lineage_depth", len(lineage)),
				zap.String("last_applied", last))
			return Result{}, fmt.Errorf("%w: kind=%s depth=%d last=%s",
				ErrRunawayResolution, current.Kind(), len(lineage), last)
		}

		candidates := p.registry.ApplicableTo(current, game, applied)
		if len(candidates) == 0 {
			outcome := "proceeded"
			if len(lineage) > 0 {
				outcome = "redirected"
			}
			p.metrics.RecordResolution(string(current.Kind()), outcome, iteration)
			return Result{Event: current, Applied: lineage, Iterations: iteration}, nil
		}

		chosen := candidates[0]
		if len(candidates) > 1 {
			// Standard simultaneous-replacement resolution: the affected
			// player chooses the order.
			player := current.AffectedPlayer(game)
			if pick := p.chooser.Choose(player, current, candidates); pick != nil {
				chosen = pick
			}
		}

		decision := chosen.Resolve(current, game)
		applied[chosen.ID()] = true
		lineage = append(lineage, chosen.ID())
		p.metrics.RecordInterceptorApplied(string(current.Kind()))

		if decision.Prevent {
			p.logger.Debug("event prevented",
				zap.String("event_kind", string(current.Kind())),
				zap.String("interceptor_id", chosen.ID()),
				zap.Int("iteration", iteration))
			p.metrics.RecordResolution(string(current.Kind()), "prevented", iteration)
			return Result{Prevented: true, Applied: lineage, Iterations: iteration}, nil
		}

		next, ok := current.WithTargetReplaced(decision.OldTarget, decision.NewTarget)
		if !ok {
			p.logger.Error("interceptor redirection rejected by event",
				zap.String("event_kind", string(current.Kind())),
				zap.String("interceptor_id", chosen.ID()),
				zap.String("old_target", decision.OldTarget.String()),
				zap.String("new_target", decision.NewTarget.String()))
			return Result{}, fmt.Errorf("%w: interceptor=%s kind=%s old=%s new=%s",
				ErrRedirectContract, chosen.ID(), current.Kind(),
				decision.OldTarget, decision.NewTarget)
		}

		p.logger.Debug("applied interceptor",
			zap.String("event_kind", string(current.Kind())),
			zap.String("interceptor_id", chosen.ID()),
			zap.String("old_target", decision.OldTarget.String()),
			zap.String("new_target", decision.NewTarget.String()),
			zap.Int("iteration", iteration))

		current = next
	}
}

// Execute resolves the event and, unless it was prevented, hands the final
// event to the mutator. For Sacrifice events, last-known information is
// captured and attached immediately before the subject is removed; Destroy
// callers run their own snapshot mechanism.
func (p *Pipeline) Execute(game state.Game, ev events.Event, mut Mutator) (Result, error) {
	res, err := p.Resolve(game, ev)
	if err != nil || res.Prevented {
		return res, err
	}

	if sac, ok := res.Event.(events.Sacrifice); ok {
		if _, has := sac.Snapshot(); !has {
			if snap, ok := state.CaptureSnapshot(game, sac.Permanent()); ok {
				res.Event = sac.WithSnapshot(snap)
			}
		}
	}

	if err := mut.Commit(game, res.Event); err != nil {
		return res, fmt.Errorf("commit %s: %w", res.Event.Kind(), err)
	}

	p.logger.Debug("event committed",
		zap.String("event_kind", string(res.Event.Kind())),
		zap.Int("applied_effects", len(res.Applied)))

	return res, nil
}

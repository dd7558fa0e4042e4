// Package effects implements replacement and redirection effects and the
// pipeline that applies them to events before they take effect on game state.
package effects

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cardforge/rules-engine/internal/game/events"
	"github.com/cardforge/rules-engine/internal/game/ids"
	"github.com/cardforge/rules-engine/internal/game/state"
)

// Decision is what an interceptor wants done with an event: cancel it
// outright, or substitute one of its redirectable targets.
type Decision struct {
	Prevent   bool
	OldTarget events.Target
	NewTarget events.Target
}

// PreventDecision cancels the event; nothing further happens.
func PreventDecision() Decision {
	return Decision{Prevent: true}
}

// RedirectDecision proposes replacing old with new in the event.
func RedirectDecision(old, new events.Target) Decision {
	return Decision{OldTarget: old, NewTarget: new}
}

// Interceptor is a rule-defined effect that may rewrite or cancel an event
// before it takes effect.
//
// Matches is the fast filter on event kind; Applies is the detailed
// predicate against the event's current field values. The pipeline only
// calls Resolve on interceptors whose Applies returned true, so a Resolve
// proposal the event then rejects is a contract violation, not a normal
// miss.
type Interceptor interface {
	// ID returns the unique identifier for this interceptor.
	ID() string

	// Source returns the object whose rules text created this interceptor,
	// when known.
	Source() (ids.ObjectID, bool)

	// Description returns a short label for logs and choice prompts.
	Description() string

	// Matches returns true if this interceptor cares about the event kind.
	Matches(kind events.Kind) bool

	// Applies returns true if this interceptor applies to the given event.
	Applies(ev events.Event, game state.Game) bool

	// Resolve decides what to do with an event this interceptor applies to.
	Resolve(ev events.Event, game state.Game) Decision
}

// BaseInterceptor provides the identity fields shared by interceptor
// implementations.
type BaseInterceptor struct {
	id          string
	source      ids.ObjectID
	hasSource   bool
	description string
}

// NewBaseInterceptor creates the shared base with a deterministic-format,
// collision-free ID.
func NewBaseInterceptor(source ids.ObjectID, description string) BaseInterceptor {
	seed := fmt.Sprintf("%d|interceptor|%s|%d", source, description, uuid.New().ID())
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()

	return BaseInterceptor{
		id:          id,
		source:      source,
		hasSource:   source != ids.NoObject,
		description: description,
	}
}

// ID returns the unique identifier.
func (b BaseInterceptor) ID() string {
	return b.id
}

// Source returns the creating object, when known.
func (b BaseInterceptor) Source() (ids.ObjectID, bool) {
	return b.source, b.hasSource
}

// Description returns the label.
func (b BaseInterceptor) Description() string {
	return b.description
}

// RedirectInterceptor rewrites a specific object subject to another object.
// Example: "If your commander would be destroyed, destroy this artifact
// instead."
type RedirectInterceptor struct {
	BaseInterceptor
	kinds []events.Kind
	from  ids.ObjectID
	to    ids.ObjectID
}

// NewRedirectInterceptor creates a redirect for the given kinds, rewriting
// events whose subject is from so that they affect to.
func NewRedirectInterceptor(source ids.ObjectID, description string, kinds []events.Kind, from, to ids.ObjectID) *RedirectInterceptor {
	return &RedirectInterceptor{
		BaseInterceptor: NewBaseInterceptor(source, description),
		kinds:           kinds,
		from:            from,
		to:              to,
	}
}

// Matches implements Interceptor.
func (r *RedirectInterceptor) Matches(kind events.Kind) bool {
	for _, k := range r.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Applies returns true when the event exposes a redirectable target equal to
// the watched object and its scope accepts the proposed replacement.
func (r *RedirectInterceptor) Applies(ev events.Event, game state.Game) bool {
	if !r.Matches(ev.Kind()) {
		return false
	}
	want := events.ObjectTarget(r.from)
	proposed := events.ObjectTarget(r.to)
	for _, rt := range ev.RedirectableTargets() {
		if rt.Target == want && rt.Scope.Allows(proposed) {
			return true
		}
	}
	return false
}

// Resolve implements Interceptor.
func (r *RedirectInterceptor) Resolve(ev events.Event, game state.Game) Decision {
	return RedirectDecision(events.ObjectTarget(r.from), events.ObjectTarget(r.to))
}

// PreventInterceptor cancels matching events outright.
// Example: "This creature can't be sacrificed."
type PreventInterceptor struct {
	BaseInterceptor
	kinds   []events.Kind
	subject ids.ObjectID // NoObject = any subject
}

// NewPreventInterceptor creates a prevention for the given kinds, optionally
// restricted to a single subject (pass ids.NoObject for any).
func NewPreventInterceptor(source ids.ObjectID, description string, kinds []events.Kind, subject ids.ObjectID) *PreventInterceptor {
	return &PreventInterceptor{
		BaseInterceptor: NewBaseInterceptor(source, description),
		kinds:           kinds,
		subject:         subject,
	}
}

// Matches implements Interceptor.
func (p *PreventInterceptor) Matches(kind events.Kind) bool {
	for _, k := range p.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Applies implements Interceptor.
func (p *PreventInterceptor) Applies(ev events.Event, game state.Game) bool {
	if !p.Matches(ev.Kind()) {
		return false
	}
	if p.subject == ids.NoObject {
		return true
	}
	want := events.ObjectTarget(p.subject)
	for _, rt := range ev.RedirectableTargets() {
		if rt.Target == want {
			return true
		}
	}
	return false
}

// Resolve implements Interceptor.
func (p *PreventInterceptor) Resolve(ev events.Event, game state.Game) Decision {
	return PreventDecision()
}

package effects

import (
	"sync"

	"go.uber.org/zap"

	"github.com/cardforge/rules-engine/internal/game/events"
	"github.com/cardforge/rules-engine/internal/game/state"
)

// Registry tracks all active interceptor effects in a game.
//
// Registration order is preserved: it is the deterministic tiebreak when
// several interceptors apply to one event and no player choice is required.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]Interceptor
	order  []Interceptor
	logger *zap.Logger
}

// NewRegistry creates an empty interceptor registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		byID:   make(map[string]Interceptor),
		logger: logger,
	}
}

// Add registers an interceptor.
func (r *Registry) Add(in Interceptor) {
	if in == nil {
		r.logger.Warn("attempted to add nil interceptor")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[in.ID()]; exists {
		return
	}
	r.byID[in.ID()] = in
	r.order = append(r.order, in)

	r.logger.Debug("added interceptor",
		zap.String("interceptor_id", in.ID()),
		zap.String("description", in.Description()))
}

// Remove unregisters an interceptor by ID.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return
	}
	delete(r.byID, id)
	for i, in := range r.order {
		if in.ID() == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	r.logger.Debug("removed interceptor", zap.String("interceptor_id", id))
}

// Get retrieves an interceptor by ID.
func (r *Registry) Get(id string) (Interceptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	in, ok := r.byID[id]
	return in, ok
}

// Interceptors returns all active interceptors in registration order.
func (r *Registry) Interceptors() []Interceptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Interceptor, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of active interceptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// Clear removes all interceptors.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID = make(map[string]Interceptor)
	r.order = nil

	r.logger.Debug("cleared all interceptors")
}

// ApplicableTo returns, in registration order, the interceptors that apply
// to the event and are not yet consumed for its lineage.
func (r *Registry) ApplicableTo(ev events.Event, game state.Game, applied map[string]bool) []Interceptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var applicable []Interceptor
	for _, in := range r.order {
		if applied[in.ID()] {
			continue
		}
		if !in.Matches(ev.Kind()) {
			continue
		}
		if !in.Applies(ev, game) {
			continue
		}
		applicable = append(applicable, in)
	}
	return applicable
}

package server

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cardforge/rules-engine/internal/game/effects"
	"github.com/cardforge/rules-engine/internal/game/events"
	"github.com/cardforge/rules-engine/internal/game/ids"
	"github.com/cardforge/rules-engine/internal/game/state"
)

// Session is one live game: a board, its interceptor registry, and the
// pipeline that resolves events against them.
type Session struct {
	mu       sync.Mutex
	id       string
	table    *state.Table
	registry *effects.Registry
	pipeline *effects.Pipeline
	mutator  *effects.TableMutator
}

// NewSession creates an empty game session.
func NewSession(id string, logger *zap.Logger, opts ...effects.Option) *Session {
	table := state.NewTable(0)
	registry := effects.NewRegistry(logger)
	opts = append([]effects.Option{effects.WithLogger(logger)}, opts...)
	return &Session{
		id:       id,
		table:    table,
		registry: registry,
		pipeline: effects.NewPipeline(registry, opts...),
		mutator:  effects.NewTableMutator(table),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// AddObject places a permanent on the board and returns its id.
func (s *Session) AddObject(obj state.Object) ids.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.AddObject(obj)
}

// Submit resolves one event and commits the outcome to the board.
func (s *Session) Submit(ev events.Event) (effects.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipeline.Execute(s.table, ev, s.mutator)
}

// AddRedirect registers a redirection effect and returns its id.
func (s *Session) AddRedirect(source ids.ObjectID, description string, kinds []events.Kind, from, to ids.ObjectID) string {
	in := effects.NewRedirectInterceptor(source, description, kinds, from, to)
	s.registry.Add(in)
	return in.ID()
}

// AddPrevention registers a prevention effect and returns its id.
func (s *Session) AddPrevention(source ids.ObjectID, description string, kinds []events.Kind, subject ids.ObjectID) string {
	in := effects.NewPreventInterceptor(source, description, kinds, subject)
	s.registry.Add(in)
	return in.ID()
}

// RemoveInterceptor drops a registered effect, for example when its source
// leaves the battlefield.
func (s *Session) RemoveInterceptor(id string) {
	s.registry.Remove(id)
}

// BuildEvent constructs an event from wire parameters.
func (s *Session) BuildEvent(kind string, permanent, source ids.ObjectID) (events.Event, error) {
	switch events.Kind(kind) {
	case events.KindDestroy:
		if source != ids.NoObject {
			return events.DestroyFromSource(permanent, source), nil
		}
		return events.DestroyFromStateBasedAction(permanent), nil
	case events.KindSacrifice:
		if source != ids.NoObject {
			return events.SacrificeFromSource(permanent, source), nil
		}
		return events.NewSacrifice(permanent), nil
	case events.KindBecomeTapped:
		return events.NewTap(permanent), nil
	case events.KindBecomeUntapped:
		return events.NewUntap(permanent), nil
	default:
		return nil, fmt.Errorf("unsupported event kind %q", kind)
	}
}

// ObjectView is the wire representation of a board object.
type ObjectView struct {
	ID         uint64   `json:"id"`
	Name       string   `json:"name"`
	CardTypes  []string `json:"card_types"`
	Power      int      `json:"power"`
	Toughness  int      `json:"toughness"`
	Tapped     bool     `json:"tapped"`
	Controller uint8    `json:"controller"`
	Owner      uint8    `json:"owner"`
}

// InterceptorView is the wire representation of a registered effect.
type InterceptorView struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Source      uint64 `json:"source,omitempty"`
}

// StateView is the wire representation of a session.
type StateView struct {
	GameID       string            `json:"game_id"`
	ActivePlayer uint8             `json:"active_player"`
	Battlefield  []ObjectView      `json:"battlefield"`
	Interceptors []InterceptorView `json:"interceptors"`
}

// View renders the current state for clients.
func (s *Session) View() StateView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := StateView{
		GameID:       s.id,
		ActivePlayer: uint8(s.table.ActivePlayer()),
		Battlefield:  make([]ObjectView, 0, 8),
		Interceptors: make([]InterceptorView, 0, 4),
	}
	for _, obj := range s.table.Objects() {
		view.Battlefield = append(view.Battlefield, ObjectView{
			ID:         uint64(obj.ID),
			Name:       obj.Name,
			CardTypes:  obj.CardTypes,
			Power:      obj.Power,
			Toughness:  obj.Toughness,
			Tapped:     obj.Tapped,
			Controller: uint8(obj.Controller),
			Owner:      uint8(obj.Owner),
		})
	}
	for _, in := range s.registry.Interceptors() {
		iv := InterceptorView{ID: in.ID(), Description: in.Description()}
		if src, ok := in.Source(); ok {
			iv.Source = uint64(src)
		}
		view.Interceptors = append(view.Interceptors, iv)
	}
	return view
}

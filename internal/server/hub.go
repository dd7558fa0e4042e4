// Package server exposes the rules engine over WebSocket so clients can
// drive games interactively.
package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cardforge/rules-engine/internal/game/effects"
	"github.com/cardforge/rules-engine/internal/game/events"
	"github.com/cardforge/rules-engine/internal/game/ids"
	"github.com/cardforge/rules-engine/internal/game/state"
	"github.com/cardforge/rules-engine/internal/repository"
)

// WSMessage is the envelope for every client/server exchange.
type WSMessage struct {
	Type     string          `json:"type"`
	GameID   string          `json:"game_id,omitempty"`
	PlayerID string          `json:"player_id,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

type submitEventPayload struct {
	Kind      string `json:"kind"`
	Permanent uint64 `json:"permanent"`
	Source    uint64 `json:"source,omitempty"`
}

type addRedirectPayload struct {
	Kinds       []string `json:"kinds"`
	From        uint64   `json:"from"`
	To          uint64   `json:"to"`
	Source      uint64   `json:"source,omitempty"`
	Description string   `json:"description,omitempty"`
}

type addPreventionPayload struct {
	Kinds       []string `json:"kinds"`
	Subject     uint64   `json:"subject,omitempty"`
	Source      uint64   `json:"source,omitempty"`
	Description string   `json:"description,omitempty"`
}

type removeInterceptorPayload struct {
	ID string `json:"id"`
}

type resolutionPayload struct {
	GameID     string   `json:"game_id"`
	Kind       string   `json:"kind"`
	Outcome    string   `json:"outcome"`
	Display    string   `json:"display,omitempty"`
	Applied    []string `json:"applied"`
	Iterations int      `json:"iterations"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// Hub routes client messages to game sessions and fans state updates back
// out to every client watching the same game.
//
// Broadcasts run on client read-pump goroutines, so the client set is
// guarded by its own mutex and per-client sends go through Client.trySend,
// which never touches a closed channel.
type Hub struct {
	clientsMu sync.RWMutex
	clients   map[*Client]bool

	mu    sync.RWMutex
	games map[string]*Session

	logger       *zap.Logger
	journal      *repository.EventJournal
	pipelineOpts []effects.Option
}

// NewHub creates an empty hub. journal may be nil when journaling is
// disabled.
func NewHub(logger *zap.Logger, journal *repository.EventJournal, opts ...effects.Option) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:      make(map[*Client]bool),
		games:        make(map[string]*Session),
		logger:       logger,
		journal:      journal,
		pipelineOpts: opts,
	}
}

// Run blocks until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeClients()
}

func (h *Hub) addClient(client *Client) {
	h.clientsMu.Lock()
	h.clients[client] = true
	h.clientsMu.Unlock()
	h.logger.Debug("client registered")
}

func (h *Hub) removeClient(client *Client) {
	h.clientsMu.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	h.clientsMu.Unlock()
	if ok {
		client.closeSend()
		h.logger.Debug("client unregistered")
	}
}

func (h *Hub) closeClients() {
	h.clientsMu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[*Client]bool)
	h.clientsMu.Unlock()

	for _, client := range clients {
		client.closeSend()
	}
}

// Session returns the session for a game, or nil.
func (h *Hub) Session(gameID string) *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.games[gameID]
}

func (h *Hub) createGame(gameID string) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.games[gameID]; ok {
		return s
	}
	s := NewSession(gameID, h.logger.Named("session"), h.pipelineOpts...)
	seedDemoBoard(s)
	h.games[gameID] = s
	h.logger.Info("game created", zap.String("game_id", gameID))
	return s
}

// seedDemoBoard populates a new session with a small two-player board.
func seedDemoBoard(s *Session) {
	s.AddObject(state.Object{
		Name: "Grizzly Bears", CardTypes: []string{"Creature"},
		Power: 2, Toughness: 2, Controller: 0, Owner: 0,
	})
	s.AddObject(state.Object{
		Name: "Serra Angel", CardTypes: []string{"Creature"},
		Power: 4, Toughness: 4, Controller: 0, Owner: 0,
	})
	s.AddObject(state.Object{
		Name: "Shivan Dragon", CardTypes: []string{"Creature"},
		Power: 5, Toughness: 5, Controller: 1, Owner: 1,
	})
	s.AddObject(state.Object{
		Name: "Llanowar Elves", CardTypes: []string{"Creature"},
		Power: 1, Toughness: 1, Controller: 1, Owner: 1, Tapped: true,
	})
}

func (h *Hub) handleMessage(client *Client, msg WSMessage) {
	h.logger.Debug("received message",
		zap.String("type", msg.Type),
		zap.String("game_id", msg.GameID))

	switch msg.Type {
	case "create_game":
		gameID := msg.GameID
		if gameID == "" {
			gameID = "game-" + time.Now().Format("20060102-150405")
		}
		session := h.createGame(gameID)
		client.joinGame(gameID, "")
		client.sendJSON("game_state", session.View())

	case "join_game":
		session := h.Session(msg.GameID)
		if session == nil {
			session = h.createGame(msg.GameID)
		}
		client.joinGame(msg.GameID, msg.PlayerID)
		client.sendJSON("game_state", session.View())

	case "submit_event":
		h.handleSubmitEvent(client, msg)

	case "add_redirect":
		h.handleAddRedirect(client, msg)

	case "add_prevention":
		h.handleAddPrevention(client, msg)

	case "remove_interceptor":
		h.handleRemoveInterceptor(client, msg)

	default:
		client.sendError("unknown message type " + msg.Type)
	}
}

func (h *Hub) handleSubmitEvent(client *Client, msg WSMessage) {
	session := h.Session(client.game())
	if session == nil {
		client.sendError("no game joined")
		return
	}

	var payload submitEventPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		client.sendError("bad submit_event payload: " + err.Error())
		return
	}

	ev, err := session.BuildEvent(payload.Kind, ids.ObjectID(payload.Permanent), ids.ObjectID(payload.Source))
	if err != nil {
		client.sendError(err.Error())
		return
	}

	res, err := session.Submit(ev)
	if err != nil {
		// Contract violations and runaway resolutions abort the event but
		// not the session.
		h.logger.Error("event resolution failed",
			zap.String("game_id", session.ID()),
			zap.String("kind", payload.Kind),
			zap.Error(err))
		client.sendError(err.Error())
		return
	}

	h.recordJournal(session.ID(), ev, res)

	outcome := "committed"
	display := ""
	if res.Prevented {
		outcome = "prevented"
		display = ev.Display()
	} else {
		display = res.Event.Display()
	}
	client.sendJSON("resolution", resolutionPayload{
		GameID:     session.ID(),
		Kind:       payload.Kind,
		Outcome:    outcome,
		Display:    display,
		Applied:    res.Applied,
		Iterations: res.Iterations,
	})
	h.broadcastGameState(session)
}

func (h *Hub) handleAddRedirect(client *Client, msg WSMessage) {
	session := h.Session(client.game())
	if session == nil {
		client.sendError("no game joined")
		return
	}

	var payload addRedirectPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		client.sendError("bad add_redirect payload: " + err.Error())
		return
	}

	id := session.AddRedirect(
		ids.ObjectID(payload.Source),
		payload.Description,
		toKinds(payload.Kinds),
		ids.ObjectID(payload.From),
		ids.ObjectID(payload.To),
	)
	client.sendJSON("interceptor_added", removeInterceptorPayload{ID: id})
	h.broadcastGameState(session)
}

func (h *Hub) handleAddPrevention(client *Client, msg WSMessage) {
	session := h.Session(client.game())
	if session == nil {
		client.sendError("no game joined")
		return
	}

	var payload addPreventionPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		client.sendError("bad add_prevention payload: " + err.Error())
		return
	}

	id := session.AddPrevention(
		ids.ObjectID(payload.Source),
		payload.Description,
		toKinds(payload.Kinds),
		ids.ObjectID(payload.Subject),
	)
	client.sendJSON("interceptor_added", removeInterceptorPayload{ID: id})
	h.broadcastGameState(session)
}

func (h *Hub) handleRemoveInterceptor(client *Client, msg WSMessage) {
	session := h.Session(client.game())
	if session == nil {
		client.sendError("no game joined")
		return
	}

	var payload removeInterceptorPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		client.sendError("bad remove_interceptor payload: " + err.Error())
		return
	}

	session.RemoveInterceptor(payload.ID)
	h.broadcastGameState(session)
}

func (h *Hub) recordJournal(gameID string, submitted events.Event, res effects.Result) {
	if h.journal == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.journal.Record(ctx, gameID, submitted, res); err != nil {
		h.logger.Warn("failed to journal resolution",
			zap.String("game_id", gameID),
			zap.Error(err))
	}
}

func (h *Hub) broadcastGameState(session *Session) {
	payload, err := json.Marshal(WSMessage{Type: "game_state", Data: mustRaw(session.View())})
	if err != nil {
		return
	}
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		if client.game() == session.ID() {
			clients = append(clients, client)
		}
	}
	h.clientsMu.RUnlock()

	for _, client := range clients {
		client.trySend(payload)
	}
}

func mustRaw(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return raw
}

func toKinds(names []string) []events.Kind {
	kinds := make([]events.Kind, 0, len(names))
	for _, n := range names {
		kinds = append(kinds, events.Kind(n))
	}
	return kinds
}

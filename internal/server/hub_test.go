package server

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHubClient(gameID string) *Client {
	return &Client{
		send:   make(chan []byte, 4),
		gameID: gameID,
		logger: zap.NewNop(),
	}
}

func TestHubBroadcastDuringClientChurn(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil)
	session := hub.createGame("churn-game")

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			c := newHubClient("churn-game")
			hub.addClient(c)
			hub.removeClient(c)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			hub.broadcastGameState(session)
		}
	}()

	wg.Wait()
}

func TestHubBroadcastReachesOnlySameGame(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil)
	session := hub.createGame("game-a")
	hub.createGame("game-b")

	inGame := newHubClient("game-a")
	other := newHubClient("game-b")
	hub.addClient(inGame)
	hub.addClient(other)

	hub.broadcastGameState(session)

	require.Len(t, inGame.send, 1)
	assert.Empty(t, other.send)
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil)
	session := hub.createGame("shutdown-game")

	c := newHubClient("shutdown-game")
	hub.addClient(c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	// the write pump's channel drain terminates
	_, open := <-c.send
	assert.False(t, open)

	// late broadcasts and sends find no live client and do not panic
	hub.broadcastGameState(session)
	assert.False(t, c.trySend([]byte("late")))
}

func TestHubRemoveClientTwice(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil)
	c := newHubClient("any")
	hub.addClient(c)
	hub.removeClient(c)
	hub.removeClient(c)

	assert.False(t, c.trySend([]byte("late")))
}

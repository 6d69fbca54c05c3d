package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func waitForClients(t *testing.T, hub *Hub, userID uuid.UUID, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients[userID]) == want
	}, time.Second, 5*time.Millisecond)
}

func TestHub_PushDeliversToUser(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	client := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 8)}
	hub.register <- client
	waitForClients(t, hub, client.UserID, 1)

	hub.Push(client.UserID, "RESPONSE_SCORED", map[string]interface{}{"score": 0.8})

	select {
	case msg := <-client.Send:
		assert.Contains(t, string(msg), "RESPONSE_SCORED")
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
}

func TestHub_PushSkipsOtherUsers(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	client := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 8)}
	hub.register <- client
	waitForClients(t, hub, client.UserID, 1)

	hub.Push(uuid.New(), "SESSION_STARTED", nil)

	assert.Empty(t, client.Send)
}

func TestHub_DropsClientWithFullBuffer(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	client := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 1)}
	hub.register <- client
	waitForClients(t, hub, client.UserID, 1)

	// The first push fills the buffer, the second hits a full channel and
	// evicts the client. Send must be closed exactly once.
	hub.Push(client.UserID, "RESPONSE_SCORED", map[string]interface{}{"score": 0.8})
	hub.Push(client.UserID, "RESPONSE_SCORED", map[string]interface{}{"score": 0.9})
	waitForClients(t, hub, client.UserID, 0)

	// A push after eviction is a no-op.
	hub.Push(client.UserID, "RESPONSE_SCORED", map[string]interface{}{"score": 1.0})

	<-client.Send
	_, open := <-client.Send
	assert.False(t, open)
}

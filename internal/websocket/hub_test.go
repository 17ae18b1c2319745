package websocket

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/dto"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type nopChat struct{}

func (nopChat) Answer(ctx context.Context, sessionId string, message string, topK int) (*dto.ChatAnswerDTO, error) {
	return &dto.ChatAnswerDTO{Answer: "ok"}, nil
}

func newTestClient(hub *Hub) *Client {
	return &Client{Hub: hub, Send: make(chan []byte, 4)}
}

func TestBind_SingleConnectionPerSession(t *testing.T) {
	hub := NewHub(nil, nopChat{}, nopLogger{})

	first := newTestClient(hub)
	hub.clients[first] = true
	hub.Bind("sess-1", first)

	require.Same(t, first, hub.CurrentBinding("sess-1"))
	assert.Equal(t, "sess-1", first.SessionId)

	// A second connection joining the same session takes over the binding.
	second := newTestClient(hub)
	hub.clients[second] = true
	hub.Bind("sess-1", second)

	require.Same(t, second, hub.CurrentBinding("sess-1"))

	// The evicted connection's send channel is closed.
	_, open := <-first.Send
	assert.False(t, open)

	// Frames enqueued to the evicted client are dropped, not panicking.
	first.enqueue([]byte("late frame"))
}

func TestBind_RejoinOtherSessionReleasesOldBinding(t *testing.T) {
	hub := NewHub(nil, nopChat{}, nopLogger{})

	client := newTestClient(hub)
	hub.clients[client] = true

	hub.Bind("sess-1", client)
	hub.Bind("sess-2", client)

	assert.Nil(t, hub.CurrentBinding("sess-1"))
	require.Same(t, client, hub.CurrentBinding("sess-2"))
	assert.Equal(t, "sess-2", client.SessionId)
}

func TestRemoveClient_DropsBinding(t *testing.T) {
	hub := NewHub(nil, nopChat{}, nopLogger{})

	client := newTestClient(hub)
	hub.clients[client] = true
	hub.Bind("sess-1", client)

	hub.removeClient(client)

	assert.Nil(t, hub.CurrentBinding("sess-1"))
	_, open := <-client.Send
	assert.False(t, open)

	// Double removal is a no-op.
	hub.removeClient(client)
}

func TestBroadcast_ReachesAllClients(t *testing.T) {
	hub := NewHub(nil, nopChat{}, nopLogger{})

	bound := newTestClient(hub)
	unbound := newTestClient(hub)
	hub.clients[bound] = true
	hub.clients[unbound] = true
	hub.Bind("sess-1", bound)

	hub.Broadcast(map[string]interface{}{"count": 3})

	assert.Len(t, bound.Send, 1)
	assert.Len(t, unbound.Send, 1)
}

func clusterEnvelope(t *testing.T, origin, target, message string) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"origin":            origin,
		"target_session_id": target,
		"message":           json.RawMessage(message),
	})
	require.NoError(t, err)
	return raw
}

// A broadcast already reaches local clients directly; the fanout echo of that
// same envelope must not deliver it a second time.
func TestHandleClusterEvent_SkipsOwnEnvelope(t *testing.T) {
	hub := NewHub(nil, nopChat{}, nopLogger{})

	client := newTestClient(hub)
	hub.clients[client] = true

	hub.handleClusterEvent(clusterEnvelope(t, hub.instanceId, "*", `{"type":"notification"}`))

	assert.Len(t, client.Send, 0)
}

func TestHandleClusterEvent_DeliversForeignBroadcast(t *testing.T) {
	hub := NewHub(nil, nopChat{}, nopLogger{})

	client := newTestClient(hub)
	hub.clients[client] = true

	hub.handleClusterEvent(clusterEnvelope(t, "other-instance", "*", `{"type":"notification"}`))

	require.Len(t, client.Send, 1)
	assert.JSONEq(t, `{"type":"notification"}`, string(<-client.Send))
}

func TestHandleClusterEvent_TargetedDeliveryToBoundClient(t *testing.T) {
	hub := NewHub(nil, nopChat{}, nopLogger{})

	bound := newTestClient(hub)
	unbound := newTestClient(hub)
	hub.clients[bound] = true
	hub.clients[unbound] = true
	hub.Bind("sess-1", bound)

	hub.handleClusterEvent(clusterEnvelope(t, "other-instance", "sess-1", `{"type":"notification"}`))

	assert.Len(t, bound.Send, 1)
	assert.Len(t, unbound.Send, 0)
}

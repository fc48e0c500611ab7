package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID string, buffer int) *Client {
	return &Client{UserID: userID, Send: make(chan []byte, buffer)}
}

func recvEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.Send:
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_PublishReachesOwnRoomOnly(t *testing.T) {
	hub := NewHub()
	alice := newTestClient("alice", 4)
	bob := newTestClient("bob", 4)
	hub.Register(alice)
	hub.Register(bob)

	err := hub.Publish(context.Background(), "alice", Event{
		Type:      EventReceiveNotification,
		Timestamp: time.Now(),
		Data:      json.RawMessage(`{"message":"hello"}`),
	})
	require.NoError(t, err)

	ev := recvEvent(t, alice)
	assert.Equal(t, EventReceiveNotification, ev.Type)

	select {
	case <-bob.Send:
		t.Fatal("event leaked into another user's room")
	default:
	}
}

func TestHub_PublishToEmptyRoomIsNoop(t *testing.T) {
	hub := NewHub()
	err := hub.Publish(context.Background(), "nobody", Event{Type: EventReceiveNotification})
	require.NoError(t, err)
}

func TestHub_MultipleSessionsSameUser(t *testing.T) {
	hub := NewHub()
	first := newTestClient("alice", 4)
	second := newTestClient("alice", 4)
	hub.Register(first)
	hub.Register(second)

	assert.Equal(t, 2, hub.RoomSize("alice"))

	require.NoError(t, hub.Publish(context.Background(), "alice", Event{Type: EventReceiveNotification}))
	recvEvent(t, first)
	recvEvent(t, second)
}

func TestHub_UnregisterClosesAndEmptiesRoom(t *testing.T) {
	hub := NewHub()
	alice := newTestClient("alice", 4)
	hub.Register(alice)
	hub.Unregister(alice)

	assert.Equal(t, 0, hub.RoomSize("alice"))
	assert.Equal(t, 0, hub.ClientCount())

	_, open := <-alice.Send
	assert.False(t, open)

	// Double unregister must not panic or double-close.
	hub.Unregister(alice)
}

func TestHub_SlowClientIsSkipped(t *testing.T) {
	hub := NewHub()
	slow := newTestClient("alice", 1)
	hub.Register(slow)

	// Fill the buffer; further publishes must not block.
	require.NoError(t, hub.Publish(context.Background(), "alice", Event{Type: EventReceiveNotification}))

	done := make(chan struct{})
	go func() {
		_ = hub.Publish(context.Background(), "alice", Event{Type: EventReceiveNotification})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow client")
	}
}

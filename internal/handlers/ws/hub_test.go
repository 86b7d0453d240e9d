package ws

import (
	"testing"
	"time"
)

// deadlineRecorder stands in for the websocket connection and records every
// read deadline the hub sets.
type deadlineRecorder struct {
	deadlines []time.Time
}

func (r *deadlineRecorder) SetReadDeadline(t time.Time) error {
	r.deadlines = append(r.deadlines, t)
	return nil
}

func addTestConnection(h *Hub, connectionID string, userID uint, channels ...uint) *ClientConnection {
	client := &ClientConnection{
		UserID:       userID,
		ConnectionID: connectionID,
		Channels:     make(map[uint]bool, len(channels)),
		LastPong:     time.Now(),
		CloseChan:    make(chan struct{}),
	}
	for _, ch := range channels {
		client.Channels[ch] = true
	}
	h.add(client)
	return client
}

func TestPongExtendsReadDeadline(t *testing.T) {
	h := NewHub()
	client := addTestConnection(h, "conn-1", 1, 7)
	rec := &deadlineRecorder{}

	handler := h.pongHandler("conn-1", rec)

	before := time.Now()
	if err := handler(""); err != nil {
		t.Fatalf("pong handler error: %v", err)
	}
	if len(rec.deadlines) != 1 {
		t.Fatalf("got %d deadlines, want 1", len(rec.deadlines))
	}
	first := rec.deadlines[0]
	if first.Before(before.Add(h.pongTimeout)) {
		t.Errorf("deadline %v not pushed a full pongTimeout past %v", first, before)
	}

	// A client that keeps ponging keeps moving the deadline forward; with
	// an absolute deadline the read would fail pongTimeout after connect.
	time.Sleep(5 * time.Millisecond)
	if err := handler(""); err != nil {
		t.Fatalf("pong handler error: %v", err)
	}
	second := rec.deadlines[1]
	if !second.After(first) {
		t.Errorf("second pong deadline %v not after first %v", second, first)
	}

	if !client.LastPong.After(before) && !client.LastPong.Equal(before) {
		t.Errorf("LastPong %v not refreshed past %v", client.LastPong, before)
	}
}

func TestPongForUnknownConnectionStillRefreshesDeadline(t *testing.T) {
	h := NewHub()
	rec := &deadlineRecorder{}

	// Connection already unregistered; the handler must not panic and the
	// deadline on the raw conn is still extended.
	handler := h.pongHandler("gone", rec)
	if err := handler(""); err != nil {
		t.Fatalf("pong handler error: %v", err)
	}
	if len(rec.deadlines) != 1 {
		t.Fatalf("got %d deadlines, want 1", len(rec.deadlines))
	}
}

func TestSubscribeUserAddsLiveConnectionsToChannel(t *testing.T) {
	h := NewHub()
	addTestConnection(h, "alice-phone", 1)
	addTestConnection(h, "alice-laptop", 1)
	addTestConnection(h, "bob", 2)

	if got := h.CountForChannel(42); got != 0 {
		t.Fatalf("CountForChannel before subscribe = %d, want 0", got)
	}

	// Alice joins channel 42 mid-session: both her connections follow,
	// Bob's does not.
	h.SubscribeUser(1, 42)

	if got := h.CountForChannel(42); got != 2 {
		t.Errorf("CountForChannel after subscribe = %d, want 2", got)
	}
	h.clientsMux.RLock()
	if _, ok := h.byChannel[42]["bob"]; ok {
		t.Error("bob subscribed to channel 42 without joining")
	}
	h.clientsMux.RUnlock()
}

func TestUnsubscribeUserDropsOnlyThatUser(t *testing.T) {
	h := NewHub()
	addTestConnection(h, "alice-phone", 1, 42)
	addTestConnection(h, "bob", 2, 42)

	h.UnsubscribeUser(1, 42)

	if got := h.CountForChannel(42); got != 1 {
		t.Fatalf("CountForChannel = %d, want 1", got)
	}
	h.clientsMux.RLock()
	if _, ok := h.byChannel[42]["bob"]; !ok {
		t.Error("bob lost his channel 42 subscription")
	}
	h.clientsMux.RUnlock()

	// Dropping the last subscriber clears the channel index entirely.
	h.UnsubscribeUser(2, 42)
	if got := h.CountForChannel(42); got != 0 {
		t.Errorf("CountForChannel after last unsubscribe = %d, want 0", got)
	}
}

func TestUnregisterCleansChannelIndex(t *testing.T) {
	h := NewHub()
	addTestConnection(h, "conn-1", 1, 7, 8)
	addTestConnection(h, "conn-2", 2, 7)

	h.Unregister("conn-1")

	if got := h.Count(); got != 1 {
		t.Errorf("Count = %d, want 1", got)
	}
	if got := h.CountForChannel(7); got != 1 {
		t.Errorf("CountForChannel(7) = %d, want 1", got)
	}
	if got := h.CountForChannel(8); got != 0 {
		t.Errorf("CountForChannel(8) = %d, want 0", got)
	}

	// Unregistering an unknown connection is a no-op.
	h.Unregister("conn-1")
	if got := h.Count(); got != 1 {
		t.Errorf("Count after double unregister = %d, want 1", got)
	}
}

package socket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to read events from a WebSocket connection with a timeout.
func readEvent(t *testing.T, conn *websocket.Conn) Event {
	var ev Event
	// Set a deadline to avoid tests hanging forever.
	conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	_, p, err := conn.ReadMessage()
	require.NoError(t, err, "Failed to read message from WebSocket")
	err = json.Unmarshal(p, &ev)
	require.NoError(t, err, "Failed to unmarshal Event JSON")
	return ev
}

func startHub(t *testing.T, opts ...func(*Hub)) (*Hub, string) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	for _, opt := range opts {
		opt(hub)
	}
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	}))
	t.Cleanup(func() {
		cancel()
		server.Close()
	})

	// Convert http:// to ws://
	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastsToAllClients(t *testing.T) {
	hub, wsURL := startHub(t)

	conn1 := dial(t, wsURL)
	conn2 := dial(t, wsURL)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	payload := `{"_id":"65f1c2a9e4b0a1b2c3d4e5f6","type":"text","content":"Hello"}`
	hub.Publish(Event{Type: OverlayCreatedType, OverlayID: "65f1c2a9e4b0a1b2c3d4e5f6", Payload: json.RawMessage(payload)})

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		ev := readEvent(t, conn)
		assert.Equal(t, OverlayCreatedType, ev.Type)
		assert.Equal(t, "65f1c2a9e4b0a1b2c3d4e5f6", ev.OverlayID)
		assert.JSONEq(t, payload, string(ev.Payload))
	}
}

func TestHubUnregistersClosedClients(t *testing.T) {
	var last atomic.Int64
	hub, wsURL := startHub(t, func(h *Hub) {
		h.OnClientCount = func(n int) { last.Store(int64(n)) }
	})

	conn := dial(t, wsURL)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 0, last.Load())
}

func TestHubClosesClientsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	}))
	defer server.Close()

	conn := dial(t, "ws"+strings.TrimPrefix(server.URL, "http"))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-stopped

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "connection should be closed by the hub")

	// Publishing after shutdown must not block.
	done := make(chan struct{})
	go func() {
		hub.Publish(Event{Type: OverlayDeletedType, OverlayID: "x"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked after hub shutdown")
	}
}

func TestHubDropsLaggingClient(t *testing.T) {
	var last atomic.Int64
	hub, wsURL := startHub(t, func(h *Hub) {
		h.OnClientCount = func(n int) { last.Store(int64(n)) }
	})
	healthy := dial(t, wsURL)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	// A client registered without pumps and with no room in its send buffer.
	conns := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	t.Cleanup(server.Close)

	remote := dial(t, "ws"+strings.TrimPrefix(server.URL, "http"))
	var serverConn *websocket.Conn
	select {
	case serverConn = <-conns:
	case <-time.After(time.Second):
		t.Fatal("upgrade did not complete")
	}

	slow := &Client{Hub: hub, Conn: serverConn, ID: "slow", Send: make(chan []byte)}
	hub.Register <- slow
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Publish(Event{Type: OverlayUpdatedType, OverlayID: "65f1c2a9e4b0a1b2c3d4e5f6"})

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 1, last.Load())

	_, ok := <-slow.Send
	assert.False(t, ok, "send channel of a dropped client is closed")

	remote.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := remote.ReadMessage()
	assert.Error(t, err, "dropped client's connection is closed")

	// The healthy subscriber still gets the event.
	ev := readEvent(t, healthy)
	assert.Equal(t, OverlayUpdatedType, ev.Type)
}

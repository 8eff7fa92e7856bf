package socket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialTestClient upgrades a connection against a throwaway server and
// registers the server side of it in the hub. The returned done channel
// keeps the server-side handler alive until the test closes it.
func dialTestClient(t *testing.T, hub *Hub, userID string) (*websocket.Conn, chan struct{}) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	done := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(userID, conn)
		<-done
		conn.Close()
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, done
}

func TestBroadcastDeliversEvent(t *testing.T) {
	hub := NewHub()
	client, done := dialTestClient(t, hub, "admin-1")
	defer close(done)

	hub.Broadcast(BookingEvent{
		Event:      "created",
		BookingRef: "BK-feed0001",
		CarID:      "CAR-feed0001",
		Status:     "pending",
	})

	client.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, payload, err := client.ReadMessage()
	require.NoError(t, err)

	var ev BookingEvent
	require.NoError(t, json.Unmarshal(payload, &ev))
	assert.Equal(t, "created", ev.Event)
	assert.Equal(t, "BK-feed0001", ev.BookingRef)
}

// Broadcasts arrive from request handlers and the housekeeping cron at the
// same time; every frame must still come out whole.
func TestBroadcastConcurrentWriters(t *testing.T) {
	hub := NewHub()
	client, done := dialTestClient(t, hub, "admin-1")
	defer close(done)

	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hub.Broadcast(BookingEvent{
				Event:      "status_changed",
				BookingRef: fmt.Sprintf("BK-%08d", i),
				CarID:      "CAR-shared01",
				Status:     "confirmed",
			})
		}(i)
	}

	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		client.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, payload, err := client.ReadMessage()
		require.NoError(t, err)

		var ev BookingEvent
		require.NoError(t, json.Unmarshal(payload, &ev), "frame %d must not be corrupted", i)
		seen[ev.BookingRef] = true
	}

	wg.Wait()
	assert.Len(t, seen, n, "every broadcast must arrive exactly once")
}

func TestUnregisterRemovesClient(t *testing.T) {
	hub := NewHub()
	_, done := dialTestClient(t, hub, "admin-1")
	defer close(done)

	hub.Unregister("admin-1")

	// Must not block or panic with no clients connected.
	hub.Broadcast(BookingEvent{Event: "created", BookingRef: "BK-gone0001"})
}

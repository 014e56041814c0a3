package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/questforge/internal/domain"
)

func dial(t *testing.T, srv *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_PublishReachesSubscribers(t *testing.T) {
	hub := NewHub(DefaultHubConfig(), nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	a := dial(t, srv, nil)
	b := dial(t, srv, nil)
	require.Eventually(t, func() bool { return hub.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(domain.Event{ID: "ev-1", Type: domain.EventLevelUp, Timestamp: time.Now()})

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got domain.Event
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, "ev-1", got.ID)
		assert.Equal(t, domain.EventLevelUp, got.Type)
	}
}

func TestHub_RemovesClosedClients(t *testing.T) {
	hub := NewHub(DefaultHubConfig(), nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv, nil)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)

	// Publishing with no subscribers is a no-op.
	hub.Publish(domain.Event{Type: domain.EventUndo})
}

func TestHub_RejectsUnknownOrigin(t *testing.T) {
	cfg := DefaultHubConfig()
	cfg.AllowedOrigins = []string{"http://localhost:3000"}
	hub := NewHub(cfg, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	ok := dial(t, srv, http.Header{"Origin": {"http://localhost:3000"}})
	assert.NotNil(t, ok)
}

func TestHub_CloseDisconnects(t *testing.T) {
	hub := NewHub(DefaultHubConfig(), nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv, nil)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Close())
	assert.Equal(t, 0, hub.Count())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	return websocket.Dial(ctx, wsURL, &websocket.DialOptions{HTTPHeader: header})
}

func TestHubBroadcastReload(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Shutdown()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := dial(t, srv, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool { return hub.GetConnectedClients() == 1 },
		2*time.Second, 10*time.Millisecond)

	hub.BroadcastReload([]string{"output/index.html"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	typ, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, typ)

	var msg UpdateMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageReload, msg.Type)
	assert.Equal(t, []string{"output/index.html"}, msg.Paths)
}

func TestHubRejectsForeignOrigin(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Shutdown()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	_, resp, err := dial(t, srv, http.Header{"Origin": []string{"http://evil.example"}})
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	}
	assert.Equal(t, 0, hub.GetConnectedClients())
}

func TestHubClientDisconnect(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Shutdown()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := dial(t, srv, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.GetConnectedClients() == 1 },
		2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))
	assert.Eventually(t, func() bool { return hub.GetConnectedClients() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestHubShutdownIsIdempotent(t *testing.T) {
	hub := NewHub(nil)
	hub.Shutdown()
	hub.Shutdown()

	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/__livereload", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// dropped silently
	hub.BroadcastReload(nil)
}

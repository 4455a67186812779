package notify

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubBroadcastsNotices(t *testing.T) {
	h := NewHub()
	defer h.Close()
	a := dial(t, h)
	b := dial(t, h)
	require.Eventually(t, func() bool { return h.Clients() == 2 }, time.Second, 5*time.Millisecond)

	h.Notify("Class saved.", 3*time.Second)

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		var ev Event
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, TypeNotice, ev.Type)
		assert.Equal(t, "Class saved.", ev.Message)
		assert.Equal(t, int64(3000), ev.DurationMS)
		assert.NotEmpty(t, ev.ID)
		assert.False(t, ev.Time.IsZero())
	}
}

func TestHubPublishesData(t *testing.T) {
	h := NewHub()
	defer h.Close()
	conn := dial(t, h)
	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 5*time.Millisecond)

	h.Publish(Event{Type: TypeCountdown, Data: map[string]int{"seconds": 42}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var ev struct {
		Type string         `json:"type"`
		Data map[string]int `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, TypeCountdown, ev.Type)
	assert.Equal(t, 42, ev.Data["seconds"])
}

func TestHubForgetsDisconnectedClients(t *testing.T) {
	h := NewHub()
	conn := dial(t, h)
	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return h.Clients() == 0 }, time.Second, 5*time.Millisecond)

	h.Notify("nobody listens", time.Second)
}

type recorder []string

func (r *recorder) Notify(message string, _ time.Duration) { *r = append(*r, message) }

func TestMulti(t *testing.T) {
	var a, b recorder
	Multi{&a, Log{}, &b}.Notify("hello", time.Second)
	assert.Equal(t, recorder{"hello"}, a)
	assert.Equal(t, recorder{"hello"}, b)
}

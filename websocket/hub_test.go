package websocket

import (
	"HaloBackend/interfaces"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	hub := NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func dial(t *testing.T, hub *Hub, parentID string) *gws.Conn {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = ServeWs(hub, w, r, parentID)
	}))
	t.Cleanup(server.Close)

	conn, _, err := gws.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount(parentID) > 0 }, time.Second, 5*time.Millisecond)
	return conn
}

func TestHubDeliversOnlyToAddressedParent(t *testing.T) {
	hub := newTestHub(t)
	mine := dial(t, hub, "p1")
	other := dial(t, hub, "p2")

	hub.Publish(interfaces.FeedMessage{Type: interfaces.FeedTypeAlert, ParentID: "p1", Payload: map[string]string{"text": "hi"}})

	mine.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := mine.ReadMessage()
	require.NoError(t, err)

	var got interfaces.FeedMessage
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, interfaces.FeedTypeAlert, got.Type)
	assert.Equal(t, "p1", got.ParentID)

	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}

func TestHubForgetsClosedSessions(t *testing.T) {
	hub := newTestHub(t)
	conn := dial(t, hub, "p1")
	assert.Equal(t, 1, hub.ClientCount("p1"))

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount("p1") == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubPublishWithoutSessionsDoesNotBlock(t *testing.T) {
	hub := newTestHub(t)
	for i := 0; i < 1000; i++ {
		hub.Publish(interfaces.FeedMessage{Type: interfaces.FeedTypeSOS, ParentID: "nobody"})
	}
	assert.Equal(t, 0, hub.ClientCount("nobody"))
}

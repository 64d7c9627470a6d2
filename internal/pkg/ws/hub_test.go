package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	client := &Client{UserID: 1}
	hub.Register(client)

	assert.True(t, hub.IsOnline(1))
	assert.Equal(t, 1, hub.ConnectionCount())

	hub.Unregister(client)
	assert.False(t, hub.IsOnline(1))
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestHub_MultipleConnectionsPerUser(t *testing.T) {
	hub := NewHub()

	// same user from two tabs
	c1 := &Client{UserID: 1}
	c2 := &Client{UserID: 1}
	hub.Register(c1)
	hub.Register(c2)

	assert.Equal(t, 2, hub.ConnectionCount())
	assert.True(t, hub.IsOnline(1))

	// user stays online until the last connection drops
	hub.Unregister(c1)
	assert.True(t, hub.IsOnline(1))

	hub.Unregister(c2)
	assert.False(t, hub.IsOnline(1))
}

func TestHub_SendToUser_Offline(t *testing.T) {
	hub := NewHub()

	err := hub.SendToUser(123, &Message{Type: "test"})
	assert.NoError(t, err)
}

func TestHub_SendToUser_DeliversOverWebSocket(t *testing.T) {
	hub := NewHub()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		hub.Register(&Client{UserID: 7, Conn: conn})
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// wait until the server side registered the connection
	deadline := time.Now().Add(2 * time.Second)
	for !hub.IsOnline(7) && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	require.True(t, hub.IsOnline(7))

	require.NoError(t, hub.SendToUser(7, &Message{
		Type: "notification",
		Data: map[string]interface{}{"post_id": 3},
	}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, "notification", msg.Type)
}

func TestMessage_JSON(t *testing.T) {
	msg := &Message{
		Type: "notification",
		Data: map[string]string{"k": "v"},
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"notification"`)
}

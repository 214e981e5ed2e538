package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func dialWS(t *testing.T, serverURL, user string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws?user=" + user
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", user, err)
	}
	return conn
}

func waitForSessions(t *testing.T, h *WSHandler, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.M.Len() < n {
		if time.Now().After(deadline) {
			t.Fatalf("sessions = %d, want %d", h.M.Len(), n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Sessions opened concurrently must each be tagged with their own user,
// so notifications for one user never reach another.
func TestNotifyChangeReachesOnlyOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewWSHandler()

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		c.Set("user_id", c.Query("user"))
		h.HandleWS(c)
	})

	server := httptest.NewServer(router)
	defer server.Close()

	alice := dialWS(t, server.URL, "alice")
	defer alice.Close()
	bob := dialWS(t, server.URL, "bob")
	defer bob.Close()

	waitForSessions(t, h, 2)

	h.NotifyChange("alice", "accounts")

	alice.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := alice.ReadMessage()
	if err != nil {
		t.Fatalf("alice read: %v", err)
	}

	var msg map[string]string
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg["type"] != "changed" || msg["entity"] != "accounts" {
		t.Errorf("message = %v, want changed/accounts", msg)
	}

	// Bob shares the melody instance but not the user; his read must
	// time out with nothing delivered.
	bob.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if _, _, err := bob.ReadMessage(); err == nil {
		t.Error("bob received a notification meant for alice")
	}
}

package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/fintrack/fintrack-api/middleware"
)

// WSHandler pushes change notifications so an open dashboard can refresh
// without polling.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive matters behind cloud load balancers.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	// The connect callback is instance-global in melody, so the session
	// owner comes from per-request keys, never from a closure.
	m.HandleConnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("✅ Client connected: %v", userID)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("🔌 Client disconnected: %v", userID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades an authenticated request to a WebSocket session
// tagged with the requesting user.
func (h *WSHandler) HandleWS(c *gin.Context) {
	keys := map[string]interface{}{"user_id": middleware.GetUserID(c)}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// NotifyChange tells every session of this user that an entity set
// changed; the client decides what to refetch.
func (h *WSHandler) NotifyChange(userID string, entity string) {
	msg, _ := json.Marshal(map[string]string{"type": "changed", "entity": entity})

	err := h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		id, exists := q.Get("user_id")
		return exists && id == userID
	})
	if err != nil {
		log.Printf("⚠️ Error broadcasting to user %s: %v", userID, err)
	}
}

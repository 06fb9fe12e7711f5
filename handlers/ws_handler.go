package handlers

import (
	"context"
	"net/http"

	"carebridge-backend/middleware"
	"carebridge-backend/realtime"

	"github.com/gin-gonic/gin"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// WSHandler upgrades authenticated clients to a websocket and relays their
// table subscriptions to the hub
type WSHandler struct {
	hub *realtime.Hub
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(hub *realtime.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// subscribeMsg is the only message clients send: which table to watch or drop
type subscribeMsg struct {
	Subscribe   string `json:"subscribe,omitempty"`
	Unsubscribe string `json:"unsubscribe,omitempty"`
}

// Connect handles GET /api/ws
func (h *WSHandler) Connect(c *gin.Context) {
	userID := middleware.UserID(c)

	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPGRADE_FAILED",
				"message": "Websocket upgrade failed",
			},
		})
		return
	}

	client := h.hub.AddClient(userID, conn)
	defer h.hub.RemoveClient(client)

	// read loop: subscription changes only; exits on disconnect
	for {
		var msg subscribeMsg
		if err := wsjson.Read(context.Background(), conn, &msg); err != nil {
			return
		}
		if msg.Subscribe != "" {
			client.Subscribe(msg.Subscribe)
		}
		if msg.Unsubscribe != "" {
			client.Unsubscribe(msg.Unsubscribe)
		}
	}
}

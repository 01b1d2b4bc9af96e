package controller

import (
	"log/slog"
	"net/http"

	"github.com/rafiql/voice-session-service/src/hub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// SubscriberController upgrades inbound connections and hands them to the hub
type SubscriberController struct {
	Hub      *hub.Hub
	upgrader websocket.Upgrader
}

func NewSubscriberController(h *hub.Hub) *SubscriberController {
	return &SubscriberController{
		Hub: h,
		upgrader: websocket.Upgrader{
			// No cross-origin policy: any client may subscribe to lifecycle events
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe upgrades the request to a websocket, registers it with the hub,
// and echoes every inbound text frame back as {"ack": <text>}. The connection
// is unregistered as soon as the read loop observes a close or error.
func (c *SubscriberController) Subscribe(ctx *gin.Context) {
	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		slog.Error("Failed to upgrade websocket connection", "error", err)
		return
	}

	client := c.Hub.Register(conn)
	defer func() {
		c.Hub.Unregister(client)
		slog.Info("Subscriber disconnected", "remote_addr", conn.RemoteAddr().String())
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType == websocket.TextMessage {
			c.Hub.SendDirect(client, gin.H{"ack": string(data)})
		}
	}
}

package handlers

import (
	"log"
	"net/http"

	ws "github.com/dom/fantasy-cricket-draft/internal/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients connect from a separately hosted frontend.
		return true
	},
}

type WebSocketHandler struct {
	hub *ws.Hub
}

func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// Handle upgrades the connection and registers the client. The socket is
// broadcast-only, so identity is optional: spectators connect without one.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	managerID := uuid.Nil
	if raw := r.URL.Query().Get("managerId"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			managerID = id
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn, managerID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

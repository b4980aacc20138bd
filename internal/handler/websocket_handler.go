package handler

import (
	"staffadmin/internal/middleware"
	"staffadmin/internal/websocket"

	"github.com/gin-gonic/gin"
)

type WebsocketHandler struct {
	hub *websocket.Hub
}

func NewWebsocketHandler(hub *websocket.Hub) *WebsocketHandler {
	return &WebsocketHandler{hub: hub}
}

// RegisterRoutes mounts /ws. Only holders of a valid session cookie may
// subscribe to change events.
func (h *WebsocketHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ws", middleware.RequireAPISession(), func(c *gin.Context) {
		websocket.ServeWs(h.hub, c, middleware.CurrentSession(c).UserID)
	})
}

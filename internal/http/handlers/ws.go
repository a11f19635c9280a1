package handlers

import (
	"net/http"
	"os"

	"chaotic_backend/internal/logger"
	"chaotic_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Feed upgrades the connection and attaches it to the pack-opening feed.
// The feed is read-only for clients, so no token is required.
func (h *Handler) Feed(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "error", err)
			return
		}

		ws.Serve(hub, conn)
	}
}

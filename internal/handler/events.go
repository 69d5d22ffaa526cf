package handler

import (
	"io"

	"github.com/kth-biblioteket/fragematning/internal/realtime"

	"github.com/gin-gonic/gin"
)

// Events streams new-entry notifications over SSE. The event carries no
// payload; receivers re-run their current query.
func Events(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ch := hub.Register()
		defer hub.Unregister(id)

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		c.Stream(func(w io.Writer) bool {
			select {
			case <-ch:
				c.SSEvent("new-entry", "")
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}

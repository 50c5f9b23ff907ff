package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-feed-service/internal/notifier"
)

// StreamHandler serves the real-time channel over server-sent events. Each
// connected client gets its own subscription; events published before the
// client connected are never replayed.
type StreamHandler struct {
	Hub    *notifier.Hub
	Logger *logrus.Logger
}

func NewStreamHandler(hub *notifier.Hub, logger *logrus.Logger) *StreamHandler {
	return &StreamHandler{Hub: hub, Logger: logger}
}

// Stream GET /api/feed/stream
func (h *StreamHandler) Stream(c *gin.Context) {
	sub := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(sub)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case evt, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("posts", evt)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

package handlers

import (
	"io"
	"net/http"
	"time"

	"cafe-pos/internal/events"

	"github.com/gin-gonic/gin"
)

const keepAliveEvery = 25 * time.Second

type EventsHandler struct {
	Hub *events.Hub
}

// Stream pushes live updates as server-sent events until the client goes away.
// Clients re-fetch on "new-order"; "ping" only keeps proxies from closing the connection.
func (h *EventsHandler) Stream(c *gin.Context) {
	sub, unsubscribe := h.Hub.Subscribe()
	defer unsubscribe()

	ticker := time.NewTicker(keepAliveEvery)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.SSEvent("ready", gin.H{"at": time.Now().UTC()})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case evt, open := <-sub:
			if !open {
				return false
			}
			c.SSEvent(evt.Type, evt)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{})
			return true
		}
	})
}

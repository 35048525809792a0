package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// streamVerdicts pushes every verdict stored for a project as Server-Sent
// Events until the client disconnects.
func (h *Handler) streamVerdicts(c *gin.Context) {
	projectID := c.Param("projectId")
	ctx := c.Request.Context()

	sub := h.events.Subscribe(ctx, projectID)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		h.log.Warn("failed to subscribe to verdict events", zap.String("project_id", projectID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "verdict events unavailable"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
		return
	}

	fmt.Fprintf(c.Writer, "event: ready\ndata: {\"project_id\":%q}\n\n", projectID)
	flusher.Flush()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	messages := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()
		case msg, ok := <-messages:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: verdict\ndata: %s\n\n", msg.Payload)
			flusher.Flush()
		}
	}
}

package daemon

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var keepAliveInterval = 30 * time.Second

// streamEvents streams hub events as server-sent events. With ?session=<id>
// only events of that session are sent.
func (d *Daemon) streamEvents(c *gin.Context) {
	only := c.Query("session")

	ch := d.hub.Subscribe(only)
	defer d.hub.Unsubscribe(ch)

	logrus.WithField("session", only).Debug("event stream opened")

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Header("Content-Type", "text/event-stream")
	// Send headers now so subscribers know the stream is open before the
	// first event arrives.
	c.Status(http.StatusOK)
	c.Writer.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		case <-keepAlive.C:
			_, _ = io.WriteString(w, ": keep-alive\n\n")
			return true
		case <-ctx.Done():
			return false
		case <-d.done:
			return false
		}
	})

	logrus.WithField("session", only).Debug("event stream closed")
}

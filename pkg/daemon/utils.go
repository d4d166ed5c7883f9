package daemon

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ginLogger logs one line per request. Successful requests are logged at
// debug level so key presses do not flood the daemon log.
func ginLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// other handler can change c.Path so:
		path := c.Request.URL.Path
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		statusCode := c.Writer.Status()
		dataLength := c.Writer.Size()
		if dataLength < 0 {
			dataLength = 0
		}

		fields := logrus.Fields{
			"statusCode": statusCode,
			"latency":    latency.Milliseconds(),
			"method":     c.Request.Method,
			"path":       path,
			"dataLength": dataLength,
		}
		if id := c.Param("id"); id != "" {
			fields["session"] = id
		}
		entry := logger.WithFields(fields)

		msg := fmt.Sprintf("%s %s %d (%s)", c.Request.Method, path, statusCode, latency.Round(time.Millisecond))
		switch {
		case statusCode >= http.StatusInternalServerError:
			entry.Error(errorsOr(c, msg))
		case statusCode >= http.StatusBadRequest:
			entry.Warn(errorsOr(c, msg))
		default:
			entry.Debug(msg)
		}
	}
}

func errorsOr(c *gin.Context, msg string) string {
	if len(c.Errors) > 0 {
		return msg + ": " + c.Errors.ByType(gin.ErrorTypePrivate).String()
	}
	return msg
}

package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stockroom/pkg/logger"
)

// RequestRecorder counts served requests.
type RequestRecorder interface {
	HTTPRequest(method, route, status string)
}

// Logger middleware logs HTTP requests with timing and status.
// recorder may be nil.
func Logger(log *logger.Logger, recorder RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if recorder != nil {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			recorder.HTTPRequest(c.Request.Method, route, strconv.Itoa(status))
		}

		log.WithContext(c.Request.Context()).Infow("http request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"error", c.Errors.ByType(gin.ErrorTypePrivate).String(),
		)
	}
}

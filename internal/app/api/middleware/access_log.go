package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLogMiddleware writes one line per request through the request-scoped
// logger attached by RequestLoggerMiddleware. Requests without one (metrics,
// unrouted paths) are not access-logged.
func AccessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		l, ok := c.Get("logger")
		if !ok {
			return
		}
		log, ok := l.(*zap.SugaredLogger)
		if !ok || log == nil {
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		log.Infow("http_access",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"bytes_out", c.Writer.Size(),
			"client_ip", c.ClientIP(),
		)
	}
}

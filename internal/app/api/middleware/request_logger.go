package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware attaches a request-scoped logger carrying the trace
// id to gin.Context and the request context, and mirrors the trace id back to
// the caller via X-Request-ID.
func RequestLoggerMiddleware(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetString("traceID")

		reqLogger := base.With("trace_id", traceID)
		c.Set("logger", reqLogger)

		ctx := context.WithValue(c.Request.Context(), "logger", reqLogger)
		c.Request = c.Request.WithContext(ctx)

		if traceID != "" {
			c.Writer.Header().Set("X-Request-ID", traceID)
		}

		c.Next()
	}
}

package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/DishIs/temp-mail-sub000/pkg/tool"
)

// TraceMiddleware assigns every request a trace id, honoring an inbound
// X-Request-ID so provider webhook deliveries can be correlated with the
// provider's own dashboard. The id lands in both gin.Context (key "traceID")
// and the request's context.Context.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Request-ID")
		if traceID == "" {
			traceID = tool.GenerateUUIDV7()
		}

		c.Set("traceID", traceID)
		ctx := context.WithValue(c.Request.Context(), "traceID", traceID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

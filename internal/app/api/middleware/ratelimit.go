package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DishIs/temp-mail-sub000/pkg/ratelimit"
)

// RateLimitMiddleware throttles authenticated API routes per user id, falling
// back to client IP for anonymous requests. Webhook routes are never rate
// limited: the providers control their own retry schedule.
func RateLimitMiddleware(l *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString("user_id")
		if key == "" {
			key = c.ClientIP()
		}
		if !l.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

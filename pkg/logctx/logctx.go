package logctx

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FromGin returns the request-scoped logger attached by the request-logger
// middleware, enriched with the authenticated user id when present. Falls
// back to the base logger outside a request.
func FromGin(c *gin.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return base
	}
	log := base
	if l, ok := c.Get("logger"); ok {
		if lg, ok := l.(*zap.SugaredLogger); ok && lg != nil {
			log = lg
		}
	} else {
		log = FromCtx(c.Request.Context(), base)
	}
	if uid := c.GetString("user_id"); uid != "" {
		log = log.With("user_id", uid)
	}
	return log
}

// FromCtx returns the logger stored in ctx, or base enriched with trace_id /
// user_id primitives when only those were propagated.
func FromCtx(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if ctx == nil {
		return base
	}
	if lg, ok := ctx.Value("logger").(*zap.SugaredLogger); ok && lg != nil {
		return lg
	}
	var fields []interface{}
	if tid, ok := ctx.Value("traceID").(string); ok && tid != "" {
		fields = append(fields, "trace_id", tid)
	}
	if uid, ok := ctx.Value("user_id").(string); ok && uid != "" {
		fields = append(fields, "user_id", uid)
	}
	if len(fields) > 0 {
		return base.With(fields...)
	}
	return base
}

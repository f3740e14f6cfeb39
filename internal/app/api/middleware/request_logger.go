package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/paygate/pkg/logctx"
)

// RequestLoggerMiddleware attaches a request-scoped logger enriched with
// trace_id and payment_id (for /payments/:id routes) to gin.Context and request context.
func RequestLoggerMiddleware(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID, _ := c.Get(logctx.TraceIDKey)

		reqLogger := base.With("trace_id", traceID)
		ctx := c.Request.Context()
		if id := c.Param("id"); id != "" {
			reqLogger = reqLogger.With("payment_id", id)
			ctx = context.WithValue(ctx, logctx.PaymentIDKey, id)
		}
		c.Set(logctx.LoggerKey, reqLogger)

		// also attach to std context
		ctx = context.WithValue(ctx, logctx.LoggerKey, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

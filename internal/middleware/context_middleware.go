package middleware

import (
	"github.com/PeterTHA/bo-resource-management/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger attaches a logger carrying the request id and the actor to
// the request context. It runs after RequestID and AuthMiddleware.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		md := contextutil.ExtractMetadata(ctx)

		reqLogger := logger.With(
			zap.String("request_id", md.RequestID),
			zap.String("employee_id", md.ActorID),
		)

		c.Request = c.Request.WithContext(contextutil.WithLogger(ctx, reqLogger))
		c.Next()
	}
}

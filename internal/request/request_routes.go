package request

import (
	"github.com/PeterTHA/bo-resource-management/internal/middleware"
	"github.com/PeterTHA/bo-resource-management/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the request workflow. The auth chain must populate
// employee_id and role; idempotency may be nil.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	idempotency gin.HandlerFunc,
	auth ...gin.HandlerFunc,
) {
	submit := []gin.HandlerFunc{handler.Submit}
	if idempotency != nil {
		submit = append([]gin.HandlerFunc{idempotency}, submit...)
	}

	requests := r.Group("/requests")
	requests.Use(auth...)
	{
		requests.POST("", submit...)
		requests.GET("", handler.List)
		requests.GET("/:id", handler.GetByID)
		requests.GET("/:id/history", handler.History)
		requests.POST("/:id/approve", handler.Approve)
		requests.POST("/:id/reject", handler.Reject)
		requests.POST("/:id/cancel-request", handler.RequestCancel)
		requests.POST("/:id/cancel-approve", handler.ApproveCancel)
		requests.POST("/:id/cancel-reject", handler.RejectCancel)
		requests.DELETE("/:id", handler.Withdraw)
	}

	admin := r.Group("/admin")
	admin.Use(auth...)
	{
		admin.POST("/reconcile", middleware.RequireCapability(rbacService, rbac.ActionReconcile), handler.Reconcile)
	}
}

package middleware

import (
	"github.com/PeterTHA/bo-resource-management/internal/rbac"
	"github.com/PeterTHA/bo-resource-management/internal/shared/apperror"
	"github.com/PeterTHA/bo-resource-management/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RequireCapability guards routes whose permission does not depend on
// request ownership.
func RequireCapability(service rbac.Service, action rbac.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("employee_id") == "" {
			response.Abort(c, apperror.ErrUnauthorized.HTTPStatus, apperror.ErrUnauthorized.Code, apperror.ErrUnauthorized.Message)
			return
		}

		subject := rbac.Subject{Role: rbac.ParseRole(c.GetString("role"))}
		allowed, err := service.Can(subject, action)
		if err != nil {
			response.Abort(c, apperror.ErrInternal.HTTPStatus, apperror.ErrInternal.Code, apperror.ErrInternal.Message)
			return
		}
		if !allowed {
			response.Error(c, apperror.ErrForbidden.HTTPStatus, apperror.ErrForbidden.Code, apperror.ErrForbidden.Message,
				gin.H{"required": string(action)},
			)
			c.Abort()
			return
		}
		c.Next()
	}
}

package request

import (
	"errors"
	"io"
	"net/http"

	"github.com/PeterTHA/bo-resource-management/internal/approval"
	"github.com/PeterTHA/bo-resource-management/internal/rbac"
	"github.com/PeterTHA/bo-resource-management/internal/shared/apperror"
	"github.com/PeterTHA/bo-resource-management/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	labels  *approval.Labels
	logger  *zap.Logger
}

func NewHandler(service Service, labels *approval.Labels, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("request.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.handler")
	}
	if labels == nil {
		labels = approval.DefaultLabels()
	}
	return &Handler{service: service, labels: labels, logger: l}
}

func getActor(c *gin.Context) Actor {
	return Actor{
		EmployeeID: c.GetString("employee_id"),
		Role:       rbac.ParseRole(c.GetString("role")),
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	}
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("request operation failed", append(fields, zap.Error(err))...)
	} else {
		h.logger.Warn("request operation failed", fields...)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) withLabel(c *gin.Context, resp RequestResponse) RequestResponse {
	resp.StatusLabel = h.labels.Label(StatusOf(resp), c.GetHeader("Accept-Language"))
	return resp
}

func (h *Handler) Submit(c *gin.Context) {
	actor := getActor(c)
	h.logger.Debug("http submit request", zap.String("actor_id", actor.EmployeeID))

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http submit request validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, h.withLabel(c, resp), nil)
}

type decisionFunc func(svc Service, c *gin.Context, actor Actor, id, text string) (RequestResponse, error)

// decide binds the optional comment body and runs one decision.
func (h *Handler) decide(c *gin.Context, fn decisionFunc) {
	var req DecisionRequest
	// the comment is optional; an empty body of any transfer encoding is io.EOF
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := fn(h.service, c, getActor(c), c.Param("id"), req.Comment)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.withLabel(c, resp), nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, func(svc Service, c *gin.Context, actor Actor, id, text string) (RequestResponse, error) {
		return svc.Approve(c.Request.Context(), actor, id, text)
	})
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, func(svc Service, c *gin.Context, actor Actor, id, text string) (RequestResponse, error) {
		return svc.Reject(c.Request.Context(), actor, id, text)
	})
}

func (h *Handler) ApproveCancel(c *gin.Context) {
	h.decide(c, func(svc Service, c *gin.Context, actor Actor, id, text string) (RequestResponse, error) {
		return svc.ApproveCancel(c.Request.Context(), actor, id, text)
	})
}

func (h *Handler) RejectCancel(c *gin.Context) {
	h.decide(c, func(svc Service, c *gin.Context, actor Actor, id, text string) (RequestResponse, error) {
		return svc.RejectCancel(c.Request.Context(), actor, id, text)
	})
}

func (h *Handler) RequestCancel(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http cancel request validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.RequestCancel(c.Request.Context(), getActor(c), c.Param("id"), req.Reason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.withLabel(c, resp), nil)
}

func (h *Handler) Withdraw(c *gin.Context) {
	resp, err := h.service.Withdraw(c.Request.Context(), getActor(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.withLabel(c, resp), nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), getActor(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.withLabel(c, resp), nil)
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	items, total, err := h.service.List(c.Request.Context(), getActor(c), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	for i := range items {
		items[i] = h.withLabel(c, items[i])
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) History(c *gin.Context) {
	resp, err := h.service.History(c.Request.Context(), getActor(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	resp.Request = h.withLabel(c, resp.Request)
	resp.StatusLabel = h.labels.Label(approval.Resolution{
		Status: approval.Status(resp.Status),
		Cancel: approval.CancelState(resp.CancelState),
	}, c.GetHeader("Accept-Language"))
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reconcile(c *gin.Context) {
	repair := c.Query("repair") == "true"
	h.logger.Info("http reconcile requested",
		zap.String("employee_id", c.GetString("employee_id")),
		zap.Bool("repair", repair),
	)

	report, err := h.service.Reconcile(c.Request.Context(), repair)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report, nil)
}

package app

import (
	"net/http"
	"time"

	"github.com/PeterTHA/bo-resource-management/internal/approval"
	"github.com/PeterTHA/bo-resource-management/internal/config"
	"github.com/PeterTHA/bo-resource-management/internal/messaging/kafka"
	"github.com/PeterTHA/bo-resource-management/internal/metrics"
	"github.com/PeterTHA/bo-resource-management/internal/middleware"
	"github.com/PeterTHA/bo-resource-management/internal/rbac"
	"github.com/PeterTHA/bo-resource-management/internal/request"
	"github.com/PeterTHA/bo-resource-management/internal/shared/apperror"
	"github.com/PeterTHA/bo-resource-management/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const idempotencyTTL = 24 * time.Hour

// newRequestService wires the workflow over the given connections.
func newRequestService(infra *Infra, notifier request.Notifier) (request.Service, rbac.Service, error) {
	rbacService, err := rbac.NewDefaultService()
	if err != nil {
		return nil, nil, err
	}

	svc := request.NewService(
		infra.SQLDB,
		request.NewRepository(infra.GormDB),
		approval.NewRepository(infra.GormDB),
		rbacService,
		notifier,
	)
	return svc, rbacService, nil
}

func registerModules(router *gin.Engine, cfg config.Config, infra *Infra) error {
	logger := zap.L()

	// --- Services ---
	notifier := request.NewOutboxNotifier(kafka.NewOutboxRepository(infra.SQLDB))
	requestService, rbacService, err := newRequestService(infra, notifier)
	if err != nil {
		return err
	}

	// --- Handlers ---
	requestHandler := request.NewHandler(requestService, approval.DefaultLabels())

	// --- Middleware ---
	router.Use(middleware.RequestID(), middleware.Metrics())

	authChain := []gin.HandlerFunc{
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.ContextLogger(logger),
		middleware.RateLimitByUser(rate.Limit(cfg.RateLimitRPS), cfg.RateBurst),
	}

	var idempotency gin.HandlerFunc
	if infra.Redis != nil {
		idempotency = middleware.Idempotency(infra.Redis, idempotencyTTL)
	}

	// --- Routes Registration ---
	router.GET("/healthz", func(c *gin.Context) {
		if err := infra.SQLDB.PingContext(c.Request.Context()); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			response.Error(c, apperror.ErrUnavailable.HTTPStatus, apperror.ErrUnavailable.Code, apperror.ErrUnavailable.Message, nil)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, nil)
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api/v1")
	{
		request.RegisterRoutes(api, requestHandler, rbacService, idempotency, authChain...)
	}

	return nil
}

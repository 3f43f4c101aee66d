package app

import (
	"context"
	"encoding/json"
	"io"

	"github.com/PeterTHA/bo-resource-management/internal/bootstrap"
	"github.com/PeterTHA/bo-resource-management/internal/config"
	"github.com/PeterTHA/bo-resource-management/internal/request"

	"go.uber.org/zap"
)

// RunReconcile verifies every cached status against the event log and, when
// repair is set, rewrites drifted rows. The report is written to out as JSON.
func RunReconcile(ctx context.Context, cfg config.Config, repair bool, out io.Writer) error {
	infra, err := connectDatabase(cfg)
	if err != nil {
		return err
	}
	defer infra.Close()

	svc, _, err := newRequestService(infra, request.NoopNotifier{})
	if err != nil {
		return err
	}
	return reconcile(ctx, svc, bootstrap.NewStdoutAuditLogger(), repair, out)
}

func reconcile(ctx context.Context, svc request.Service, audit bootstrap.AuditLogger, repair bool, out io.Writer) error {
	logger := zap.L().Named("app.reconcile")

	report, err := svc.Reconcile(ctx, repair)
	if err != nil {
		logger.Error("reconcile failed", zap.Error(err))
		return err
	}

	for _, d := range report.Drifted {
		if !d.Repaired {
			continue
		}
		audit.Log(ctx, bootstrap.AuditLog{
			Action:  "REQUEST_CACHE_REPAIRED",
			Message: "cached status rewritten from the approval log",
			Meta: map[string]any{
				"request_id":          d.RequestID,
				"cached_status":       d.CachedStatus,
				"cached_cancel_state": d.CachedCancelState,
				"status":              d.Status,
				"cancel_state":        d.CancelState,
			},
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

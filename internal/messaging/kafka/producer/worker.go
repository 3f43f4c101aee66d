package producer

import (
	"context"
	"time"

	"github.com/PeterTHA/bo-resource-management/internal/messaging/kafka"
	"github.com/PeterTHA/bo-resource-management/internal/metrics"

	"go.uber.org/zap"
)

const batchSize = 50

func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if _, err := RelayPending(ctx, repo, writer, log); err != nil {
				log.Error("process outbox events failed", zap.Error(err))
			}
			ReportBacklog(ctx, repo, log)
		}
	}
}

// RelayPending publishes one batch of due outbox events and returns how many
// were sent. A failed publish is recorded on the event and does not stop the batch.
func RelayPending(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) (int, error) {
	events, err := repo.ListPending(ctx, batchSize)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	logger.Info("processing pending outbox events", zap.Int("count", len(events)))

	sent := 0
	for _, event := range events {
		if err := publishEvent(ctx, writer, event); err != nil {
			logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Int("retry_count", event.RetryCount),
				zap.Error(err),
			)
			metrics.RecordOutboxPublish("failed")
			if markErr := repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				logger.Error("mark outbox failed failed", zap.String("outbox_id", event.ID), zap.Error(markErr))
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		sent++
		metrics.RecordOutboxPublish("sent")
		logger.Debug("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)
	}

	return sent, nil
}

// ReportBacklog refreshes the outbox gauges. Dead rows need an operator.
func ReportBacklog(ctx context.Context, repo kafka.OutboxRepository, logger *zap.Logger) {
	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		logger.Warn("count outbox events failed", zap.Error(err))
		return
	}
	metrics.SetOutboxBacklog(counts)
	if dead := counts[kafka.OutboxStatusDead]; dead > 0 {
		logger.Warn("outbox has undeliverable events", zap.Int64("dead", dead))
	}
}

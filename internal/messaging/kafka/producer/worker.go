package producer

import (
	"context"
	"time"

	"go-hrms/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const batchSize = 50

// ProcessOutboxEvents polls the outbox table and relays pending events to
// Kafka until ctx is cancelled. Failed publishes are rescheduled with the
// backoff encoded in MarkFailed.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	log := logger.Named("kafka.producer.outbox")
	log.Info("outbox relay started", zap.Duration("poll_interval", pollInterval))

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox relay stopped")
			return
		case <-ticker.C:
			relayBatch(ctx, repo, writer, log)
		}
	}
}

func relayBatch(ctx context.Context, repo kafka.OutboxRepository, writer *kafkago.Writer, log *zap.Logger) {
	events, err := repo.ListPending(ctx, batchSize)
	if err != nil {
		log.Error("list pending outbox events failed", zap.Error(err))
		return
	}

	for _, event := range events {
		if err := kafka.ValidateOutboxEvent(event); err != nil {
			log.Error("invalid outbox event",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			if markErr := repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				log.Error("mark outbox failed errored", zap.String("outbox_id", event.ID), zap.Error(markErr))
			}
			continue
		}

		if err := publishEvent(ctx, writer, event); err != nil {
			log.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("topic", event.Topic),
				zap.Error(err),
			)
			if markErr := repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				log.Error("mark outbox failed errored", zap.String("outbox_id", event.ID), zap.Error(markErr))
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			log.Error("mark outbox sent failed", zap.String("outbox_id", event.ID), zap.Error(err))
			continue
		}

		log.Debug("outbox event published",
			zap.String("outbox_id", event.ID),
			zap.String("topic", event.Topic),
			zap.String("event_type", event.EventType),
		)
	}
}

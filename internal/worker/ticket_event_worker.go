package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/delivery-issue-api/internal/events"
	"github.com/spec-kit/delivery-issue-api/internal/observability"
)

// StartTicketEventWorker subscribes metric and audit-log handlers to ticket events.
func StartTicketEventWorker(dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, func(_ context.Context, e events.Event) error {
		payload, _ := e.Payload.(events.TicketCreatedPayload)
		metrics.RecordTicketCreated(payload.Type)
		logger.Debug("TicketCreated",
			zap.String("event_id", e.ID),
			zap.String("ticket_id", e.TicketID),
			zap.Any("payload", payload))
		return nil
	})
	dispatcher.Subscribe(events.EventTicketNotificationSent, func(_ context.Context, e events.Event) error {
		metrics.RecordNotification("sent")
		return nil
	})
	dispatcher.Subscribe(events.EventTicketNotificationSkipped, func(_ context.Context, e events.Event) error {
		metrics.RecordNotification("skipped")
		return nil
	})
	dispatcher.Subscribe(events.EventTicketNotificationFailed, func(_ context.Context, e events.Event) error {
		metrics.RecordNotification("failed")
		payload, _ := e.Payload.(events.NotificationPayload)
		logger.Warn("TicketNotificationFailed",
			zap.String("ticket_id", e.TicketID),
			zap.String("backend", payload.Backend),
			zap.String("error", payload.Error))
		return nil
	})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/delivery-issue-api/internal/notification"
)

// NotificationService runs a Notifier as a best-effort side channel: its
// outcome is reported, never raised.
type NotificationService struct {
	notifier notification.Notifier
	timeout  time.Duration
	logger   *zap.Logger
}

// NewNotificationService creates the service. A zero timeout leaves the
// caller's deadline in charge.
func NewNotificationService(notifier notification.Notifier, timeout time.Duration, logger *zap.Logger) *NotificationService {
	return &NotificationService{notifier: notifier, timeout: timeout, logger: logger}
}

// Backend names the underlying notifier.
func (n *NotificationService) Backend() string {
	if n == nil || n.notifier == nil {
		return "none"
	}
	return n.notifier.Name()
}

// Send delivers msg, converting timeouts and panics into a failed Result.
func (n *NotificationService) Send(ctx context.Context, msg notification.Message) (res notification.Result) {
	if n == nil || n.notifier == nil {
		return notification.Result{Error: "no notifier configured"}
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("notifier panic", zap.String("ticket_id", msg.TicketID), zap.Any("panic", r))
			res = notification.Result{Error: fmt.Sprintf("notifier panic: %v", r)}
		}
	}()

	res = n.notifier.Notify(ctx, msg)
	if !res.Sent && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.Error = "notification timed out"
	}
	if !res.Sent {
		n.logger.Warn("customer notification failed",
			zap.String("ticket_id", msg.TicketID),
			zap.String("backend", n.notifier.Name()),
			zap.String("error", res.Error))
	}
	return res
}

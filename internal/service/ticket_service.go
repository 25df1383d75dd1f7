package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/delivery-issue-api/internal/domain"
	"github.com/spec-kit/delivery-issue-api/internal/events"
	"github.com/spec-kit/delivery-issue-api/internal/notification"
	"github.com/spec-kit/delivery-issue-api/internal/repository"
	apperrors "github.com/spec-kit/delivery-issue-api/pkg/util/errorutil"
)

// NotificationOutcome summarizes what happened to the customer email.
type NotificationOutcome string

const (
	NotificationSent    NotificationOutcome = "sent"
	NotificationFailed  NotificationOutcome = "failed"
	NotificationSkipped NotificationOutcome = "skipped"
)

// Message returns the customer-facing description of the outcome.
func (o NotificationOutcome) Message() string {
	switch o {
	case NotificationSent:
		return "Notificación enviada al cliente"
	case NotificationFailed:
		return "Error al enviar notificación"
	default:
		return "No se proporcionó correo del cliente"
	}
}

// TicketResult describes a created ticket.
type TicketResult struct {
	Type              string
	Sheet             string
	TicketID          string
	Record            domain.TicketRecord
	Notification      NotificationOutcome
	NotificationError string
}

// TicketService coordinates ticket intake.
type TicketService struct {
	registry      *domain.Registry
	ids           IDGenerator
	rows          repository.RowStore
	notifications *NotificationService
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	storeTimeout  time.Duration
	now           func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Registry      *domain.Registry
	IDs           IDGenerator
	Rows          repository.RowStore
	Notifications *NotificationService
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	StoreTimeout  time.Duration
	Now           func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TicketService{
		registry:      deps.Registry,
		ids:           deps.IDs,
		rows:          deps.Rows,
		notifications: deps.Notifications,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		storeTimeout:  deps.StoreTimeout,
		now:           now,
	}
}

// CreateTicket validates the request, appends its row and notifies the
// customer. A ticket exists once its row is appended; notification
// failures are reported in the result, not as an error.
func (s *TicketService) CreateTicket(ctx context.Context, req domain.TicketRequest) (*TicketResult, error) {
	ticketType, ok := s.registry.Resolve(req.Type)
	if req.Type == "" || !ok {
		return nil, apperrors.NewValidationError(apperrors.MessageInvalidType)
	}

	ticketID, err := s.ids.Generate(ctx, req.Type)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	record := domain.NewTicketRecord(req, ticketID, s.now())
	if err := s.appendRow(ctx, ticketType.DisplayName, record); err != nil {
		s.logger.Error("failed to append ticket row",
			zap.String("ticket_id", ticketID),
			zap.String("sheet", ticketType.DisplayName),
			zap.Error(err))
		return nil, apperrors.NewPersistenceError(err)
	}

	s.logger.Info("ticket created",
		zap.String("ticket_id", ticketID),
		zap.String("type", req.Type),
		zap.String("sheet", ticketType.DisplayName))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticketID,
		Payload: events.TicketCreatedPayload{
			Type:     req.Type,
			Sheet:    ticketType.DisplayName,
			Priority: record.Prioridad,
			Guia:     record.Guia,
		},
	})

	result := &TicketResult{
		Type:         req.Type,
		Sheet:        ticketType.DisplayName,
		TicketID:     ticketID,
		Record:       record,
		Notification: NotificationSkipped,
	}

	email := strings.TrimSpace(req.Contact.Correo)
	if email == "" {
		s.publishEvent(ctx, events.Event{Type: events.EventTicketNotificationSkipped, TicketID: ticketID})
		return result, nil
	}

	res := s.notifications.Send(ctx, notification.Message{
		TicketID:    ticketID,
		Category:    ticketType.DisplayName,
		Email:       email,
		Nombre:      req.Contact.Nombre,
		Guia:        req.Guia,
		Descripcion: req.Descripcion,
		Prioridad:   record.Prioridad,
	})
	payload := events.NotificationPayload{
		Backend:   s.notifications.Backend(),
		MessageID: res.MessageID,
		Error:     res.Error,
	}
	if res.Sent {
		result.Notification = NotificationSent
		s.publishEvent(ctx, events.Event{Type: events.EventTicketNotificationSent, TicketID: ticketID, Payload: payload})
	} else {
		result.Notification = NotificationFailed
		result.NotificationError = res.Error
		s.publishEvent(ctx, events.Event{Type: events.EventTicketNotificationFailed, TicketID: ticketID, Payload: payload})
	}
	return result, nil
}

// Ping checks the row store.
func (s *TicketService) Ping(ctx context.Context) error {
	return s.rows.Ping(ctx)
}

func (s *TicketService) appendRow(ctx context.Context, sheet string, record domain.TicketRecord) error {
	if s.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
	}
	return s.rows.AppendRow(ctx, sheet, record)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.dispatcher.Publish(ctx, event)
}

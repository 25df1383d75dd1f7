package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/delivery-issue-api/internal/api/dto"
	"github.com/spec-kit/delivery-issue-api/internal/service"
	apperrors "github.com/spec-kit/delivery-issue-api/pkg/util/errorutil"
)

const ticketCreatedMessage = "Ticket created successfully"

// TicketsHandler manages ticket intake endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	// Bodies are decoded as JSON whatever their Content-Type.
	var req dto.CreateTicketRequest
	if body := c.Body(); len(body) > 0 {
		if err := c.App().Config().JSONDecoder(body, &req); err != nil {
			return apperrors.NewBadRequest(apperrors.MessageInvalidBody)
		}
	}

	result, err := h.service.CreateTicket(c.UserContext(), req.ToDomain())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(dto.CreateTicketResponse{
		Message:      ticketCreatedMessage,
		Type:         result.Type,
		Sheet:        result.Sheet,
		IDTicket:     result.TicketID,
		EmailSent:    result.Notification == service.NotificationSent,
		EmailMessage: result.Notification.Message(),
	})
}

// Package notification sends ticket confirmation emails to customers.
//
// Every backend reports failure as data in a Result; Notify never returns
// an error or panics past its own boundary.
package notification

import (
	"context"
	"fmt"
)

// Message carries what a confirmation email needs.
type Message struct {
	TicketID    string
	Category    string
	Email       string
	Nombre      string
	Guia        string
	Descripcion string
	Prioridad   string
}

// Result is the outcome of a single notification attempt.
type Result struct {
	Sent      bool
	MessageID string
	Error     string
}

// Notifier delivers a confirmation for a created ticket.
type Notifier interface {
	Notify(ctx context.Context, msg Message) Result
	Name() string
}

// Sender identifies the From address of outgoing mail.
type Sender struct {
	Name  string
	Email string
}

// Subject renders the confirmation subject line.
func Subject(msg Message) string {
	return fmt.Sprintf("✅ Ticket Creado: %s - %s", msg.TicketID, msg.Category)
}

func recipientName(msg Message) string {
	if msg.Nombre != "" {
		return msg.Nombre
	}
	return "Cliente"
}

func failed(format string, args ...any) Result {
	return Result{Error: fmt.Sprintf(format, args...)}
}

type disabledNotifier struct{}

// NewDisabledNotifier reports every attempt as not sent.
func NewDisabledNotifier() Notifier {
	return disabledNotifier{}
}

func (disabledNotifier) Notify(context.Context, Message) Result {
	return failed("email notifications disabled")
}

func (disabledNotifier) Name() string { return "none" }

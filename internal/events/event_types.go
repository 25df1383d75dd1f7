package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated             EventType = "ticket_created"
	EventTicketNotificationSent    EventType = "ticket_notification_sent"
	EventTicketNotificationFailed  EventType = "ticket_notification_failed"
	// EventTicketNotificationSkipped is published when no customer email was given.
	EventTicketNotificationSkipped EventType = "ticket_notification_skipped"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Type     string `json:"type"`
	Sheet    string `json:"sheet"`
	Priority string `json:"priority"`
	Guia     string `json:"guia,omitempty"`
}

// NotificationPayload describes a notification attempt.
type NotificationPayload struct {
	Backend   string `json:"backend"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// BrevoConfig configures the Brevo transactional email API client.
type BrevoConfig struct {
	BaseURL string
	APIKey  string
	Sender  Sender
}

// BrevoNotifier sends confirmations through Brevo's HTTP API.
type BrevoNotifier struct {
	cfg    BrevoConfig
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewBrevoNotifier creates the notifier. client must not be nil.
func NewBrevoNotifier(cfg BrevoConfig, client *http.Client, logger *zap.Logger) *BrevoNotifier {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &BrevoNotifier{cfg: cfg, client: client, logger: logger, now: time.Now}
}

type brevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoEmail struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

type brevoResponse struct {
	MessageID string `json:"messageId"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

func (n *BrevoNotifier) Name() string { return "brevo" }

// Notify posts the email to /v3/smtp/email.
func (n *BrevoNotifier) Notify(ctx context.Context, msg Message) Result {
	html, err := RenderHTML(msg, n.now())
	if err != nil {
		return failed("render email: %v", err)
	}

	payload, err := json.Marshal(brevoEmail{
		Sender:      brevoContact{Email: n.cfg.Sender.Email, Name: n.cfg.Sender.Name},
		To:          []brevoContact{{Email: msg.Email, Name: recipientName(msg)}},
		Subject:     Subject(msg),
		HTMLContent: html,
	})
	if err != nil {
		return failed("encode email: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.BaseURL+"/v3/smtp/email", bytes.NewReader(payload))
	if err != nil {
		return failed("build request: %v", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", n.cfg.APIKey)

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("brevo request failed", zap.String("ticket_id", msg.TicketID), zap.Error(err))
		return failed("%v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var parsed brevoResponse
	_ = json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason := parsed.Message
		if reason == "" {
			reason = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		n.logger.Warn("brevo rejected email",
			zap.String("ticket_id", msg.TicketID),
			zap.Int("status", resp.StatusCode),
			zap.String("code", parsed.Code),
			zap.String("reason", reason))
		return Result{Error: reason}
	}

	n.logger.Info("email notification sent",
		zap.String("ticket_id", msg.TicketID),
		zap.String("message_id", parsed.MessageID))
	return Result{Sent: true, MessageID: parsed.MessageID}
}

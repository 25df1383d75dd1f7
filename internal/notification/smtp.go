package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	mail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SMTPConfig configures direct SMTP submission.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// TLS is one of "mandatory", "opportunistic" or "none".
	TLS    string
	Sender Sender
}

// SMTPNotifier submits confirmations to an SMTP relay.
type SMTPNotifier struct {
	cfg    SMTPConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewSMTPNotifier creates the notifier.
func NewSMTPNotifier(cfg SMTPConfig, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, logger: logger, now: time.Now}
}

func (n *SMTPNotifier) Name() string { return "smtp" }

// Notify dials the relay, sends one message and disconnects.
func (n *SMTPNotifier) Notify(ctx context.Context, msg Message) Result {
	m, messageID, err := n.buildMessage(msg)
	if err != nil {
		return failed("%v", err)
	}

	client, err := mail.NewClient(n.cfg.Host, n.clientOptions()...)
	if err != nil {
		return failed("smtp client: %v", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		n.logger.Warn("smtp send failed", zap.String("ticket_id", msg.TicketID), zap.Error(err))
		return failed("%v", err)
	}

	n.logger.Info("email notification sent",
		zap.String("ticket_id", msg.TicketID),
		zap.String("message_id", messageID))
	return Result{Sent: true, MessageID: messageID}
}

func (n *SMTPNotifier) buildMessage(msg Message) (*mail.Msg, string, error) {
	html, err := RenderHTML(msg, n.now())
	if err != nil {
		return nil, "", fmt.Errorf("render email: %w", err)
	}

	m := mail.NewMsg()
	if err := m.FromFormat(n.cfg.Sender.Name, n.cfg.Sender.Email); err != nil {
		return nil, "", fmt.Errorf("invalid sender: %w", err)
	}
	if err := m.AddToFormat(recipientName(msg), msg.Email); err != nil {
		return nil, "", fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(Subject(msg))
	m.SetBodyString(mail.TypeTextHTML, html)

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), senderDomain(n.cfg.Sender.Email))
	m.SetGenHeader(mail.HeaderMessageID, messageID)
	return m, messageID, nil
}

func (n *SMTPNotifier) clientOptions() []mail.Option {
	opts := []mail.Option{mail.WithPort(n.cfg.Port)}
	switch n.cfg.TLS {
	case "none":
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	case "opportunistic":
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}
	return opts
}

func senderDomain(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}

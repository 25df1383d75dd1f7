// Package ticketclient is a Go client for the delivery issue ticket API.
package ticketclient

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

	"github.com/spec-kit/delivery-issue-api/pkg/util/httpclient"
)

const ticketsPath = "/api/tickets"

// Contact holds optional customer contact details.
type Contact struct {
	Nombre   string `json:"nombre,omitempty"`
	Telefono string `json:"telefono,omitempty"`
	Correo   string `json:"correo,omitempty"`
}

// CreateTicketRequest is the body of POST /api/tickets.
type CreateTicketRequest struct {
	Type           string   `json:"type"`
	Guia           string   `json:"guia,omitempty"`
	Contacto       *Contact `json:"contacto,omitempty"`
	CedisDestino   string   `json:"cedis_destino,omitempty"`
	AgenteAsignado string   `json:"agente_asignado,omitempty"`
	Descripcion    string   `json:"descripcion,omitempty"`
	// Prioridad defaults to "Urgente" server side when empty.
	Prioridad string `json:"prioridad,omitempty"`
}

// CreateTicketResponse is returned for a created ticket.
type CreateTicketResponse struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Sheet        string `json:"sheet"`
	IDTicket     string `json:"id_ticket"`
	EmailSent    bool   `json:"email_sent"`
	EmailMessage string `json:"email_message"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ticket api error [%d]: %s (%s)", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("ticket api error [%d]: %s", e.StatusCode, e.Message)
}

// Client calls the ticket API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default pooled client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger enables debug logging of requests.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpclient.New(30 * time.Second),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateTicket submits a ticket and returns the generated id and email outcome.
func (c *Client) CreateTicket(ctx context.Context, req CreateTicketRequest) (*CreateTicketResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ticketsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	c.logger.Debug("ticket api response",
		zap.Int("status", resp.StatusCode),
		zap.String("type", req.Type))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if json.Unmarshal(body, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
			apiErr.Details = errBody.Details
		}
		return nil, apiErr
	}

	var out CreateTicketResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

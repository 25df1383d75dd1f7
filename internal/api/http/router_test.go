package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/delivery-issue-api/internal/api/dto"
	"github.com/spec-kit/delivery-issue-api/internal/api/http/handlers"
	"github.com/spec-kit/delivery-issue-api/internal/domain"
	"github.com/spec-kit/delivery-issue-api/internal/events"
	"github.com/spec-kit/delivery-issue-api/internal/notification"
	"github.com/spec-kit/delivery-issue-api/internal/observability"
	"github.com/spec-kit/delivery-issue-api/internal/repository"
	"github.com/spec-kit/delivery-issue-api/internal/service"
	"github.com/spec-kit/delivery-issue-api/internal/worker"
)

type fakeNotifier struct {
	result notification.Result
	calls  int
}

func (f *fakeNotifier) Notify(context.Context, notification.Message) notification.Result {
	f.calls++
	return f.result
}

func (f *fakeNotifier) Name() string { return "fake" }

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

type testServer struct {
	app      *fiber.App
	rows     *repository.MemoryRowStore
	notifier *fakeNotifier
	metrics  *observability.Metrics
}

func newTestServer(t *testing.T, sheets []string, deps map[string]handlers.Pinger) *testServer {
	t.Helper()
	registry := domain.DefaultRegistry()
	if sheets == nil {
		sheets = registry.DisplayNames()
	}
	ts := &testServer{
		rows:     repository.NewMemoryRowStore(sheets),
		notifier: &fakeNotifier{result: notification.Result{Sent: true, MessageID: "<m1@test>"}},
		metrics:  observability.NewMetrics(),
	}
	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartTicketEventWorker(dispatcher, ts.metrics, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Registry:      registry,
		IDs:           service.NewSequentialIDGenerator(registry, repository.NewMemoryCounterStore()),
		Rows:          ts.rows,
		Notifications: service.NewNotificationService(ts.notifier, time.Second, logger),
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	if deps == nil {
		deps = map[string]handlers.Pinger{"row_store": ticketService}
	}

	ts.app = fiber.New()
	RegisterMiddlewares(ts.app, logger, ts.metrics, 5*time.Second)
	RegisterRoutes(ts.app, RouteConfig{
		Health:  handlers.NewHealthHandler("delivery-issue-api", "test", deps),
		Tickets: handlers.NewTicketsHandler(ticketService),
		Metrics: ts.metrics,
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	contentType := ""
	if body != "" {
		contentType = "application/json"
	}
	return ts.doWithContentType(t, method, path, contentType, body)
}

func (ts *testServer) doWithContentType(t *testing.T, method, path, contentType, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

const validTicket = `{
	"type": "dnr",
	"guia": "GUIA-778",
	"contacto": {"nombre": "Ana", "telefono": "555-0101", "correo": "ana@example.com"},
	"cedis_destino": "CEDIS Norte",
	"agente_asignado": "agente.uno",
	"descripcion": "No reconoce la entrega"
}`

func TestCreateTicketSendsEmail(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	status, body := ts.do(t, http.MethodPost, "/api/tickets", validTicket)
	require.Equal(t, http.StatusOK, status, string(body))

	var resp dto.CreateTicketResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "Ticket created successfully", resp.Message)
	assert.Equal(t, "dnr", resp.Type)
	assert.Equal(t, "DNR", resp.Sheet)
	assert.Regexp(t, regexp.MustCompile(`^DNR\d+$`), resp.IDTicket)
	assert.True(t, resp.EmailSent)
	assert.Equal(t, "Notificación enviada al cliente", resp.EmailMessage)

	rows := ts.rows.Rows("DNR")
	require.Len(t, rows, 1)
	assert.Equal(t, resp.IDTicket, rows[0].TicketID)
	assert.Equal(t, "Urgente", rows[0].Prioridad)
	assert.Equal(t, 1, ts.notifier.calls)
}

func TestCreateTicketInvalidType(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	for _, payload := range []string{`{"type":"unknown_type","guia":"X"}`, `{"guia":"X"}`, ""} {
		status, body := ts.do(t, http.MethodPost, "/api/tickets", payload)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.JSONEq(t, `{"error":"Invalid or missing ticket type"}`, string(body))
	}
	for _, sheet := range domain.DefaultRegistry().DisplayNames() {
		assert.Empty(t, ts.rows.Rows(sheet))
	}
	assert.Zero(t, ts.notifier.calls)
}

func TestCreateTicketMalformedBody(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	status, body := ts.do(t, http.MethodPost, "/api/tickets", `{"type":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, string(body))
}

func TestCreateTicketIgnoresContentType(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	for _, contentType := range []string{"", "text/plain"} {
		status, body := ts.doWithContentType(t, http.MethodPost, "/api/tickets", contentType, validTicket)
		require.Equal(t, http.StatusOK, status, "content type %q: %s", contentType, body)

		var resp dto.CreateTicketResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Regexp(t, regexp.MustCompile(`^DNR\d+$`), resp.IDTicket)
	}
	assert.Len(t, ts.rows.Rows("DNR"), 2)

	status, body := ts.doWithContentType(t, http.MethodPost, "/api/tickets", "text/plain", "guia=1")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, string(body))
}

func TestCreateTicketWithoutEmail(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	status, body := ts.do(t, http.MethodPost, "/api/tickets",
		`{"type":"retraso_entrega","guia":"G-1","prioridad":"Alta"}`)
	require.Equal(t, http.StatusOK, status, string(body))

	var resp dto.CreateTicketResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "Retraso de entrega", resp.Sheet)
	assert.Regexp(t, regexp.MustCompile(`^RE\d+$`), resp.IDTicket)
	assert.False(t, resp.EmailSent)
	assert.Equal(t, "No se proporcionó correo del cliente", resp.EmailMessage)
	assert.Zero(t, ts.notifier.calls)

	rows := ts.rows.Rows("Retraso de entrega")
	require.Len(t, rows, 1)
	assert.Equal(t, "Alta", rows[0].Prioridad)
	assert.Empty(t, rows[0].Contact.Correo)
}

func TestCreateTicketMissingSheet(t *testing.T) {
	ts := newTestServer(t, []string{"Retraso de entrega"}, nil)

	status, body := ts.do(t, http.MethodPost, "/api/tickets", validTicket)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"Internal server error","details":"sheet with title \"DNR\" not found"}`, string(body))
	assert.Zero(t, ts.notifier.calls)
}

func TestCreateTicketNotificationFailure(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	ts.notifier.result = notification.Result{Error: "Key not found"}

	status, body := ts.do(t, http.MethodPost, "/api/tickets", validTicket)
	require.Equal(t, http.StatusOK, status, string(body))

	var resp dto.CreateTicketResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.False(t, resp.EmailSent)
	assert.Equal(t, "Error al enviar notificación", resp.EmailMessage)
	assert.Len(t, ts.rows.Rows("DNR"), 1)
}

func TestRootAndLiveness(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	status, body := ts.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Delivery Issue API is running", string(body))

	status, body = ts.do(t, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"alive"`)

	status, _ = ts.do(t, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestReadinessReportsFailingDependency(t *testing.T) {
	ts := newTestServer(t, nil, map[string]handlers.Pinger{"counter_store": failingPinger{}})

	status, body := ts.do(t, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, string(body), "connection refused")
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	status, body := ts.do(t, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), "Cannot GET /api/unknown")
}

func TestMetricsEndpointExposesTicketCounters(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	status, _ := ts.do(t, http.MethodPost, "/api/tickets", validTicket)
	require.Equal(t, http.StatusOK, status)
	status, _ = ts.do(t, http.MethodPost, "/api/tickets", `{"type":"dnr","guia":"G-2"}`)
	require.Equal(t, http.StatusOK, status)

	status, body := ts.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `tickets_created_total{type="dnr"} 2`)
	assert.Contains(t, string(body), `ticket_notifications_total{outcome="sent"} 1`)
	assert.Contains(t, string(body), `ticket_notifications_total{outcome="skipped"} 1`)
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set(observability.RequestIDHeader, "req-42")
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-42", resp.Header.Get(observability.RequestIDHeader))
}

package ticketclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTicket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tickets", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "dnr", body["type"])
		assert.Equal(t, map[string]any{"nombre": "Ana", "correo": "ana@example.com"}, body["contacto"])
		assert.NotContains(t, body, "prioridad")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Ticket created successfully","type":"dnr","sheet":"DNR","id_ticket":"DNR150","email_sent":true,"email_message":"Notificación enviada al cliente"}`))
	}))
	defer srv.Close()

	client := New(srv.URL + "/")
	resp, err := client.CreateTicket(context.Background(), CreateTicketRequest{
		Type:     "dnr",
		Guia:     "G-1",
		Contacto: &Contact{Nombre: "Ana", Correo: "ana@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "DNR150", resp.IDTicket)
	assert.Equal(t, "DNR", resp.Sheet)
	assert.True(t, resp.EmailSent)
}

func TestCreateTicketAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error","details":"sheet with title \"DNR\" not found"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateTicket(context.Background(), CreateTicketRequest{Type: "dnr"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Internal server error", apiErr.Message)
	assert.Equal(t, `sheet with title "DNR" not found`, apiErr.Details)
}

func TestCreateTicketNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithHTTPClient(srv.Client())).CreateTicket(context.Background(), CreateTicketRequest{Type: "dnr"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Gateway", apiErr.Message)
	assert.Empty(t, apiErr.Details)
}

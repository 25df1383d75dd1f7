package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithMemoryBackends(t *testing.T) {
	t.Setenv("ROW_STORE_BACKEND", "memory")
	t.Setenv("NOTIFY_BACKEND", "none")
	t.Setenv("PORT", "4000")
	t.Setenv("NOTIFY_TIMEOUT_SECONDS", "3")
	t.Setenv("GOOGLE_PRIVATE_KEY", `line1\nline2`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:4000", cfg.App.Addr())
	assert.Equal(t, IDStrategySequential, cfg.Tickets.IDStrategy)
	assert.Equal(t, CounterBackendMemory, cfg.Tickets.CounterBackend)
	assert.Equal(t, 3*time.Second, cfg.Notification.Timeout())
	assert.Equal(t, 15*time.Second, cfg.RowStore.Timeout())
	assert.Equal(t, "line1\nline2", cfg.Sheets.PrivateKey)
	assert.Equal(t, "Soporte AMPM", cfg.Notification.SenderName)
}

func TestLoadSenderFallsBackToBrevoVariable(t *testing.T) {
	t.Setenv("ROW_STORE_BACKEND", "memory")
	t.Setenv("NOTIFY_BACKEND", "brevo")
	t.Setenv("BREVO_API_KEY", "key")
	t.Setenv("BREVO_SENDER_EMAIL", "envios@example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "envios@example.com", cfg.Notification.SenderEmail)
}

func TestValidateRejectsMissingCredentials(t *testing.T) {
	cfg := &Config{
		Tickets:      TicketsConfig{IDStrategy: "snowflake", CounterBackend: CounterBackendMemory},
		RowStore:     RowStoreConfig{Backend: RowStoreSheets},
		Notification: NotificationConfig{Backend: NotifyBackendSMTP, SMTP: SMTPConfig{TLS: "mandatory"}},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TICKET_ID_STRATEGY")
	assert.Contains(t, err.Error(), "SPREADSHEET_ID")
	assert.Contains(t, err.Error(), "SMTP_HOST")
}

func TestValidateAcceptsRedisUUIDPostgres(t *testing.T) {
	cfg := &Config{
		Tickets:      TicketsConfig{IDStrategy: IDStrategyUUID, CounterBackend: CounterBackendRedis},
		RowStore:     RowStoreConfig{Backend: RowStorePostgres},
		Postgres:     PostgresConfig{DSN: "postgres://localhost/tickets"},
		Notification: NotificationConfig{Backend: NotifyBackendNone},
	}
	assert.NoError(t, cfg.Validate())
}

func TestLoadRegistryFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types.yaml")
	content := `types:
  - key: dnr
    display_name: DNR
    abbreviation: DNR
  - key: retraso_entrega
    display_name: Retraso de entrega
    abbreviation: RE
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"DNR", "Retraso de entrega"}, reg.DisplayNames())

	_, ok := reg.Resolve("sustraccion")
	assert.False(t, ok)
}

func TestLoadRegistryDefaultsAndErrors(t *testing.T) {
	reg, err := LoadRegistry("")
	require.NoError(t, err)
	assert.Len(t, reg.Types(), 10)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("types:\n  - key: x\n"), 0o600))
	_, err = LoadRegistry(path)
	assert.Error(t, err)
}

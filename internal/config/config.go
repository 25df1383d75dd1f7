package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported strategy and backend names.
const (
	IDStrategySequential = "sequential"
	IDStrategyUUID       = "uuid"

	CounterBackendMemory = "memory"
	CounterBackendRedis  = "redis"

	RowStoreSheets   = "sheets"
	RowStorePostgres = "postgres"
	RowStoreMemory   = "memory"

	NotifyBackendBrevo = "brevo"
	NotifyBackendSMTP  = "smtp"
	NotifyBackendNone  = "none"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Logger       LoggerConfig
	Tickets      TicketsConfig
	Redis        RedisConfig
	RowStore     RowStoreConfig
	Sheets       SheetsConfig
	Postgres     PostgresConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// TicketsConfig selects the ticket type set and id strategy.
type TicketsConfig struct {
	TypesFile        string
	IDStrategy       string
	CounterBackend   string
	CounterKeyPrefix string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RowStoreConfig selects where ticket rows are appended.
type RowStoreConfig struct {
	Backend        string
	TimeoutSeconds int
}

// SheetsConfig holds Google Sheets service account values.
type SheetsConfig struct {
	SpreadsheetID       string
	ServiceAccountEmail string
	PrivateKey          string
	TokenURL            string
	Endpoint            string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// NotificationConfig holds customer email settings.
type NotificationConfig struct {
	Backend        string
	TimeoutSeconds int
	SenderName     string
	SenderEmail    string
	BrevoAPIKey    string
	BrevoAPIURL    string
	SMTP           SMTPConfig
}

// SMTPConfig holds SMTP submission values.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	TLS      string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "delivery-issue-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("PORT", getEnv("APP_PORT", "3000")),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Tickets: TicketsConfig{
			TypesFile:        os.Getenv("TICKET_TYPES_FILE"),
			IDStrategy:       strings.ToLower(getEnv("TICKET_ID_STRATEGY", IDStrategySequential)),
			CounterBackend:   strings.ToLower(getEnv("COUNTER_BACKEND", CounterBackendMemory)),
			CounterKeyPrefix: getEnv("COUNTER_KEY_PREFIX", "ticket-counter"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		RowStore: RowStoreConfig{
			Backend:        strings.ToLower(getEnv("ROW_STORE_BACKEND", RowStoreSheets)),
			TimeoutSeconds: getEnvAsInt("STORE_TIMEOUT_SECONDS", 15),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:       os.Getenv("SPREADSHEET_ID"),
			ServiceAccountEmail: os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
			PrivateKey:          strings.ReplaceAll(os.Getenv("GOOGLE_PRIVATE_KEY"), `\n`, "\n"),
			TokenURL:            getEnv("GOOGLE_TOKEN_URL", "https://oauth2.googleapis.com/token"),
			Endpoint:            os.Getenv("SHEETS_ENDPOINT"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Notification: NotificationConfig{
			Backend:        strings.ToLower(getEnv("NOTIFY_BACKEND", NotifyBackendBrevo)),
			TimeoutSeconds: getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 10),
			SenderName:     getEnv("NOTIFY_SENDER_NAME", "Soporte AMPM"),
			SenderEmail:    getEnv("NOTIFY_SENDER_EMAIL", getEnv("BREVO_SENDER_EMAIL", "noreply@example.com")),
			BrevoAPIKey:    os.Getenv("BREVO_API_KEY"),
			BrevoAPIURL:    getEnv("BREVO_API_URL", "https://api.brevo.com"),
			SMTP: SMTPConfig{
				Host:     os.Getenv("SMTP_HOST"),
				Port:     getEnvAsInt("SMTP_PORT", 587),
				Username: os.Getenv("SMTP_USERNAME"),
				Password: os.Getenv("SMTP_PASSWORD"),
				TLS:      strings.ToLower(getEnv("SMTP_TLS", "mandatory")),
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend selections and the credentials they need.
func (c *Config) Validate() error {
	var errs []error

	switch c.Tickets.IDStrategy {
	case IDStrategySequential, IDStrategyUUID:
	default:
		errs = append(errs, fmt.Errorf("unknown TICKET_ID_STRATEGY %q", c.Tickets.IDStrategy))
	}
	switch c.Tickets.CounterBackend {
	case CounterBackendMemory, CounterBackendRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown COUNTER_BACKEND %q", c.Tickets.CounterBackend))
	}

	switch c.RowStore.Backend {
	case RowStoreSheets:
		if c.Sheets.SpreadsheetID == "" {
			errs = append(errs, errors.New("SPREADSHEET_ID is required for the sheets row store"))
		}
		if c.Sheets.ServiceAccountEmail == "" || c.Sheets.PrivateKey == "" {
			errs = append(errs, errors.New("GOOGLE_SERVICE_ACCOUNT_EMAIL and GOOGLE_PRIVATE_KEY are required for the sheets row store"))
		}
	case RowStorePostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required for the postgres row store"))
		}
	case RowStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown ROW_STORE_BACKEND %q", c.RowStore.Backend))
	}

	switch c.Notification.Backend {
	case NotifyBackendBrevo:
		if c.Notification.BrevoAPIKey == "" {
			errs = append(errs, errors.New("BREVO_API_KEY is required for the brevo notifier"))
		}
	case NotifyBackendSMTP:
		if c.Notification.SMTP.Host == "" {
			errs = append(errs, errors.New("SMTP_HOST is required for the smtp notifier"))
		}
		switch c.Notification.SMTP.TLS {
		case "mandatory", "opportunistic", "none":
		default:
			errs = append(errs, fmt.Errorf("unknown SMTP_TLS %q", c.Notification.SMTP.TLS))
		}
	case NotifyBackendNone:
	default:
		errs = append(errs, fmt.Errorf("unknown NOTIFY_BACKEND %q", c.Notification.Backend))
	}

	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	return seconds(a.RequestTimeoutSeconds)
}

// Timeout bounds a single row append.
func (r RowStoreConfig) Timeout() time.Duration {
	return seconds(r.TimeoutSeconds)
}

// Timeout bounds a single notification attempt.
func (n NotificationConfig) Timeout() time.Duration {
	return seconds(n.TimeoutSeconds)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

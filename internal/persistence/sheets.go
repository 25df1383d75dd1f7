package persistence

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/spec-kit/delivery-issue-api/internal/config"
	"github.com/spec-kit/delivery-issue-api/pkg/util/httpclient"
)

// Sheets wraps a Google Sheets API client bound to one spreadsheet.
type Sheets struct {
	Service       *sheets.Service
	SpreadsheetID string
}

// NewSheets authenticates as the configured service account.
func NewSheets(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*Sheets, error) {
	ts, err := NewServiceAccountTokenSource(
		ctx,
		cfg.ServiceAccountEmail,
		cfg.PrivateKey,
		cfg.TokenURL,
		httpclient.New(10*time.Second),
		SpreadsheetsScope,
	)
	if err != nil {
		return nil, err
	}

	opts := []option.ClientOption{option.WithTokenSource(ts)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	logger.Info("sheets client ready",
		zap.String("spreadsheet_id", cfg.SpreadsheetID),
		zap.String("service_account", cfg.ServiceAccountEmail))
	return &Sheets{Service: svc, SpreadsheetID: cfg.SpreadsheetID}, nil
}

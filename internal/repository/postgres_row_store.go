package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/delivery-issue-api/internal/domain"
)

type postgresRowStore struct {
	pool   *pgxpool.Pool
	sheets map[string]struct{}
}

// NewPostgresRowStore stores rows in the ticket_rows table. Only the given
// sheet names are accepted, mirroring the tabs of a spreadsheet.
func NewPostgresRowStore(pool *pgxpool.Pool, sheets []string) RowStore {
	known := make(map[string]struct{}, len(sheets))
	for _, s := range sheets {
		known[s] = struct{}{}
	}
	return &postgresRowStore{pool: pool, sheets: known}
}

func (r *postgresRowStore) AppendRow(ctx context.Context, sheet string, record domain.TicketRecord) error {
	if _, ok := r.sheets[sheet]; !ok {
		return &SheetNotFoundError{Title: sheet}
	}
	if r.pool == nil {
		return errors.New("postgres pool not configured")
	}
	const query = `
        INSERT INTO ticket_rows (sheet, ticket_id, fields, created_at)
        VALUES ($1,$2,$3,$4)`
	if _, err := r.pool.Exec(ctx, query,
		sheet,
		record.TicketID,
		record.Fields(),
		record.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert ticket row: %w", err)
	}
	return nil
}

func (r *postgresRowStore) Ping(ctx context.Context) error {
	if r.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return r.pool.Ping(ctx)
}

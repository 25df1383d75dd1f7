package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spec-kit/delivery-issue-api/internal/domain"
)

// ErrSheetNotFound matches any SheetNotFoundError.
var ErrSheetNotFound = errors.New("sheet not found")

// SheetNotFoundError reports a category with no matching sheet in the store.
type SheetNotFoundError struct {
	Title string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet with title %q not found", e.Title)
}

func (e *SheetNotFoundError) Is(target error) bool {
	return target == ErrSheetNotFound
}

// RowStore appends ticket rows to the sheet named after their category.
type RowStore interface {
	AppendRow(ctx context.Context, sheet string, record domain.TicketRecord) error
	Ping(ctx context.Context) error
}

// MemoryRowStore keeps rows in process memory, one slice per sheet.
type MemoryRowStore struct {
	mu   sync.RWMutex
	rows map[string][]domain.TicketRecord
}

// NewMemoryRowStore creates a store with the given sheets and no rows.
func NewMemoryRowStore(sheets []string) *MemoryRowStore {
	rows := make(map[string][]domain.TicketRecord, len(sheets))
	for _, s := range sheets {
		rows[s] = nil
	}
	return &MemoryRowStore{rows: rows}
}

func (s *MemoryRowStore) AppendRow(ctx context.Context, sheet string, record domain.TicketRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.rows[sheet]
	if !ok {
		return &SheetNotFoundError{Title: sheet}
	}
	s.rows[sheet] = append(existing, record)
	return nil
}

func (s *MemoryRowStore) Ping(context.Context) error {
	return nil
}

// Rows returns a copy of the rows appended to sheet.
func (s *MemoryRowStore) Rows(sheet string) []domain.TicketRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.TicketRecord(nil), s.rows[sheet]...)
}

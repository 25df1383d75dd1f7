package repository

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/spec-kit/delivery-issue-api/internal/domain"
)

// sheetsRowStore appends rows to tabs of a Google spreadsheet.
type sheetsRowStore struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsRowStore builds a row store over one spreadsheet.
func NewSheetsRowStore(service *sheets.Service, spreadsheetID string) RowStore {
	return &sheetsRowStore{service: service, spreadsheetID: spreadsheetID}
}

func (s *sheetsRowStore) AppendRow(ctx context.Context, sheet string, record domain.TicketRecord) error {
	titles, err := s.sheetTitles(ctx)
	if err != nil {
		return err
	}
	if _, ok := titles[sheet]; !ok {
		return &SheetNotFoundError{Title: sheet}
	}

	headers, err := s.headerRow(ctx, sheet)
	if err != nil {
		return err
	}
	if len(headers) == 0 {
		headers = domain.Columns
	}

	cells := record.Values(headers)
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}

	_, err = s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, quoteSheet(sheet), &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row to %q: %w", sheet, err)
	}
	return nil
}

func (s *sheetsRowStore) Ping(ctx context.Context) error {
	_, err := s.sheetTitles(ctx)
	return err
}

func (s *sheetsRowStore) sheetTitles(ctx context.Context) (map[string]struct{}, error) {
	doc, err := s.service.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("load spreadsheet info: %w", err)
	}
	titles := make(map[string]struct{}, len(doc.Sheets))
	for _, sh := range doc.Sheets {
		if sh.Properties != nil {
			titles[sh.Properties.Title] = struct{}{}
		}
	}
	return titles, nil
}

func (s *sheetsRowStore) headerRow(ctx context.Context, sheet string) ([]string, error) {
	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, quoteSheet(sheet)+"!1:1").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read header row of %q: %w", sheet, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	headers := make([]string, 0, len(resp.Values[0]))
	for _, v := range resp.Values[0] {
		headers = append(headers, strings.TrimSpace(fmt.Sprint(v)))
	}
	return headers, nil
}

// quoteSheet renders a sheet title as an A1 range prefix.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

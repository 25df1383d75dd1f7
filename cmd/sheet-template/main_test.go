package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/delivery-issue-api/internal/domain"
)

func TestRunWritesOneTabPerCategory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, run([]string{"--out", out}))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	want := domain.DefaultRegistry().DisplayNames()
	assert.Equal(t, want, f.GetSheetList())

	for _, sheet := range want {
		rows, err := f.GetRows(sheet)
		require.NoError(t, err)
		require.Len(t, rows, 1, sheet)
		assert.Equal(t, domain.Columns, rows[0])
	}
}

func TestRunWithTypesFile(t *testing.T) {
	dir := t.TempDir()
	types := filepath.Join(dir, "types.yaml")
	require.NoError(t, os.WriteFile(types, []byte(`types:
  - key: dnr
    display_name: DNR
    abbreviation: DNR
  - key: devolucion
    display_name: Devolución
    abbreviation: DEV
`), 0o600))
	out := filepath.Join(dir, "custom.xlsx")

	require.NoError(t, run([]string{"--out", out, "--types-file", types}))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck
	assert.Equal(t, []string{"DNR", "Devolución"}, f.GetSheetList())
}

func TestWriteTemplateRequiresSheets(t *testing.T) {
	assert.Error(t, writeTemplate(filepath.Join(t.TempDir(), "x.xlsx"), nil))
}

// sheet-template writes an .xlsx workbook with one tab per ticket category
// and the canonical header row on each. Importing it into Google Sheets
// yields a spreadsheet the API can append to.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/delivery-issue-api/internal/config"
	"github.com/spec-kit/delivery-issue-api/internal/domain"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var outPath string
	var typesFile string

	flagSet := pflag.NewFlagSet("sheet-template", pflag.ContinueOnError)
	flagSet.StringVar(&outPath, "out", "delivery_issues_template.xlsx", "path of the workbook to write")
	flagSet.StringVar(&typesFile, "types-file", "", "YAML ticket types file (default: built-in types)")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	registry, err := config.LoadRegistry(typesFile)
	if err != nil {
		return err
	}
	if err := writeTemplate(outPath, registry.DisplayNames()); err != nil {
		return err
	}
	fmt.Printf("Excel file created at: %s\n", outPath)
	return nil
}

func writeTemplate(path string, sheets []string) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	header := make([]interface{}, len(domain.Columns))
	for i, col := range domain.Columns {
		header[i] = col
	}

	defaultSheet := f.GetSheetName(0)
	for i, name := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return fmt.Errorf("rename sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return fmt.Errorf("write header of %q: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

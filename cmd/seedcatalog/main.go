// Command seedcatalog materializes the built-in marker catalog as seed data:
// a batched SQL seed for the marker_catalog reference table and an XLSX
// reference workbook for reviewers and support staff.
// Usage: go run ./cmd/seedcatalog
// Output: db/seeds/marker_catalog.sql, docs/marker_catalog.xlsx
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"labmark/internal/domain"
	"labmark/internal/marker"
)

const (
	sheetName = "Catalog"
	sqlPath   = "db/seeds/marker_catalog.sql"
	xlsxPath  = "docs/marker_catalog.xlsx"
	batchSize = 500
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	entries := marker.Entries()

	if err := writeSeedSQL(entries); err != nil {
		return err
	}
	if err := writeWorkbook(entries); err != nil {
		return err
	}

	log.Printf("Seeded %d catalog entries into %s and %s", len(entries), sqlPath, xlsxPath)
	return nil
}

// writeSeedSQL emits the catalog as batched multi-row INSERTs. The seed is
// regenerated wholesale, so it truncates before inserting.
func writeSeedSQL(entries []domain.CatalogEntry) error {
	if err := os.MkdirAll(filepath.Dir(sqlPath), 0o755); err != nil {
		return fmt.Errorf("create seed dir: %w", err)
	}
	out, err := os.Create(sqlPath)
	if err != nil {
		return fmt.Errorf("create seed file: %w", err)
	}
	defer func() { _ = out.Close() }()

	w := func(s string) error { _, werr := fmt.Fprintln(out, s); return werr }

	for _, line := range []string{
		"-- Marker catalog seed data generated from the built-in catalog.",
		fmt.Sprintf("-- %d entries in batches of %d.", len(entries), batchSize),
		"-- Apply with: psql -f db/seeds/marker_catalog.sql",
		"BEGIN;",
		"TRUNCATE marker_catalog;",
		"",
	} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write header: %w", werr)
		}
	}

	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := writeBatch(out, entries[i:end]); err != nil {
			return fmt.Errorf("write batch at offset %d: %w", i, err)
		}
	}

	for _, line := range []string{"", "COMMIT;"} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write footer: %w", werr)
		}
	}
	return nil
}

func writeBatch(out *os.File, entries []domain.CatalogEntry) error {
	if _, err := fmt.Fprintln(out,
		"INSERT INTO marker_catalog (canonical, category, aliases, preferred_unit_eu, preferred_unit_us, important) VALUES"); err != nil {
		return err
	}
	for i, e := range entries {
		sep := ","
		if i == len(entries)-1 {
			sep = ";"
		}
		row := fmt.Sprintf("  (%s, %s, %s, %s, %s, %t)%s",
			sqlQuote(e.Canonical),
			sqlQuote(e.Category),
			sqlTextArray(e.Aliases),
			sqlQuote(e.PreferredUnit[domain.UnitSystemEU]),
			sqlQuote(e.PreferredUnit[domain.UnitSystemUS]),
			marker.IsImportant(e.Canonical),
			sep,
		)
		if _, err := fmt.Fprintln(out, row); err != nil {
			return err
		}
	}
	return nil
}

func sqlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sqlTextArray(values []string) string {
	if len(values) == 0 {
		return "'{}'::text[]"
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = sqlQuote(v)
	}
	return "ARRAY[" + strings.Join(quoted, ", ") + "]"
}

// writeWorkbook emits the human-readable companion workbook.
func writeWorkbook(entries []domain.CatalogEntry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	f.SetSheetName(f.GetSheetName(0), sheetName)

	header := []string{
		"Canonical Marker", "Category", "Aliases",
		"Preferred Unit (EU)", "Preferred Unit (US)",
		"Must Contain", "Must Not Contain", "Important",
	}
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, e := range entries {
		values := []any{
			e.Canonical,
			e.Category,
			strings.Join(e.Aliases, ", "),
			e.PreferredUnit[domain.UnitSystemEU],
			e.PreferredUnit[domain.UnitSystemUS],
			strings.Join(e.MustContain, ", "),
			strings.Join(e.MustNotContain, ", "),
			yesNo(marker.IsImportant(e.Canonical)),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("cell for row %d: %w", i, err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", i, err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(xlsxPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := f.SaveAs(xlsxPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "equitycli/internal/errors"
)

// Sheet is one table of an export. Stream, when set, produces the rows in
// place of Records so large tables are never held in memory.
type Sheet struct {
	Name    string
	Headers []string
	Records [][]string
	Stream  func(emit func(record []string) error) error
}

func (s Sheet) eachRecord(fn func(record []string) error) error {
	if s.Stream != nil {
		return s.Stream(fn)
	}
	for _, record := range s.Records {
		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}

// XLSXWriter writes workbooks with excelize
type XLSXWriter struct {
	baseDir string
}

// NewXLSXWriter creates a writer resolving relative paths against baseDir
func NewXLSXWriter(baseDir string) *XLSXWriter {
	return &XLSXWriter{baseDir: baseDir}
}

// WriteWorkbook writes each sheet in order, replacing any existing file.
// Cells that parse as numbers are stored as numbers.
func (w *XLSXWriter) WriteWorkbook(filePath string, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}
	fullPath := filePath
	if !filepath.IsAbs(filePath) && w.baseDir != "" {
		fullPath = filepath.Join(w.baseDir, filePath)
	}

	slog.Info("Writing workbook",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("sheet_count", len(sheets)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err).WithContext("path", fullPath)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet); err != nil {
			return err
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err).WithContext("path", fullPath)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	row := 1
	if len(sheet.Headers) > 0 {
		if err := setRow(f, sheet.Name, row, sheet.Headers, false); err != nil {
			return err
		}
		row++
	}
	return sheet.eachRecord(func(record []string) error {
		if err := setRow(f, sheet.Name, row, record, true); err != nil {
			return err
		}
		row++
		return nil
	})
}

func setRow(f *excelize.File, sheet string, row int, values []string, numeric bool) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", row, err)
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
		if numeric {
			if n, ok := parseNumber(v); ok {
				cells[i] = n
			}
		}
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d of %q: %w", row, sheet, err)
	}
	return nil
}

package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "equitycli/internal/errors"
)

// Table is one sheet of text cells under a header row
type Table struct {
	Source  string
	Sheet   string
	Headers []string
	Rows    [][]string
}

// ReadFile loads a table from an .xlsx/.xlsm workbook or a .csv file. The sheet
// name is ignored for CSV input; an empty sheet name selects the first sheet.
func ReadFile(path, sheet string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadWorkbook(path, sheet)
	case ".csv":
		return ReadCSV(path)
	default:
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("unsupported input format %q", filepath.Ext(path)), nil).
			WithContext("path", path)
	}
}

// ReadWorkbook loads one sheet of an Excel workbook
func ReadWorkbook(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil).WithContext("path", path)
		}
		sheet = sheets[0]
	}

	// stored values; display text rounds "0.00" cells and suffixes "%"
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err).
			WithContext("path", path)
	}

	t, err := newTable(path, sheet, rows)
	if err != nil {
		return nil, err
	}
	slog.Debug("Workbook loaded",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("columns", len(t.Headers)),
		slog.Int("rows", len(t.Rows)))
	return t, nil
}

// ReadCSV loads a comma separated file. A UTF-8 byte order mark is skipped.
func ReadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open csv file", err).WithContext("path", path)
	}
	defer file.Close()

	return readCSV(path, file)
}

func readCSV(source string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to parse csv", err).WithContext("path", source)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}

	t, err := newTable(source, "", rows)
	if err != nil {
		return nil, err
	}
	slog.Debug("CSV loaded",
		slog.String("path", source),
		slog.Int("columns", len(t.Headers)),
		slog.Int("rows", len(t.Rows)))
	return t, nil
}

// newTable takes the first non-empty row as header and drops empty data rows
func newTable(source, sheet string, rows [][]string) (*Table, error) {
	headerRow := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerRow = i
			break
		}
	}
	if headerRow == -1 {
		return nil, apperrors.NewParsingError("no header row found", nil).
			WithContext("path", source).
			WithContext("sheet", sheet)
	}

	headers := make([]string, len(rows[headerRow]))
	for i, h := range rows[headerRow] {
		headers[i] = strings.TrimSpace(h)
	}

	t := &Table{Source: source, Sheet: sheet, Headers: headers}
	for _, row := range rows[headerRow+1:] {
		if isBlankRow(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

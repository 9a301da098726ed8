package exporter

import (
	"fmt"
	"path/filepath"
	"strings"
)

// TableWriter writes one or more tables to a file whose extension picks the
// format: .csv gets one BOM-prefixed file per sheet, .xlsx one workbook.
type TableWriter struct {
	csv  *CSVWriter
	xlsx *XLSXWriter
}

// NewTableWriter creates a table writer rooted at baseDir
func NewTableWriter(baseDir string) *TableWriter {
	return &TableWriter{
		csv:  NewCSVWriter(baseDir),
		xlsx: NewXLSXWriter(baseDir),
	}
}

// Write writes sheets to filePath. For CSV output the first sheet goes to
// filePath and each further sheet to "<stem>_<sheet>.csv" beside it.
func (t *TableWriter) Write(filePath string, sheets ...Sheet) ([]string, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no tables to write")
	}
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".xlsx":
		if err := t.xlsx.WriteWorkbook(filePath, sheets...); err != nil {
			return nil, err
		}
		return []string{filePath}, nil
	case ".csv":
		written := make([]string, 0, len(sheets))
		stem := strings.TrimSuffix(filePath, filepath.Ext(filePath))
		for i, sheet := range sheets {
			path := filePath
			if i > 0 {
				path = fmt.Sprintf("%s_%s%s", stem, sanitize(sheet.Name), filepath.Ext(filePath))
			}
			if err := t.csv.WriteSheet(path, sheet); err != nil {
				return written, fmt.Errorf("failed to write %s: %w", path, err)
			}
			written = append(written, path)
		}
		return written, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", ext)
	}
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, strings.ToLower(name))
}

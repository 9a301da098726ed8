package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "equitycli/internal/errors"
)

// CSVWriter writes BOM-prefixed CSV tables so Excel detects UTF-8
type CSVWriter struct {
	baseDir string
}

// NewCSVWriter creates a writer resolving relative paths against baseDir.
// An empty baseDir leaves relative paths relative to the working directory.
func NewCSVWriter(baseDir string) *CSVWriter {
	return &CSVWriter{baseDir: baseDir}
}

// WriteSheet streams a sheet to a fresh file, header first
func (w *CSVWriter) WriteSheet(filePath string, sheet Sheet) error {
	stream, err := w.CreateStream(filePath, sheet.Headers)
	if err != nil {
		return err
	}
	if err := sheet.eachRecord(stream.WriteRecord); err != nil {
		stream.Close()
		return err
	}
	return stream.Close()
}

// WriteTable writes headers and records to a fresh file
func (w *CSVWriter) WriteTable(filePath string, headers []string, records [][]string) error {
	return w.WriteSheet(filePath, Sheet{Headers: headers, Records: records})
}

// RowStream writes CSV rows one at a time
type RowStream struct {
	path   string
	file   *os.File
	writer *csv.Writer
	rows   int
}

// CreateStream creates the file, writes the BOM and the header row
func (w *CSVWriter) CreateStream(filePath string, headers []string) (*RowStream, error) {
	fullPath := w.resolvePath(filePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create directory", err).WithContext("path", fullPath)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to create file", err).WithContext("path", fullPath)
	}

	if _, err := file.Write(utf8BOM); err != nil {
		file.Close()
		return nil, apperrors.NewStorageError("failed to write BOM", err).WithContext("path", fullPath)
	}

	s := &RowStream{path: fullPath, file: file, writer: csv.NewWriter(file)}
	if len(headers) > 0 {
		if err := s.writer.Write(headers); err != nil {
			file.Close()
			return nil, apperrors.NewStorageError("failed to write headers", err).WithContext("path", fullPath)
		}
	}
	return s, nil
}

// WriteRecord writes one data row
func (s *RowStream) WriteRecord(record []string) error {
	if err := s.writer.Write(record); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write record %d", s.rows), err).
			WithContext("path", s.path)
	}
	s.rows++
	return nil
}

// Rows returns the number of data rows written so far
func (s *RowStream) Rows() int {
	return s.rows
}

// Close flushes and closes the file
func (s *RowStream) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return apperrors.NewStorageError("failed to flush csv", err).WithContext("path", s.path)
	}
	if err := s.file.Close(); err != nil {
		return apperrors.NewStorageError("failed to close csv", err).WithContext("path", s.path)
	}
	slog.Info("CSV file written",
		slog.String("path", s.path),
		slog.Int("record_count", s.rows))
	return nil
}

func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.baseDir == "" {
		return filePath
	}
	return filepath.Join(w.baseDir, filePath)
}

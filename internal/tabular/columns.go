package tabular

import (
	"math"
	"strconv"
	"strings"

	apperrors "equitycli/internal/errors"
)

// Series is one row read as an identifier followed by numeric observations
type Series struct {
	ID     string
	Values []float64
}

// ParseCell converts a cell to a number. Thousands separators are accepted;
// blank and non-numeric cells yield NaN.
func ParseCell(cell string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ColumnIndex finds a header by exact name, then case-insensitively
func (t *Table) ColumnIndex(name string) (int, error) {
	name = strings.TrimSpace(name)
	for i, h := range t.Headers {
		if h == name {
			return i, nil
		}
	}
	for i, h := range t.Headers {
		if strings.EqualFold(h, name) {
			return i, nil
		}
	}
	return -1, apperrors.NewNotFoundError("column "+name).
		WithContext("path", t.Source).
		WithContext("available", t.Headers)
}

// cell returns the text at row r, column c, or "" when the row is short
func (t *Table) cell(r, c int) string {
	row := t.Rows[r]
	if c < len(row) {
		return strings.TrimSpace(row[c])
	}
	return ""
}

// FloatColumn returns a column as numbers, one per data row
func (t *Table) FloatColumn(name string) ([]float64, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(t.Rows))
	for r := range t.Rows {
		values[r] = ParseCell(t.cell(r, idx))
	}
	return values, nil
}

// Series reads each data row as an identified series. With no value columns
// every column other than the identifier is used, in header order.
func (t *Table) Series(idColumn string, valueColumns []string) ([]Series, error) {
	idIdx, err := t.ColumnIndex(idColumn)
	if err != nil {
		return nil, err
	}

	var cols []int
	if len(valueColumns) == 0 {
		for i := range t.Headers {
			if i != idIdx {
				cols = append(cols, i)
			}
		}
	} else {
		for _, name := range valueColumns {
			idx, err := t.ColumnIndex(name)
			if err != nil {
				return nil, err
			}
			cols = append(cols, idx)
		}
	}

	out := make([]Series, len(t.Rows))
	for r := range t.Rows {
		values := make([]float64, len(cols))
		for i, c := range cols {
			values[i] = ParseCell(t.cell(r, c))
		}
		out[r] = Series{ID: t.cell(r, idIdx), Values: values}
	}
	return out, nil
}

// NumericColumns lists, in header order, the columns holding at least one
// number, skipping the excluded names
func (t *Table) NumericColumns(exclude ...string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[strings.ToLower(strings.TrimSpace(name))] = true
	}

	var cols []string
	for c, h := range t.Headers {
		if h == "" || skip[strings.ToLower(h)] {
			continue
		}
		for r := range t.Rows {
			if !math.IsNaN(ParseCell(t.cell(r, c))) {
				cols = append(cols, h)
				break
			}
		}
	}
	return cols
}

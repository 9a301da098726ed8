package tabular

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "equitycli/internal/errors"
)

// writeWorkbook saves rows to a single-sheet workbook. Nil cells are left empty.
func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadWorkbook(t *testing.T) {
	path := writeWorkbook(t, "LFT", [][]interface{}{
		{"CNTRY_NAME", "2001", "2002", "2003"},
		{"Kenya", 1.5, 2.5, 3.5},
		{nil, nil, nil, nil},
		{"Chile", 4, nil, "n/a"},
	})

	table, err := ReadFile(path, "")
	require.NoError(t, err)

	assert.Equal(t, "LFT", table.Sheet)
	assert.Equal(t, []string{"CNTRY_NAME", "2001", "2002", "2003"}, table.Headers)
	require.Len(t, table.Rows, 2, "blank rows are dropped")

	series, err := table.Series("CNTRY_NAME", nil)
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, "Kenya", series[0].ID)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, series[0].Values)

	assert.Equal(t, "Chile", series[1].ID)
	require.Len(t, series[1].Values, 3)
	assert.Equal(t, 4.0, series[1].Values[0])
	assert.True(t, math.IsNaN(series[1].Values[1]), "blank cell")
	assert.True(t, math.IsNaN(series[1].Values[2]), "text cell")
}

func TestReadWorkbook_IgnoresNumberFormats(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	cells := map[string]interface{}{
		"A1": "GDP_per_capita", "B1": "GZX_change",
		"A2": 1234.5678, "B2": 0.123456,
		"A3": 2345.25, "B3": 0.25,
	}
	for cell, v := range cells {
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}
	twoDecimals, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	require.NoError(t, err)
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 10}) // 0.00%
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "A2", "B2", twoDecimals))
	require.NoError(t, f.SetCellStyle(sheet, "A3", "A3", twoDecimals))
	require.NoError(t, f.SetCellStyle(sheet, "B3", "B3", percent))

	path := filepath.Join(t.TempDir(), "formatted.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := ReadFile(path, "")
	require.NoError(t, err)

	gdp, err := table.FloatColumn("GDP_per_capita")
	require.NoError(t, err)
	assert.Equal(t, []float64{1234.5678, 2345.25}, gdp)

	rate, err := table.FloatColumn("GZX_change")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.123456, 0.25}, rate)
}

func TestReadWorkbook_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Data", [][]interface{}{{"a"}, {1}})

	table, err := ReadWorkbook(path, "Data")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, table.Headers)

	_, err = ReadWorkbook(path, "Missing")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.csv")
	content := "\ufeffname, GDP_per_capita ,HHE_change\nA,\"1,200\",0.5\n\n,,\nB,800,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := ReadFile(path, "ignored")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "GDP_per_capita", "HHE_change"}, table.Headers)
	require.Len(t, table.Rows, 2)

	gdp, err := table.FloatColumn("gdp_per_capita")
	require.NoError(t, err)
	assert.Equal(t, []float64{1200, 800}, gdp)

	hhe, err := table.FloatColumn("HHE_change")
	require.NoError(t, err)
	assert.Equal(t, 0.5, hhe[0])
	assert.True(t, math.IsNaN(hhe[1]))
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFile(filepath.Join(dir, "data.json"), "")
	assert.Error(t, err)

	_, err = ReadFile(filepath.Join(dir, "absent.csv"), "")
	assert.Error(t, err)

	_, err = ReadFile(filepath.Join(dir, "absent.xlsx"), "")
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("\n,,\n"), 0644))
	_, err = ReadFile(empty, "")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no header row"))
}

func TestTableColumns(t *testing.T) {
	table := &Table{
		Headers: []string{"CNTRY_NAME", "GDP", "HHE", "Notes", ""},
		Rows: [][]string{
			{"Kenya", "1000", "0.2", "x", "7"},
			{"Chile", "2000", "", "y"},
		},
	}

	_, err := table.ColumnIndex("missing")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeNotFound, appErr.Type)

	assert.Equal(t, []string{"GDP", "HHE"}, table.NumericColumns("cntry_name"))
	assert.Equal(t, []string{"HHE"}, table.NumericColumns("CNTRY_NAME", "GDP"))

	series, err := table.Series("CNTRY_NAME", []string{"HHE", "GDP"})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, series[1].Values[1])
	assert.True(t, math.IsNaN(series[1].Values[0]))

	_, err = table.Series("CNTRY_NAME", []string{"nope"})
	assert.Error(t, err)
}

func TestParseCell(t *testing.T) {
	assert.Equal(t, 1200.5, ParseCell(" 1,200.5 "))
	assert.Equal(t, -3.0, ParseCell("-3"))
	assert.Equal(t, 1e-3, ParseCell("1e-3"))
	assert.True(t, math.IsNaN(ParseCell("")))
	assert.True(t, math.IsNaN(ParseCell("abc")))
}

package main

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equitycli/internal/config"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows
}

func assertTrendRow(t *testing.T, row []string, id string, slope, tau float64, direction string) {
	t.Helper()
	require.Len(t, row, 7)
	assert.Equal(t, id, row[0])
	assert.InDelta(t, slope, parse(t, row[1]), 1e-12)
	assert.Equal(t, tau, parse(t, row[2]))
	assert.InDelta(t, 2.0/120, parse(t, row[3]), 1e-15)
	assert.Equal(t, "exact", row[4])
	assert.Equal(t, direction, row[5])
	assert.Equal(t, "ok", row[6])
}

func parse(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err)
	return v
}

func testConfig(t *testing.T, input, output string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Trend.Input = input
	cfg.Trend.Output = output
	cfg.Trend.Workers = 2
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestRun_CSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "series.csv")
	content := "CNTRY_NAME,1990,1995,2000,2005,2010\n" +
		"Up,1,2,3,4,5\n" +
		"Down,5,4,3,2,1\n" +
		"Flat,3,3,3,3,3\n" +
		"Gap,1,,3,4,5\n"
	require.NoError(t, os.WriteFile(input, []byte(content), 0644))

	output := filepath.Join(dir, "out", "trend.csv")
	metrics := filepath.Join(dir, "metrics.prom")
	cfg := testConfig(t, input, output)
	cfg.Telemetry.MetricsFile = metrics

	require.NoError(t, run(context.Background(), cfg, quietLogger()))

	rows := readCSV(t, output)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"CNTRY_NAME", "Theil-Sen Slope", "Kendall Tau", "P-Value", "P-Method", "Trend", "Status"}, rows[0])

	assertTrendRow(t, rows[1], "Up", 1, 1, "increasing")
	assertTrendRow(t, rows[2], "Down", -1, -1, "decreasing")
	assert.Equal(t, "Flat", rows[3][0])
	assert.Equal(t, "error: undefined_result", rows[3][6])
	assert.Equal(t, "Gap", rows[4][0])
	assert.Equal(t, "error: invalid_argument", rows[4][6])

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "analysis_entities_total")
}

func TestRun_SelectedColumnsToWorkbook(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "series.csv")
	content := "code,y1,y2,y3,note\n" +
		"A,2,4,6,x\n"
	require.NoError(t, os.WriteFile(input, []byte(content), 0644))

	cfg := testConfig(t, input, filepath.Join(dir, "trend.xlsx"))
	cfg.Trend.IDColumn = "code"
	cfg.Trend.ValueColumns = []string{"y1", "y2", "y3"}

	require.NoError(t, run(context.Background(), cfg, quietLogger()))
	assert.FileExists(t, filepath.Join(dir, "trend.xlsx"))
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "series.csv")
	require.NoError(t, os.WriteFile(input, []byte("CNTRY_NAME,a,b\nA,1,2\n"), 0644))

	t.Run("missing input setting", func(t *testing.T) {
		cfg := testConfig(t, "", filepath.Join(dir, "out.csv"))
		assert.Error(t, run(context.Background(), cfg, quietLogger()))
	})

	t.Run("missing output setting", func(t *testing.T) {
		cfg := testConfig(t, input, "")
		assert.Error(t, run(context.Background(), cfg, quietLogger()))
	})

	t.Run("unknown id column", func(t *testing.T) {
		cfg := testConfig(t, input, filepath.Join(dir, "out.csv"))
		cfg.Trend.IDColumn = "ISO3"
		err := run(context.Background(), cfg, quietLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ISO3")
	})

	t.Run("file does not exist", func(t *testing.T) {
		cfg := testConfig(t, filepath.Join(dir, "nope.csv"), filepath.Join(dir, "out.csv"))
		assert.Error(t, run(context.Background(), cfg, quietLogger()))
	})
}

func TestRun_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "series.csv")
	require.NoError(t, os.WriteFile(input, []byte("CNTRY_NAME,a,b,c\nA,1,2,3\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, testConfig(t, input, filepath.Join(dir, "out.csv")), quietLogger())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", "d"}, splitList(" a, b c ,,d "))
	assert.Nil(t, splitList(""))
}

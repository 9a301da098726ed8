// Package exporter writes analysis results as tables.
//
// This package contains three layers:
//
// CSVWriter: Row-streamed CSV files with a header and a UTF-8 BOM for Excel
// compatibility. Write failures are storage errors carrying the path.
//
// XLSXWriter: Multi-sheet workbooks built with excelize. Numeric cells are
// stored as numbers.
//
// TableWriter: Picks CSV or XLSX from the output extension. The trend and
// concentration builders (TrendSheet, SummarySheet, CurveSheet) turn engine
// results into Sheets, keeping input order. CurveSheet streams its rows
// instead of materialising every point. Failed entities get a failure marker in
// the status column.
//
// Example usage:
//
//	w := exporter.NewTableWriter(outputDir)
//	files, err := w.Write("trend.csv", exporter.TrendSheet("CNTRY_NAME", outcomes))
package exporter

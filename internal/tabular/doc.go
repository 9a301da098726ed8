// Package tabular loads rectangular data from Excel workbooks and CSV files.
//
// The first non-empty row of a sheet is the header. Cells are kept as text
// and converted on demand: FloatColumn and Series turn blank or non-numeric
// cells into NaN so a single bad cell fails only the entity it belongs to.
package tabular

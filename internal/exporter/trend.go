package exporter

import (
	apperrors "equitycli/internal/errors"
	"equitycli/internal/trend"
)

// TrendSheetName names the trend table in workbook output
const TrendSheetName = "Trend"

// TrendHeaders returns the trend table header with the given identifier column
func TrendHeaders(idColumn string) []string {
	return []string{idColumn, "Theil-Sen Slope", "Kendall Tau", "P-Value", "P-Method", "Trend", "Status"}
}

// TrendRecords converts outcomes to table rows in input order. Failed
// entities keep their identifier, blank statistics and the failure marker.
func TrendRecords(outcomes []trend.Outcome) [][]string {
	records := make([][]string, len(outcomes))
	for i, o := range outcomes {
		if o.Err != nil {
			records[i] = []string{o.ID, "", "", "", "", "", apperrors.FailureMarker(o.Err)}
			continue
		}
		r := o.Result
		records[i] = []string{
			o.ID,
			formatFloat(r.Slope),
			formatFloat(r.Tau),
			formatFloat(r.PValue),
			r.Method,
			string(r.Direction),
			apperrors.FailureMarker(nil),
		}
	}
	return records
}

// TrendSheet builds the trend table
func TrendSheet(idColumn string, outcomes []trend.Outcome) Sheet {
	return Sheet{
		Name:    TrendSheetName,
		Headers: TrendHeaders(idColumn),
		Records: TrendRecords(outcomes),
	}
}

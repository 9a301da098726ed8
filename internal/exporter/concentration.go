package exporter

import (
	apperrors "equitycli/internal/errors"
	"equitycli/internal/inequality"
)

// Sheet names of the concentration export
const (
	SummarySheetName = "Summary"
	CurveSheetName   = "Curve"
)

// Curve point kinds in the curve table
const (
	CurveKindRaw      = "raw"
	CurveKindSmoothed = "smoothed"
)

var (
	summaryHeaders = []string{"indicator", "n", "mean", "CI", "annotation", "status"}
	curveHeaders   = []string{"indicator", "kind", "x", "y"}
)

// SummarySheet has one row per indicator with its index and annotation
func SummarySheet(reports []inequality.Report) Sheet {
	records := make([][]string, len(reports))
	for i, r := range reports {
		mean, ci := "", ""
		if r.HasMean {
			mean = formatFloat(r.Mean)
		}
		if r.IndexErr == nil {
			ci = formatFloat(r.Index)
		}
		records[i] = []string{
			r.Indicator,
			formatInt(r.N),
			mean,
			ci,
			r.Annotation(),
			apperrors.FailureMarker(r.Err()),
		}
	}
	return Sheet{Name: SummarySheetName, Headers: summaryHeaders, Records: records}
}

// CurveSheet streams the raw and smoothed points of every successful curve,
// one row per point
func CurveSheet(reports []inequality.Report) Sheet {
	return Sheet{
		Name:    CurveSheetName,
		Headers: curveHeaders,
		Stream: func(emit func(record []string) error) error {
			for _, r := range reports {
				if r.CurveErr != nil || r.Curve == nil {
					continue
				}
				if err := emitPoints(emit, r.Indicator, CurveKindRaw, r.Curve.Raw); err != nil {
					return err
				}
				if err := emitPoints(emit, r.Indicator, CurveKindSmoothed, r.Curve.Smoothed); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func emitPoints(emit func([]string) error, indicator, kind string, points []inequality.CurvePoint) error {
	for _, p := range points {
		if err := emit([]string{indicator, kind, formatFloat(p.X), formatFloat(p.Y)}); err != nil {
			return err
		}
	}
	return nil
}

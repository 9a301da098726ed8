package exporter

import (
	"math"
	"strconv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// formatFloat writes the shortest representation that round-trips
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

// parseNumber reports whether a formatted cell holds a finite number
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

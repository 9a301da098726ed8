package trend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "equitycli/internal/errors"
)

func TestTheilSenSlope(t *testing.T) {
	tests := []struct {
		name     string
		series   []float64
		expected float64
	}{
		{"outlier resistant", []float64{1, 2, 3, 10}, 2.0},
		{"two points", []float64{1, 3}, 2.0},
		{"linear", []float64{0, 2, 4, 6, 8}, 2.0},
		{"constant", []float64{7, 7, 7}, 0.0},
		{"decreasing", []float64{9, 6, 3}, -3.0},
		{"odd slope count", []float64{1, 4, 2}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slope, err := TheilSenSlope(tt.series)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, slope, 1e-12)
		})
	}
}

func TestTheilSenSlope_DoesNotModifyInput(t *testing.T) {
	series := []float64{5, 1, 4, 2}
	_, err := TheilSenSlope(series)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 1, 4, 2}, series)
}

func TestTheilSenSlope_Failures(t *testing.T) {
	_, err := TheilSenSlope(nil)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientData)

	_, err = TheilSenSlope([]float64{1})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientData)

	_, err = TheilSenSlope([]float64{1, math.NaN(), 3})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

package trend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "equitycli/internal/errors"
)

func TestKendallTauB_Exact(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		tau    float64
		p      float64
	}{
		{"perfect increasing", []float64{1, 2, 3, 4, 5}, 1, 2.0 / 120},
		{"perfect decreasing", []float64{5, 4, 3, 2, 1}, -1, 2.0 / 120},
		{"outlier", []float64{1, 2, 3, 10}, 1, 2.0 / 24},
		{"one discordant pair", []float64{1, 3, 2, 4, 5}, 0.8, 2.0 / 24},
		{"two discordant pairs", []float64{2, 1, 4, 3, 5}, 0.6, 28.0 / 120},
		{"two points", []float64{1, 2}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corr, err := KendallTauB{}.Correlate(TimeIndex(len(tt.series)), tt.series)
			require.NoError(t, err)
			assert.Equal(t, MethodExact, corr.Method)
			assert.InDelta(t, tt.tau, corr.Tau, 1e-12)
			assert.InDelta(t, tt.p, corr.PValue, 1e-12)
		})
	}
}

func TestKendallTauB_PerfectTrendIsExactlyOne(t *testing.T) {
	for n := 2; n <= 60; n++ {
		x := TimeIndex(n)
		down := make([]float64, n)
		for i := range down {
			down[i] = float64(n - i)
		}

		up, err := KendallTauB{}.Correlate(x, x)
		require.NoError(t, err)
		assert.Equal(t, 1.0, up.Tau, "n=%d", n)

		rev, err := KendallTauB{}.Correlate(x, down)
		require.NoError(t, err)
		assert.Equal(t, -1.0, rev.Tau, "n=%d", n)
	}
}

func TestKendallTauB_TiesUseAsymptotic(t *testing.T) {
	corr, err := KendallTauB{}.Correlate([]float64{1, 2, 3, 4}, []float64{1, 2, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, MethodAsymptotic, corr.Method)
	assert.InDelta(t, 0.9128709291752769, corr.Tau, 1e-12)
	assert.InDelta(t, 0.07095149242730567, corr.PValue, 1e-9)
}

func TestKendallTauB_LargeSample(t *testing.T) {
	x := TimeIndex(40)

	increasing := append([]float64(nil), x...)
	corr, err := KendallTauB{}.Correlate(x, increasing)
	require.NoError(t, err)
	assert.Equal(t, MethodExact, corr.Method, "c = 0 keeps the exact method beyond 33 observations")
	assert.InDelta(t, 1.0, corr.Tau, 1e-12)
	assert.Less(t, corr.PValue, 1e-40)

	swapped := append([]float64(nil), x...)
	swapped[0], swapped[1] = swapped[1], swapped[0]
	swapped[2], swapped[3] = swapped[3], swapped[2]
	corr, err = KendallTauB{}.Correlate(x, swapped)
	require.NoError(t, err)
	assert.Equal(t, MethodAsymptotic, corr.Method)
	assert.Greater(t, corr.Tau, 0.99)
	assert.Less(t, corr.PValue, 1e-10)
}

func TestKendallTauB_Failures(t *testing.T) {
	kt := KendallTauB{}

	_, err := kt.Correlate([]float64{1, 2, 3}, []float64{1, 2})
	assert.ErrorIs(t, err, apperrors.ErrDimensionMismatch)

	_, err = kt.Correlate([]float64{1}, []float64{1})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientData)

	_, err = kt.Correlate([]float64{1, 2, 3}, []float64{4, 4, 4})
	assert.ErrorIs(t, err, apperrors.ErrUndefinedResult)

	_, err = kt.Correlate([]float64{1, 2, 3}, []float64{4, math.Inf(-1), 4})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestExactPValue(t *testing.T) {
	// Inversion counts of 4 and 6 elements: 1,3,5,6,... and 1,5,14,29,49,71,...
	assert.InDelta(t, 18.0/24, exactPValue(4, 2), 1e-12)
	assert.InDelta(t, 1.0, exactPValue(4, 3), 1e-12)
	assert.InDelta(t, 338.0/720, exactPValue(6, 5), 1e-12)
	assert.InDelta(t, 1.0, exactPValue(2, 0), 1e-12)

	p := exactPValue(200, 3)
	assert.GreaterOrEqual(t, p, 0.0)
	assert.InDelta(t, 0.0, p, 1e-12)
	assert.Equal(t, 0.0, exactPValue(171, 0))
}

func TestTieStats(t *testing.T) {
	ts := tiesOf([]float64{3, 1, 3, 2, 3, 1})
	// groups: {1,1} t=2, {3,3,3} t=3
	assert.Equal(t, 1.0+3.0, ts.pairs)
	assert.Equal(t, 0.0+6.0, ts.v0)
	assert.Equal(t, 2.0*9+6.0*11, ts.v1)

	none := tiesOf([]float64{1, 2, 3})
	assert.Zero(t, none.pairs)
}

package inequality

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "equitycli/internal/errors"
)

func TestOrder(t *testing.T) {
	tests := []struct {
		name     string
		health   []float64
		ranking  []float64
		expected []float64
	}{
		{
			name:     "already sorted",
			health:   []float64{1, 2, 3, 4},
			ranking:  []float64{1, 2, 3, 4},
			expected: []float64{1, 2, 3, 4},
		},
		{
			name:     "reverse ranking",
			health:   []float64{1, 2, 3, 4},
			ranking:  []float64{40, 30, 20, 10},
			expected: []float64{4, 3, 2, 1},
		},
		{
			name:     "ties keep input order",
			health:   []float64{4, 1, 3, 2},
			ranking:  []float64{1, 1, 2, 2},
			expected: []float64{4, 1, 3, 2},
		},
		{
			name:     "ties interleaved with distinct values",
			health:   []float64{10, 20, 30, 40, 50},
			ranking:  []float64{5, 1, 5, 1, 3},
			expected: []float64{20, 40, 50, 10, 30},
		},
		{
			name:     "empty",
			health:   []float64{},
			ranking:  []float64{},
			expected: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			health := append(tt.health[:0:0], tt.health...)
			ranking := append(tt.ranking[:0:0], tt.ranking...)

			sorted, err := Order(health, ranking)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sorted)

			assert.Equal(t, tt.health, health, "input must not be modified")
			assert.Equal(t, tt.ranking, ranking, "input must not be modified")
		})
	}
}

func TestOrder_DimensionMismatch(t *testing.T) {
	cases := [][2][]float64{
		{{1, 2, 3}, {1, 2}},
		{{1}, {}},
		{{}, {1}},
		{{1, 2}, {1, 2, 3, 4}},
	}
	for _, c := range cases {
		_, err := Order(c[0], c[1])
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrDimensionMismatch), "health=%v ranking=%v", c[0], c[1])

		_, err = Compute(c[0], c[1])
		assert.ErrorIs(t, err, apperrors.ErrDimensionMismatch)
	}
}

func TestOrder_RejectsNonFiniteRanking(t *testing.T) {
	_, err := Order([]float64{1, 2}, []float64{1, math.NaN()})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestConcentrationIndex_WorkedExample(t *testing.T) {
	ci, err := Compute([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, ci, 1e-12)
}

func TestConcentrationIndex_EqualityGivesZero(t *testing.T) {
	ci, err := Compute([]float64{5, 5, 5, 5}, []float64{10, 20, 5, 30})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, ci, 1e-12)
}

func TestConcentrationIndex_KnownValue(t *testing.T) {
	ci, err := Compute(
		[]float64{3.2, 1.5, 4.8, 2.2, 5.1, 0.7},
		[]float64{10, 40, 20, 50, 30, 60},
	)
	require.NoError(t, err)
	assert.InDelta(t, -0.2276190476190476, ci, 1e-12)
}

func TestConcentrationIndex_PermutationInvariance(t *testing.T) {
	health := []float64{3.2, 1.5, 4.8, 2.2, 5.1, 0.7, 9.4}
	ranking := []float64{10, 40, 20, 50, 30, 60, 15}

	base, err := Compute(health, ranking)
	require.NoError(t, err)

	perms := [][]int{
		{6, 5, 4, 3, 2, 1, 0},
		{3, 0, 6, 1, 4, 2, 5},
		{1, 2, 3, 4, 5, 6, 0},
	}
	for _, p := range perms {
		h := make([]float64, len(p))
		r := make([]float64, len(p))
		for i, j := range p {
			h[i], r[i] = health[j], ranking[j]
		}
		ci, err := Compute(h, r)
		require.NoError(t, err)
		assert.InDelta(t, base, ci, 1e-9, "permutation %v", p)
	}
}

func TestConcentrationIndex_TiesResolvedByInputOrder(t *testing.T) {
	// Same multiset of pairs, tied ranking values listed in a different order
	ci1, err := Compute([]float64{4, 1, 3, 2}, []float64{1, 1, 2, 2})
	require.NoError(t, err)
	ci2, err := Compute([]float64{1, 4, 2, 3}, []float64{1, 1, 2, 2})
	require.NoError(t, err)

	assert.InDelta(t, -0.1, ci1, 1e-12)
	assert.InDelta(t, 0.1, ci2, 1e-12)
}

func TestConcentrationIndex_Failures(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		want   error
	}{
		{"empty", []float64{}, apperrors.ErrEmptyInput},
		{"nil", nil, apperrors.ErrEmptyInput},
		{"all zero", []float64{0, 0, 0}, apperrors.ErrUndefinedResult},
		{"zero mean mixed sign", []float64{-2, 1, 1}, apperrors.ErrUndefinedResult},
		{"nan", []float64{1, math.NaN(), 2}, apperrors.ErrInvalidArgument},
		{"inf", []float64{1, math.Inf(1)}, apperrors.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ci, err := ConcentrationIndex(tt.sorted)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, math.IsNaN(ci))
		})
	}
}

func TestConcentrationIndex_ZeroHealthAnyRanking(t *testing.T) {
	for _, ranking := range [][]float64{{1, 2, 3}, {3, 2, 1}, {7, 7, 7}} {
		_, err := Compute([]float64{0, 0, 0}, ranking)
		assert.ErrorIs(t, err, apperrors.ErrUndefinedResult)
	}
}

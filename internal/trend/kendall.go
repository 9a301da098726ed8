package trend

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	apperrors "equitycli/internal/errors"
)

// P-value methods reported in Correlation.Method
const (
	MethodExact      = "exact"
	MethodAsymptotic = "asymptotic"
)

// exactMaxN is the largest untied sample for which the exact null distribution
// is always used
const exactMaxN = 33

// Correlation is a rank correlation coefficient with its two-sided p-value
type Correlation struct {
	Tau    float64 `json:"tau"`
	PValue float64 `json:"p_value"`
	Method string  `json:"method"`
}

// RankCorrelation tests two paired sequences for monotonic association
type RankCorrelation interface {
	Correlate(x, y []float64) (Correlation, error)
}

// KendallTauB is Kendall's tau-b with tie correction on both sequences
type KendallTauB struct{}

// tieStats summarises the tie groups of one sequence. For each group of t
// equal values: pairs += t(t−1)/2, v0 += t(t−1)(t−2), v1 += t(t−1)(2t+5).
type tieStats struct {
	pairs float64
	v0    float64
	v1    float64
}

func tiesOf(values []float64) tieStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var ts tieStats
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if t := float64(j - i); t > 1 {
			ts.pairs += t * (t - 1) / 2
			ts.v0 += t * (t - 1) * (t - 2)
			ts.v1 += t * (t - 1) * (2*t + 5)
		}
		i = j
	}
	return ts
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Correlate computes tau-b and its p-value. Pairs tied in either sequence
// count as neither concordant nor discordant.
func (KendallTauB) Correlate(x, y []float64) (Correlation, error) {
	if len(x) != len(y) {
		return Correlation{}, apperrors.NewDimensionMismatchError(opKendall, len(x), len(y))
	}
	n := len(x)
	if n < 2 {
		return Correlation{}, apperrors.NewInsufficientDataError(opKendall, n, 2)
	}
	if err := checkFinite(opKendall, "x", x); err != nil {
		return Correlation{}, err
	}
	if err := checkFinite(opKendall, "y", y); err != nil {
		return Correlation{}, err
	}

	var con, dis int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			switch sign(x[j]-x[i]) * sign(y[j]-y[i]) {
			case 1:
				con++
			case -1:
				dis++
			}
		}
	}

	tot := float64(n) * float64(n-1) / 2
	xt, yt := tiesOf(x), tiesOf(y)
	if xt.pairs == tot || yt.pairs == tot {
		return Correlation{}, apperrors.NewUndefinedResultError(opKendall, "untied pair count of one sequence")
	}

	conMinusDis := float64(con - dis)
	tau := conMinusDis / math.Sqrt((tot-xt.pairs)*(tot-yt.pairs))
	tau = math.Max(-1, math.Min(1, tau))

	c := dis
	if alt := int(tot) - dis; alt < c {
		c = alt
	}

	var result Correlation
	if xt.pairs == 0 && yt.pairs == 0 && (n <= exactMaxN || c <= 1) {
		result = Correlation{Tau: tau, PValue: exactPValue(n, c), Method: MethodExact}
	} else {
		result = Correlation{Tau: tau, PValue: asymptoticPValue(n, conMinusDis, xt, yt), Method: MethodAsymptotic}
	}

	if math.IsNaN(result.PValue) {
		return Correlation{}, apperrors.NewUndefinedResultError(opKendall, "variance of the statistic")
	}
	return result, nil
}

// exactPValue returns the two-sided probability of at most c discordant pairs
// among n untied observations, 2·Σ_{k≤c} T(n,k)/n!, where T(n,k) counts the
// permutations of n elements with k inversions.
func exactPValue(n, c int) float64 {
	switch {
	case n <= 2:
		return 1
	case c == 0:
		if n >= 171 {
			return 0
		}
		return 2 / factorial(n)
	case c == 1:
		if n >= 172 {
			return 0
		}
		return 2 / factorial(n-1)
	case 4*c == n*(n-1):
		return 1
	}

	// counts[k] for k <= c, built up one element at a time: T(j,k) is the sum
	// of T(j−1,k−i) for i = 0..j−1.
	counts := make([]float64, c+1)
	counts[0], counts[1] = 1, 1
	cum := make([]float64, c+1)
	scaled := n >= 171
	for j := 3; j <= n; j++ {
		floats.CumSum(cum, counts)
		if scaled {
			floats.Scale(1/float64(j), cum)
		}
		for k := range counts {
			counts[k] = cum[k]
			if k >= j {
				counts[k] -= cum[k-j]
			}
		}
	}

	var p float64
	if scaled {
		p = floats.Sum(counts)
	} else {
		p = 2 * floats.Sum(counts) / factorial(n)
	}
	return math.Max(0, math.Min(1, p))
}

func asymptoticPValue(n int, conMinusDis float64, xt, yt tieStats) float64 {
	fn := float64(n)
	m := fn * (fn - 1)
	variance := (m*(2*fn+5)-xt.v1-yt.v1)/18 + 2*xt.pairs*yt.pairs/m
	if xt.v0*yt.v0 != 0 {
		variance += xt.v0 * yt.v0 / (9 * m * (fn - 2))
	}
	if !(variance > 0) {
		return math.NaN()
	}
	z := conMinusDis / math.Sqrt(variance)
	return 2 * distuv.UnitNormal.Survival(math.Abs(z))
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

// Package trend estimates monotonic trends in equally spaced series.
//
// Each series is summarised by its Theil-Sen slope (the median of all pairwise
// slopes) and by Kendall's tau-b against the time index 1..n, with a two-sided
// p-value. The p-value uses the exact null distribution for small untied
// samples and the tie-corrected normal approximation otherwise.
//
// The rank correlation is behind the RankCorrelation interface so the
// analyzer can be driven by any numerically equivalent implementation.
//
//	a := trend.NewAnalyzer(0.05, logger)
//	result, err := a.Analyze(ctx, series)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Slope, result.Tau, result.PValue, result.Direction)
package trend

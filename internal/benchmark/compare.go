// internal/benchmark/compare.go
package benchmark

// Winner returns the summary with the highest average throughput among models
// that succeeded at least once. Ties go to the earlier summary. It returns nil
// when the input is empty or no model has a nonzero success rate.
func Winner(summaries []ModelSummary) *ModelSummary {
	var winner *ModelSummary
	for i := range summaries {
		s := &summaries[i]
		if s.SuccessRate <= 0 {
			continue
		}
		if winner == nil || s.AvgTokensPerSecond > winner.AvgTokensPerSecond {
			winner = s
		}
	}
	return winner
}

// PerformanceDifference expresses how the winner compares against another
// summary. speedPct is the winner's throughput advantage relative to other;
// ttftPct is positive when the winner reaches its first token sooner. Either
// value may be negative, and both fall back to 0.0 when the corresponding
// denominator is zero.
func PerformanceDifference(winner, other ModelSummary) (speedPct, ttftPct float64) {
	if other.AvgTokensPerSecond > 0 {
		speedPct = (winner.AvgTokensPerSecond - other.AvgTokensPerSecond) / other.AvgTokensPerSecond * 100.0
	}
	if other.AvgTTFTMs > 0 {
		ttftPct = (other.AvgTTFTMs - winner.AvgTTFTMs) / other.AvgTTFTMs * 100.0
	}
	return speedPct, ttftPct
}

// internal/benchmark/aggregator.go
package benchmark

// Summarize reduces the samples collected for a single model into a
// ModelSummary. It is a pure function and is total over any input, including
// an empty slice. Failed samples count toward TotalTests and lower the
// success rate, but are excluded from every throughput and TTFT statistic.
func Summarize(model string, samples []Sample) ModelSummary {
	summary := ModelSummary{
		Model:      model,
		TotalTests: len(samples),
	}

	var successes int
	var sumSpeed, minSpeed, maxSpeed float64
	var sumTTFT float64

	for _, s := range samples {
		if !s.Success {
			continue
		}
		if successes == 0 {
			minSpeed = s.TokensPerSecond
			maxSpeed = s.TokensPerSecond
		} else {
			if s.TokensPerSecond < minSpeed {
				minSpeed = s.TokensPerSecond
			}
			if s.TokensPerSecond > maxSpeed {
				maxSpeed = s.TokensPerSecond
			}
		}
		successes++
		sumSpeed += s.TokensPerSecond
		sumTTFT += float64(s.TimeToFirstTokenMs)
	}

	if len(samples) > 0 {
		summary.SuccessRate = float64(successes) / float64(len(samples))
	}

	// With zero successes every statistic stays 0.0; min/max must never leak
	// an empty-fold sentinel.
	if successes > 0 {
		summary.AvgTokensPerSecond = sumSpeed / float64(successes)
		summary.MinTokensPerSecond = minSpeed
		summary.MaxTokensPerSecond = maxSpeed
		summary.AvgTTFTMs = sumTTFT / float64(successes)
	}

	return summary
}

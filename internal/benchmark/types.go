// internal/benchmark/types.go
// Package benchmark contains the core benchmark engine: sample and summary
// types, the per-model aggregation, the sequential scheduler, and the
// cross-model comparison.
package benchmark

import "time"

// Sample records the outcome of a single generation request against one model.
// A failed request still produces a Sample; only Error and TotalDurationMs are
// meaningful in that case, and the metric fields stay zero.
type Sample struct {
	Model              string    `json:"model" yaml:"model"`
	Prompt             string    `json:"prompt" yaml:"prompt"`
	Timestamp          time.Time `json:"timestamp" yaml:"timestamp"`
	Success            bool      `json:"success" yaml:"success"`
	TokensPerSecond    float64   `json:"tokens_per_second" yaml:"tokens_per_second"`
	TimeToFirstTokenMs int64     `json:"time_to_first_token_ms" yaml:"time_to_first_token_ms"`
	TotalDurationMs    int64     `json:"total_duration_ms" yaml:"total_duration_ms"`
	PromptTokens       int       `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens   int       `json:"completion_tokens" yaml:"completion_tokens"`
	Error              string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// ModelSummary aggregates all Samples collected for one model in one run.
// Throughput and TTFT statistics cover successful samples only; when a model
// never succeeded they are all 0.0 rather than NaN or an infinity sentinel.
type ModelSummary struct {
	Model              string  `json:"model" yaml:"model"`
	TotalTests         int     `json:"total_tests" yaml:"total_tests"`
	SuccessRate        float64 `json:"success_rate" yaml:"success_rate"`
	AvgTokensPerSecond float64 `json:"avg_tokens_per_second" yaml:"avg_tokens_per_second"`
	MinTokensPerSecond float64 `json:"min_tokens_per_second" yaml:"min_tokens_per_second"`
	MaxTokensPerSecond float64 `json:"max_tokens_per_second" yaml:"max_tokens_per_second"`
	AvgTTFTMs          float64 `json:"avg_ttft_ms" yaml:"avg_ttft_ms"`
}

// Report is the complete output of one benchmark run: the per-model summaries
// in the order the models were requested, plus the total wall-clock duration.
// It is the only contract between the engine and the output formatters.
type Report struct {
	Summaries []ModelSummary
	Duration  time.Duration
}

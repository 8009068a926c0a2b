// internal/benchmark/scheduler.go
package benchmark

import (
	"context"
	"fmt"
	"time"

	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/mwiater/ollamabench/internal/logging"
	"github.com/mwiater/ollamabench/internal/progress"
)

// Client is the capability the scheduler needs from the model server. The
// concrete implementation lives in internal/ollama; tests use fakes.
//
// Generate returns an error only for run-aborting conditions (the model
// vanished mid-run, or the context was cancelled). Every recoverable problem
// with a single request (timeout, connection reset, malformed body, non-2xx
// status) comes back as a failed Sample instead.
type Client interface {
	HealthCheck(ctx context.Context) error
	ModelExists(ctx context.Context, model string) (bool, error)
	Generate(ctx context.Context, model, prompt string) (Sample, error)
}

// Runner drives a full benchmark run: connectivity check, model validation,
// then a strictly sequential per-model, per-iteration request loop. Models
// are never benchmarked concurrently; the point is to measure each model
// under low, controlled load.
type Runner struct {
	client   Client
	cfg      appconfig.Config
	progress progress.Reporter
}

// NewRunner wires a scheduler from its collaborators.
func NewRunner(client Client, cfg appconfig.Config, reporter progress.Reporter) *Runner {
	if reporter == nil {
		reporter = progress.Quiet{}
	}
	return &Runner{client: client, cfg: cfg, progress: reporter}
}

// Run benchmarks the given models in order and returns one summary per model,
// in the same order. The run aborts before any generation request when the
// server is unreachable or any requested model is unknown. A cancelled
// context aborts at the next suspension point and returns no summaries, so a
// model whose iteration loop did not complete contributes nothing.
func (r *Runner) Run(ctx context.Context, models []string) ([]ModelSummary, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("at least one model is required")
	}

	if err := r.client.HealthCheck(ctx); err != nil {
		return nil, err
	}

	r.progress.Info("Validating models...")
	for _, model := range models {
		ok, err := r.client.ModelExists(ctx, model)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &ModelNotFoundError{Model: model}
		}
	}

	r.progress.RunStart(len(models), r.cfg.Iterations)
	logging.LogEvent("[RUN] benchmarking %d model(s), %d iteration(s) each", len(models), r.cfg.Iterations)

	summaries := make([]ModelSummary, 0, len(models))
	for idx, model := range models {
		samples, err := r.runModel(ctx, model, idx+1, len(models))
		if err != nil {
			return nil, err
		}

		// Summarize as soon as the model finishes rather than at the end of
		// the run, so a later abort cannot disturb completed results.
		summaries = append(summaries, Summarize(model, samples))

		if idx < len(models)-1 {
			if err := sleepContext(ctx, r.cfg.ModelDelay()); err != nil {
				return nil, err
			}
		}
	}

	return summaries, nil
}

// runModel executes the iteration loop for a single model and returns the
// ordered samples, one per iteration.
func (r *Runner) runModel(ctx context.Context, model string, index, total int) ([]Sample, error) {
	r.progress.ModelStart(model, index, total)

	samples := make([]Sample, 0, r.cfg.Iterations)
	for i := 1; i <= r.cfg.Iterations; i++ {
		r.progress.IterationProgress(model, i, r.cfg.Iterations)

		sample, err := r.client.Generate(ctx, model, r.cfg.Prompt)
		if err != nil {
			return nil, err
		}
		if !sample.Success {
			logging.LogEvent("[RUN] iteration %d/%d failed for model %s: %s", i, r.cfg.Iterations, model, sample.Error)
		}
		samples = append(samples, sample)

		// Politeness throttle between iterations, not before the first and
		// not after the last.
		if i < r.cfg.Iterations {
			if err := sleepContext(ctx, r.cfg.IterationDelay()); err != nil {
				return nil, err
			}
		}
	}

	r.progress.ModelComplete(model)
	return samples, nil
}

// sleepContext pauses for d but wakes immediately when the context is
// cancelled. A non-positive delay still observes cancellation.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

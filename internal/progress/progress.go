// internal/progress/progress.go
// Package progress defines the notification sink the scheduler reports to.
// Reporters are fire-and-forget: they never block and never fail the run.
package progress

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// Reporter receives run lifecycle notifications from the scheduler.
type Reporter interface {
	RunStart(models, iterations int)
	ModelStart(model string, index, total int)
	IterationProgress(model string, current, total int)
	ModelComplete(model string)
	Info(message string)
	Error(message string)
}

// Terminal renders per-model progress bars and colored status lines on
// stdout.
type Terminal struct {
	verbose    bool
	iterations int
	bar        *progressbar.ProgressBar
}

// NewTerminal returns a Reporter for interactive terminal sessions.
func NewTerminal(verbose bool) *Terminal {
	return &Terminal{verbose: verbose}
}

// RunStart announces the overall shape of the run.
func (t *Terminal) RunStart(models, iterations int) {
	t.iterations = iterations
	fmt.Printf("\n⚡ Benchmarking %d model%s with %d iteration%s each\n",
		models, plural(models), iterations, plural(iterations))
}

// ModelStart prints the model header and opens a fresh progress bar.
func (t *Terminal) ModelStart(model string, index, total int) {
	fmt.Printf("\nTesting %s (%d/%d)...\n", model, index, total)
	t.bar = progressbar.NewOptions(t.iterations,
		progressbar.OptionSetDescription(model),
		progressbar.OptionSetWidth(32),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}

// IterationProgress advances the current model's bar.
func (t *Terminal) IterationProgress(model string, current, total int) {
	if t.bar == nil {
		return
	}
	if t.bar.GetMax() != total {
		t.bar.ChangeMax(total)
	}
	_ = t.bar.Set(current)
}

// ModelComplete closes the bar and prints a completion marker.
func (t *Terminal) ModelComplete(model string) {
	if t.bar != nil {
		_ = t.bar.Finish()
		t.bar = nil
	}
	fmt.Printf("Testing %s... %s\n", model, color.GreenString("✓ Complete"))
}

// Info prints an informational line.
func (t *Terminal) Info(message string) {
	fmt.Println(message)
}

// Error prints an error line to stderr.
func (t *Terminal) Error(message string) {
	fmt.Fprintln(os.Stderr, color.RedString(message))
}

// Quiet suppresses everything except errors. It is the no-op default used
// for scripted runs and tests.
type Quiet struct{}

func (Quiet) RunStart(models, iterations int)                    {}
func (Quiet) ModelStart(model string, index, total int)          {}
func (Quiet) IterationProgress(model string, current, total int) {}
func (Quiet) ModelComplete(model string)                         {}
func (Quiet) Info(message string)                                {}

// Error still reaches stderr in quiet mode.
func (Quiet) Error(message string) {
	fmt.Fprintln(os.Stderr, message)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

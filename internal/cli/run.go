// internal/cli/run.go
package ollamabench

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/mwiater/ollamabench/internal/benchmark"
	"github.com/mwiater/ollamabench/internal/ollama"
	"github.com/mwiater/ollamabench/internal/output"
	"github.com/mwiater/ollamabench/internal/progress"
)

var runCmd = &cobra.Command{
	Use:   "run MODEL [MODEL...]",
	Short: "Benchmark one or more models and compare the results",
	Example: `  # Benchmark a single model
  ollamabench run llama3.2:1b

  # Compare multiple models
  ollamabench run llama3.2:1b mistral:7b phi3:mini

  # Custom iterations, JSON output
  ollamabench run -n 10 -o json llama3.2:1b mistral:7b

  # Custom prompt, export to CSV
  ollamabench run --prompt "Explain quantum computing" -e results.csv llama3.2:1b`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBenchmark,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("iterations", "n", appconfig.DefaultIterations, "number of test iterations per model")
	runCmd.Flags().StringP("prompt", "p", appconfig.DefaultPrompt, "prompt used for every generation request")
	runCmd.Flags().IntP("max-tokens", "m", appconfig.DefaultMaxTokens, "maximum tokens to generate per request")
	runCmd.Flags().Float64P("temperature", "t", appconfig.DefaultTemperature, "sampling temperature for generation")
	runCmd.Flags().StringP("output", "o", "table", "output format (table, json, csv, markdown, yaml)")
	runCmd.Flags().StringP("export", "e", "", "write results to this file (.json, .csv, .md, .yaml)")
	runCmd.Flags().Int("iteration-delay", appconfig.DefaultIterationDelayMs, "pacing delay between iterations in milliseconds")
	runCmd.Flags().Int("model-delay", appconfig.DefaultModelDelayMs, "pacing delay between models in milliseconds")

	_ = viper.BindPFlag("iterations", runCmd.Flags().Lookup("iterations"))
	_ = viper.BindPFlag("prompt", runCmd.Flags().Lookup("prompt"))
	_ = viper.BindPFlag("maxTokens", runCmd.Flags().Lookup("max-tokens"))
	_ = viper.BindPFlag("temperature", runCmd.Flags().Lookup("temperature"))
	_ = viper.BindPFlag("output", runCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("export", runCmd.Flags().Lookup("export"))
	_ = viper.BindPFlag("iterationDelayMs", runCmd.Flags().Lookup("iteration-delay"))
	_ = viper.BindPFlag("modelDelayMs", runCmd.Flags().Lookup("model-delay"))
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration is not initialized")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}
	for _, model := range args {
		if err := appconfig.ValidateModelName(model); err != nil {
			return err
		}
	}

	if cfg.Debug {
		pp.Println(cfg)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := ollama.New(*cfg)
	var reporter progress.Reporter = progress.Quiet{}
	if !cfg.Quiet {
		reporter = progress.NewTerminal(cfg.Verbose)
		reporter.Info("🔍 Checking Ollama connection...")
	}

	runner := benchmark.NewRunner(client, *cfg, reporter)

	start := time.Now()
	summaries, err := runner.Run(ctx, args)
	if err != nil {
		return err
	}
	report := benchmark.Report{Summaries: summaries, Duration: time.Since(start)}

	if err := output.Print(os.Stdout, format, report); err != nil {
		return err
	}

	if cfg.ExportPath != "" {
		if err := output.Export(cfg.ExportPath, report); err != nil {
			return err
		}
		reporter.Info(fmt.Sprintf("📊 Results exported to: %s", cfg.ExportPath))
	}

	return nil
}

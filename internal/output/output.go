// internal/output/output.go
// Package output renders a benchmark report in the supported formats and
// exports it to files. It is pure formatting over benchmark.Report.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"go.yaml.in/yaml/v4"

	"github.com/mwiater/ollamabench/internal/benchmark"
	"github.com/mwiater/ollamabench/internal/util"
)

// Supported output formats.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
)

const tableModelWidth = 11

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	modelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case FormatTable, "":
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected table, json, csv, markdown, or yaml)", s)
	}
}

// Print renders the report to w in the requested format.
func Print(w io.Writer, format string, report benchmark.Report) error {
	switch format {
	case FormatTable:
		return printTable(w, report)
	case FormatJSON:
		return printJSON(w, report)
	case FormatCSV:
		return printCSV(w, report)
	case FormatMarkdown:
		return printMarkdown(w, report)
	case FormatYAML:
		return printYAML(w, report)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Export writes the report to path, choosing the format from the file
// extension.
func Export(path string, report benchmark.Report) error {
	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = FormatJSON
	case ".csv":
		format = FormatCSV
	case ".md":
		format = FormatMarkdown
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		return fmt.Errorf("export file must have a .json, .csv, .md, or .yaml extension")
	}

	var buf strings.Builder
	if err := Print(&buf, format, report); err != nil {
		return err
	}
	return util.WriteFile(path, []byte(buf.String()))
}

// printTable renders the human-facing summary table plus winner and timing
// footers.
func printTable(w io.Writer, report benchmark.Report) error {
	if len(report.Summaries) == 0 {
		fmt.Fprintln(w, "\nNo results to display.")
		return nil
	}

	fmt.Fprintln(w, "\n┌─────────────┬─────────────┬─────────────┬──────────────┐")
	fmt.Fprintf(w, "│ %s │ %s │ %s │ %s │\n",
		headerStyle.Render("Model      "),
		headerStyle.Render("Avg Speed  "),
		headerStyle.Render("TTFT       "),
		headerStyle.Render("Success     "))
	fmt.Fprintln(w, "├─────────────┼─────────────┼─────────────┼──────────────┤")

	for _, s := range report.Summaries {
		fmt.Fprintf(w, "│ %s │ %5.1f tok/s │ %9.0fms │ %10.1f%% │\n",
			modelStyle.Render(fmt.Sprintf("%-11s", util.TruncateRunes(s.Model, tableModelWidth))),
			s.AvgTokensPerSecond,
			s.AvgTTFTMs,
			s.SuccessRate*100.0)
	}

	fmt.Fprintln(w, "└─────────────┴─────────────┴─────────────┴──────────────┘")

	if len(report.Summaries) > 1 {
		if winner := benchmark.Winner(report.Summaries); winner != nil {
			line := color.GreenString("🏆 Winner: %s", winner.Model)
			if comparisons := winnerComparisons(*winner, report.Summaries); len(comparisons) > 0 {
				line += fmt.Sprintf(" (%s)", strings.Join(comparisons, ", "))
			}
			fmt.Fprintf(w, "\n%s\n", line)
		}
	}

	fmt.Fprintf(w, "\n%s%s\n", color.CyanString("📊 Completed in "), util.FormatDuration(report.Duration))
	return nil
}

// winnerComparisons phrases the winner's advantages over the other models.
// Negative differences are informational only and are not displayed.
func winnerComparisons(winner benchmark.ModelSummary, summaries []benchmark.ModelSummary) []string {
	var comparisons []string
	for _, other := range summaries {
		if other.Model == winner.Model || other.SuccessRate <= 0 {
			continue
		}
		speedDiff, ttftDiff := benchmark.PerformanceDifference(winner, other)
		if speedDiff > 0 {
			comparisons = append(comparisons, fmt.Sprintf("%.1f%% faster", speedDiff))
		}
		if ttftDiff > 0 && len(comparisons) < 2 {
			comparisons = append(comparisons, fmt.Sprintf("%.0f%% lower TTFT", ttftDiff))
		}
	}
	return comparisons
}

func printJSON(w io.Writer, report benchmark.Report) error {
	data, err := json.MarshalIndent(report.Summaries, "", "  ")
	if err != nil {
		return fmt.Errorf("could not serialize results: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printYAML(w io.Writer, report benchmark.Report) error {
	data, err := yaml.Marshal(report.Summaries)
	if err != nil {
		return fmt.Errorf("could not serialize results: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func printCSV(w io.Writer, report benchmark.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Model", "Total Tests", "Success Rate", "Avg Tokens/s", "Min Tokens/s", "Max Tokens/s", "Avg TTFT (ms)"}); err != nil {
		return err
	}
	for _, s := range report.Summaries {
		record := []string{
			s.Model,
			fmt.Sprintf("%d", s.TotalTests),
			fmt.Sprintf("%.2f", s.SuccessRate),
			fmt.Sprintf("%.2f", s.AvgTokensPerSecond),
			fmt.Sprintf("%.2f", s.MinTokensPerSecond),
			fmt.Sprintf("%.2f", s.MaxTokensPerSecond),
			fmt.Sprintf("%.0f", s.AvgTTFTMs),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func printMarkdown(w io.Writer, report benchmark.Report) error {
	fmt.Fprintln(w, "# Benchmark Results")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Model | Success Rate | Avg Speed | Min Speed | Max Speed | Avg TTFT |")
	fmt.Fprintln(w, "|-------|--------------|-----------|-----------|-----------|----------|")

	for _, s := range report.Summaries {
		fmt.Fprintf(w, "| %s | %.1f%% | %.1f tok/s | %.1f tok/s | %.1f tok/s | %.0fms |\n",
			s.Model,
			s.SuccessRate*100.0,
			s.AvgTokensPerSecond,
			s.MinTokensPerSecond,
			s.MaxTokensPerSecond,
			s.AvgTTFTMs)
	}
	fmt.Fprintln(w)

	if winner := benchmark.Winner(report.Summaries); winner != nil {
		fmt.Fprintf(w, "## Winner: %s 🏆\n", winner.Model)
		if len(report.Summaries) > 1 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "### Performance Comparison:")
			for _, other := range report.Summaries {
				if other.Model == winner.Model || other.SuccessRate <= 0 {
					continue
				}
				speedDiff, ttftDiff := benchmark.PerformanceDifference(*winner, other)
				if speedDiff > 0 {
					fmt.Fprintf(w, "- %.1f%% faster than %s\n", speedDiff, other.Model)
				}
				if ttftDiff > 0 {
					fmt.Fprintf(w, "- %.0f%% lower TTFT than %s\n", ttftDiff, other.Model)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n*Total duration: %s*\n", util.FormatDuration(report.Duration))
	return nil
}

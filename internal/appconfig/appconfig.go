// internal/appconfig/appconfig.go
// Package appconfig manages loading, defaulting, and validating the
// benchmark configuration.
package appconfig

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultOllamaURL is the base URL of a locally running Ollama server.
	DefaultOllamaURL = "http://localhost:11434"
	// DefaultIterations is the number of generation requests per model.
	DefaultIterations = 5
	// DefaultTimeoutSeconds is the per-request timeout.
	DefaultTimeoutSeconds = 120
	// DefaultTemperature is the sampling temperature for generation requests.
	DefaultTemperature = 0.7
	// DefaultMaxTokens caps the number of tokens generated per request.
	DefaultMaxTokens = 100
	// DefaultPrompt is used when the user does not supply one.
	DefaultPrompt = "Write a haiku about benchmarking language models."
	// DefaultIterationDelayMs paces consecutive requests to the same model.
	DefaultIterationDelayMs = 100
	// DefaultModelDelayMs paces the switch from one model to the next.
	DefaultModelDelayMs = 500

	maxIterations = 1000
	maxTokenLimit = 4096
)

// Config represents the full, merged configuration of one benchmark run
// (flags > config file > defaults). It is immutable once the run starts.
type Config struct {
	OllamaURL        string  `mapstructure:"ollamaUrl" json:"ollamaUrl"`
	Iterations       int     `mapstructure:"iterations" json:"iterations"`
	Prompt           string  `mapstructure:"prompt" json:"prompt"`
	Temperature      float64 `mapstructure:"temperature" json:"temperature"`
	MaxTokens        int     `mapstructure:"maxTokens" json:"maxTokens"`
	TimeoutSeconds   int     `mapstructure:"timeout" json:"timeout"`
	IterationDelayMs int     `mapstructure:"iterationDelayMs" json:"iterationDelayMs"`
	ModelDelayMs     int     `mapstructure:"modelDelayMs" json:"modelDelayMs"`
	Output           string  `mapstructure:"output" json:"output"`
	ExportPath       string  `mapstructure:"export" json:"export,omitempty"`
	Quiet            bool    `mapstructure:"quiet" json:"quiet"`
	Verbose          bool    `mapstructure:"verbose" json:"verbose"`
	Debug            bool    `mapstructure:"debug" json:"debug"`
	LogFile          string  `mapstructure:"logFile" json:"logFile,omitempty"`
	ConfigPath       string  `mapstructure:"-" json:"-"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		OllamaURL:        DefaultOllamaURL,
		Iterations:       DefaultIterations,
		Prompt:           DefaultPrompt,
		Temperature:      DefaultTemperature,
		MaxTokens:        DefaultMaxTokens,
		TimeoutSeconds:   DefaultTimeoutSeconds,
		IterationDelayMs: DefaultIterationDelayMs,
		ModelDelayMs:     DefaultModelDelayMs,
		Output:           "table",
	}
}

// RequestTimeout returns the per-request timeout, falling back to the default
// when unset.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IterationDelay returns the pacing delay inserted between iterations.
func (c Config) IterationDelay() time.Duration {
	if c.IterationDelayMs < 0 {
		return 0
	}
	return time.Duration(c.IterationDelayMs) * time.Millisecond
}

// ModelDelay returns the pacing delay inserted between models.
func (c Config) ModelDelay() time.Duration {
	if c.ModelDelayMs < 0 {
		return 0
	}
	return time.Duration(c.ModelDelayMs) * time.Millisecond
}

// LogFilePath returns the log file location, if any was configured.
func (c Config) LogFilePath() string {
	return strings.TrimSpace(c.LogFile)
}

// Validate checks the user-supplied values and reports the first problem as
// an actionable error. A config that fails validation aborts the run before
// any request is issued.
func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be greater than 0")
	}
	if c.Iterations > maxIterations {
		return fmt.Errorf("iterations must be %d or less", maxIterations)
	}
	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("temperature must be between 0.0 and 2.0")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be greater than 0")
	}
	if c.MaxTokens > maxTokenLimit {
		return fmt.Errorf("max tokens must be %d or less", maxTokenLimit)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	if !strings.HasPrefix(c.OllamaURL, "http://") && !strings.HasPrefix(c.OllamaURL, "https://") {
		return fmt.Errorf("ollama URL must start with http:// or https://")
	}
	return nil
}

// modelNamePattern matches the characters Ollama accepts in model references,
// e.g. "llama3.2:1b" or "granite3.1-moe:1b".
var modelNamePattern = regexp.MustCompile(`^[a-zA-Z0-9._:/-]+$`)

// ValidateModelName rejects obviously malformed model references before any
// request is made.
func ValidateModelName(model string) error {
	if strings.TrimSpace(model) == "" {
		return fmt.Errorf("model name must not be empty")
	}
	if !modelNamePattern.MatchString(model) {
		return fmt.Errorf("invalid model name %q (expected the form model:tag, e.g. llama3.2:1b)", model)
	}
	return nil
}

// internal/cli/root.go
package ollamabench

import (
	"fmt"
	"os"

	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/mwiater/ollamabench/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ollamabench",
	Short: "Throughput and latency benchmarking for local Ollama models",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load config file, if one was given; defaults otherwise.
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		// 2) Materialize the fully merged configuration (flags > config file
		//    > defaults) into a stable snapshot for the other packages.
		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = cfgFile
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath(), cfg.Debug); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main() and only needs to happen once.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (e.g., config/ollamabench.json)")

	rootCmd.PersistentFlags().String("ollama-url", appconfig.DefaultOllamaURL, "Ollama API base URL")
	rootCmd.PersistentFlags().Int("timeout", appconfig.DefaultTimeoutSeconds, "per-request timeout in seconds")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet mode (no progress indicators)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "path to the log file")

	_ = viper.BindPFlag("ollamaUrl", rootCmd.PersistentFlags().Lookup("ollama-url"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("log-file"))

	viper.SetDefault("iterations", appconfig.DefaultIterations)
	viper.SetDefault("prompt", appconfig.DefaultPrompt)
	viper.SetDefault("temperature", appconfig.DefaultTemperature)
	viper.SetDefault("maxTokens", appconfig.DefaultMaxTokens)
	viper.SetDefault("iterationDelayMs", appconfig.DefaultIterationDelayMs)
	viper.SetDefault("modelDelayMs", appconfig.DefaultModelDelayMs)
	viper.SetDefault("output", "table")
}

// initConfig points viper at the config file when one was supplied.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file, validating it against the schema
// first so field-level problems are reported against the file.
func ensureConfigLoaded() error {
	if cfgFile == "" {
		return nil
	}
	if err := appconfig.ValidateFile(cfgFile); err != nil {
		return err
	}
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

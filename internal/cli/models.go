// internal/cli/models.go
package ollamabench

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mwiater/ollamabench/internal/ollama"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models installed on the Ollama server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration is not initialized")
		}

		client := ollama.New(*cfg)
		names, err := client.ListModels(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Models on %s:\n", cfg.OllamaURL)
		if len(names) == 0 {
			fmt.Println("  (none installed; pull one with: ollama pull llama3.2:1b)")
			return nil
		}

		modelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
		for _, name := range names {
			fmt.Println(modelStyle.Render("- " + name))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

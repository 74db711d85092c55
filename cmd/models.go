package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fitz/taskflow/internal/predict"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List Gemini models available for prediction",
	Long: `List the Gemini models that support content generation, in the order
they are tried. The configured GEMINI_MODEL is always tried first.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		g, err := predict.NewGemini(cmd.Context(), predict.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
			Logger: logger,
		})
		if err != nil {
			exitWithError(err)
		}
		for _, m := range g.Models(cmd.Context()) {
			marker := " "
			if m == cfg.GeminiModel {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, m)
		}
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

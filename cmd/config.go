package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fitz/taskflow/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
	Long:  `View and modify configuration settings for TaskFlow.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the .env file (local or global).

Use --global flag to set in the global configuration (~/.taskflow/config).
Otherwise, sets in the local .env file.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		value := args[1]
		global, _ := cmd.Flags().GetBool("global")

		if global {
			if err := config.SetGlobalConfig(key, value); err != nil {
				exitWithError(err)
			}
			fmt.Printf("✓ Set %s (global)\n", key)
			return
		}

		absDir, err := dirFlag(cmd)
		if err != nil {
			exitWithError(err)
		}
		if err := config.Set(absDir, key, value); err != nil {
			exitWithError(err)
		}
		fmt.Printf("✓ Set %s (local)\n", key)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Long:  `Retrieve a configuration value from the .env file.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		global, _ := cmd.Flags().GetBool("global")

		var (
			value string
			err   error
		)
		if global {
			value, err = config.GetGlobalConfig(key)
		} else {
			var absDir string
			absDir, err = dirFlag(cmd)
			if err == nil {
				value, err = config.Get(absDir, key)
			}
		}
		if err != nil {
			exitWithError(err)
		}

		fmt.Printf("%s=%s\n", key, value)
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Long: `Display the effective configuration after merging local, global and environment values.

Use --global to show only the global configuration (~/.taskflow/config).`,
	Run: func(cmd *cobra.Command, args []string) {
		global, _ := cmd.Flags().GetBool("global")

		var (
			c   *config.Config
			err error
		)
		if global {
			c, err = config.LoadGlobalConfig()
		} else {
			var absDir string
			if absDir, err = dirFlag(cmd); err != nil {
				exitWithError(err)
			}
			c, err = config.Load(absDir)
		}
		if err != nil {
			// If validation fails, still show what we can load
			fmt.Printf("Configuration (%v):\n", err)
		} else {
			fmt.Println("Configuration:")
		}

		values := c.Values()
		for _, key := range config.Keys {
			value := values[key]
			if config.IsSecret(key) {
				value = maskPassword(value)
			}
			fmt.Printf("  %s: %s\n", key, value)
		}
	},
}

func dirFlag(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid directory: %w", err)
	}
	return absDir, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)

	configSetCmd.Flags().Bool("global", false, "Set in global config instead of local")
	configGetCmd.Flags().Bool("global", false, "Read from global config instead of local")
	configListCmd.Flags().Bool("global", false, "Show only the global config")
}

// maskPassword masks a password string for display.
func maskPassword(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}

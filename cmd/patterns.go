package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fitz/taskflow/internal/board"
	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/patterns"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Manage domain patterns",
	Long: `Domain patterns tie browser tabs to task contexts. A tab whose URL or
title matches a pattern boosts tasks whose context or keywords match it too.
Patterns are exchanged as TOML files.`,
}

var patternsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List domain patterns",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withBoard(cmd.Context(), func(b *board.Board) error {
			ps := b.Patterns()
			if jsonFlag(cmd) {
				return printJSON(ps)
			}
			t := newTable(os.Stdout, "ID", "Name", "Patterns", "Keywords")
			for _, p := range ps {
				t.Append([]string{p.ID, p.Name, strings.Join(p.Patterns, ", "), strings.Join(p.Keywords, ", ")})
			}
			t.Render()
			return nil
		})
	},
}

var patternsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add or replace a domain pattern",
	Long: `Add a domain pattern. A pattern whose id already exists is replaced;
the id defaults to a slug of the name.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		id, _ := flags.GetString("id")
		urls, _ := flags.GetStringSlice("match")
		keywords, _ := flags.GetStringSlice("keywords")
		withBoard(cmd.Context(), func(b *board.Board) error {
			p, err := b.UpsertPattern(cmd.Context(), models.DomainPattern{
				ID: id, Name: args[0], Patterns: urls, Keywords: keywords,
			})
			if err != nil {
				return err
			}
			logger.Info("pattern saved", "id", p.ID)
			return nil
		})
	},
}

var patternsExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write domain patterns as TOML",
	Long:  `Write the domain patterns to a TOML file, or to stdout when no file is given.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withBoard(cmd.Context(), func(b *board.Board) error {
			if len(args) == 0 {
				return patterns.Encode(os.Stdout, b.Patterns())
			}
			return patterns.SaveFile(args[0], b.Patterns())
		})
	},
}

var patternsImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace domain patterns from a TOML file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ps, err := patterns.LoadFile(args[0])
		if err != nil {
			exitWithError(err)
		}
		withBoard(cmd.Context(), func(b *board.Board) error {
			saved, err := b.SetPatterns(cmd.Context(), ps)
			if err != nil {
				return err
			}
			logger.Info("patterns imported", "file", args[0], "count", len(saved))
			return nil
		})
	},
}

var patternsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default domain patterns",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withBoard(cmd.Context(), func(b *board.Board) error {
			_, err := b.ResetPatterns(cmd.Context())
			return err
		})
	},
}

var patternsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a domain pattern",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withBoard(cmd.Context(), func(b *board.Board) error {
			return b.DeletePattern(cmd.Context(), args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd)
	patternsCmd.AddCommand(patternsListCmd, patternsAddCmd, patternsExportCmd, patternsImportCmd,
		patternsResetCmd, patternsDeleteCmd)
	patternsListCmd.Flags().Bool("json", false, "Print JSON")
	patternsAddCmd.Flags().String("id", "", "Pattern id; derived from the name when empty")
	patternsAddCmd.Flags().StringSlice("match", nil, "URL or title fragments that identify the tab")
	patternsAddCmd.Flags().StringSlice("keywords", nil, "Keywords matched against tasks")
}

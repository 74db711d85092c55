package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fitz/taskflow/internal/board"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage task groups",
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups with active subtasks",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withBoard(cmd.Context(), func(b *board.Board) error {
			for _, name := range b.Groups() {
				fmt.Println(name)
			}
			return nil
		})
	},
}

var groupCompleteCmd = &cobra.Command{
	Use:   "complete [name]",
	Short: "Complete a group once every subtask is checked",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withBoard(cmd.Context(), func(b *board.Board) error {
			done, err := b.CompleteGroup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✓ Completed %d task(s) in %q\n", len(done), args[0])
			return nil
		})
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a group and all its subtasks",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withBoard(cmd.Context(), func(b *board.Board) error {
			n, err := b.DeleteGroup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✓ Deleted %d task(s) in %q\n", n, args[0])
			return nil
		})
	},
}

var groupRenameCmd = &cobra.Command{
	Use:   "rename [name] [new-name]",
	Short: "Rename a group",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withBoard(cmd.Context(), func(b *board.Board) error {
			n, err := b.RenameGroup(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("✓ Renamed %q to %q (%d task(s))\n", args[0], args[1], n)
			return nil
		})
	},
}

var groupSplitCmd = &cobra.Command{
	Use:   "split [task-id]",
	Short: "Replace a task with predicted subtasks",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withBoard(cmd.Context(), func(b *board.Board) error {
			res, err := b.Resplit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, n := range res.Notices {
				fmt.Fprintf(os.Stderr, "! %s\n", n)
			}
			printTasks(os.Stdout, res.Tasks)
			return nil
		})
	},
}

var groupReorderCmd = &cobra.Command{
	Use:   "reorder [task-id] [index]",
	Short: "Move a subtask within its group",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			exitWithError(fmt.Errorf("invalid index %q: %w", args[1], err))
		}
		withBoard(cmd.Context(), func(b *board.Board) error {
			return b.ReorderChild(cmd.Context(), args[0], index)
		})
		fmt.Println("✓ Moved")
	},
}

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.AddCommand(groupListCmd, groupCompleteCmd, groupDeleteCmd,
		groupRenameCmd, groupSplitCmd, groupReorderCmd)
}

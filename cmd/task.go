package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fitz/taskflow/internal/board"
	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/priority"
	"github.com/fitz/taskflow/internal/reorder"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [line...]",
	Short: "Add tasks, one per line",
	Long: `Add tasks from text. Each argument or line becomes a task whose urgency,
importance, context and duration are predicted when GEMINI_API_KEY is set.
With no arguments, lines are read from stdin.

Use --split to break the text into a named group of subtasks instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		text := strings.Join(args, "\n")
		if len(args) == 0 {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitWithError(fmt.Errorf("failed to read stdin: %w", err))
			}
			text = string(data)
		}
		split, _ := cmd.Flags().GetBool("split")
		current, _ := cmd.Flags().GetBool("current")

		withBoard(cmd.Context(), func(b *board.Board) error {
			var (
				res board.Created
				err error
			)
			if split {
				res, err = b.Decompose(cmd.Context(), text)
			} else {
				res, err = b.CreateFromText(cmd.Context(), text)
			}
			if err != nil {
				return err
			}
			if current {
				moved := make(map[reorder.Item]bool)
				for _, t := range res.Tasks {
					item := reorder.TaskRef(t.ID)
					if t.IsGroupChild() {
						item = reorder.GroupRef(t.ParentTaskName)
					}
					if moved[item] {
						continue
					}
					moved[item] = true
					if err := b.Drop(cmd.Context(), item, reorder.TargetCurrent, nil); err != nil {
						return err
					}
				}
			}
			for _, n := range res.Notices {
				fmt.Fprintf(os.Stderr, "! %s\n", n)
			}
			if jsonFlag(cmd) {
				return printJSON(res)
			}
			fmt.Printf("✓ Added %d task(s)\n", len(res.Tasks))
			printTasks(os.Stdout, res.Tasks)
			return nil
		})
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List the current, all or completed list. Unordered tasks in the all
list are ranked for the tab given by --url and --title.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		list, _ := cmd.Flags().GetString("list")
		if !reorder.IsValidTarget(list) {
			exitWithError(fmt.Errorf("invalid list: %s (must be one of: current, all, completed)", list))
		}
		withBoard(cmd.Context(), func(b *board.Board) error {
			tasks := b.List(reorder.Target(list), tabFromFlags(cmd))
			if jsonFlag(cmd) {
				return printJSON(tasks)
			}
			printTasks(os.Stdout, tasks)
			return nil
		})
	},
}

var taskRankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank active tasks by priority score",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		top, _ := cmd.Flags().GetInt("top")
		withBoard(cmd.Context(), func(b *board.Board) error {
			tab := tabFromFlags(cmd)
			var ranked []priority.Scored
			if top > 0 {
				ranked = b.Top(tab, top)
			} else {
				ranked = b.Rank(tab)
			}
			if jsonFlag(cmd) {
				return printJSON(ranked)
			}
			printScored(os.Stdout, ranked)
			return nil
		})
	},
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete [id]",
	Short: "Complete a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withBoard(cmd.Context(), func(b *board.Board) error {
			t, err := b.Complete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✓ Completed %q\n", t.Name)
			return nil
		})
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withBoard(cmd.Context(), func(b *board.Board) error {
			if err := b.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("✓ Deleted %s\n", args[0])
			return nil
		})
	},
}

var taskCheckCmd = &cobra.Command{
	Use:   "check [id]",
	Short: "Toggle the checked state of a subtask",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withBoard(cmd.Context(), func(b *board.Board) error {
			t, err := b.ToggleCheck(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✓ %q checked: %v\n", t.Name, t.IsChecked)
			return nil
		})
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update task fields",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var u board.Update
		flags := cmd.Flags()
		if flags.Changed("name") {
			v, _ := flags.GetString("name")
			u.Name = &v
		}
		if flags.Changed("urgency") {
			v, _ := flags.GetInt("urgency")
			u.Urgency = &v
		}
		if flags.Changed("importance") {
			v, _ := flags.GetInt("importance")
			u.Importance = &v
		}
		if flags.Changed("context") {
			v, _ := flags.GetString("context")
			u.ContextKey = &v
		}
		if flags.Changed("minutes") {
			v, _ := flags.GetInt("minutes")
			u.EstimatedTime = &v
		}
		if flags.Changed("keywords") {
			v, _ := flags.GetStringSlice("keywords")
			u.Keywords = &v
		}
		withBoard(cmd.Context(), func(b *board.Board) error {
			t, err := b.Update(cmd.Context(), args[0], u)
			if err != nil {
				return err
			}
			printTasks(os.Stdout, []models.Task{t})
			return nil
		})
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move [id|group] [index]",
	Short: "Move a task or group to a position",
	Long: `Move a task, or a whole group with --group, to a zero-based position
in the all list, or in the current list with --current. Use --to completed
to complete it instead.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		isGroup, _ := cmd.Flags().GetBool("group")
		toCurrent, _ := cmd.Flags().GetBool("current")
		to, _ := cmd.Flags().GetString("to")

		item := reorder.TaskRef(args[0])
		if isGroup {
			item = reorder.GroupRef(args[0])
		}

		withBoard(cmd.Context(), func(b *board.Board) error {
			tab := tabFromFlags(cmd)
			if to != "" || len(args) == 1 {
				target := reorder.Target(to)
				if to == "" {
					target = reorder.TargetAll
					if toCurrent {
						target = reorder.TargetCurrent
					}
				}
				if !reorder.IsValidTarget(string(target)) {
					return fmt.Errorf("invalid target: %s (must be one of: current, all, completed)", to)
				}
				return b.Drop(cmd.Context(), item, target, tab)
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], err)
			}
			return b.Move(cmd.Context(), item, index, toCurrent, tab)
		})
		fmt.Println("✓ Moved")
	},
}

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Renumber order keys",
	Long:  `Rewrite every order key to evenly spaced values, preserving the order of each list.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withBoard(cmd.Context(), func(b *board.Board) error {
			return b.Compact(cmd.Context(), tabFromFlags(cmd))
		})
		fmt.Println("✓ Order keys renumbered")
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show task counts, estimated time and what to do now",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withBoard(cmd.Context(), func(b *board.Board) error {
			tab := tabFromFlags(cmd)
			if jsonFlag(cmd) {
				return printJSON(b.Snapshot(tab))
			}
			printSummary(os.Stdout, b.Summary())
			fmt.Println("\nDo now:")
			printScored(os.Stdout, b.Top(tab, priority.DoNowCount))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(taskCmd, compactCmd, summaryCmd)
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskRankCmd, taskCompleteCmd,
		taskDeleteCmd, taskCheckCmd, taskUpdateCmd, taskMoveCmd)

	for _, c := range []*cobra.Command{taskAddCmd, taskListCmd, taskRankCmd, summaryCmd} {
		c.Flags().Bool("json", false, "Print JSON")
	}
	for _, c := range []*cobra.Command{taskListCmd, taskRankCmd, taskMoveCmd, summaryCmd, compactCmd} {
		addTabFlags(c)
	}

	taskAddCmd.Flags().Bool("split", false, "Break the text into a group of subtasks")
	taskAddCmd.Flags().Bool("current", false, "Add to the current list")

	taskListCmd.Flags().StringP("list", "l", string(reorder.TargetAll), "List to show: current, all or completed")
	taskRankCmd.Flags().IntP("top", "n", 0, "Show only the n best tasks")

	taskUpdateCmd.Flags().String("name", "", "Task name")
	taskUpdateCmd.Flags().Int("urgency", 0, "Urgency (1-4)")
	taskUpdateCmd.Flags().Int("importance", 0, "Importance (1-5)")
	taskUpdateCmd.Flags().String("context", "", "Context key, such as aws or github")
	taskUpdateCmd.Flags().Int("minutes", 0, "Estimated minutes (1-999)")
	taskUpdateCmd.Flags().StringSlice("keywords", nil, "Keywords matched against the active tab")

	taskMoveCmd.Flags().Bool("group", false, "Move the group with this name")
	taskMoveCmd.Flags().Bool("current", false, "Move into the current list")
	taskMoveCmd.Flags().String("to", "", "Drop onto a list (current, all or completed) instead of a position")
}

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fitz/taskflow/internal/board"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Manage pause timers",
}

var timerPauseCmd = &cobra.Command{
	Use:   "pause [task-id]",
	Short: "Pause a task for a while",
	Long: `Start a pause timer for a task. Without --minutes the task's
estimated time is used. The task stays active; a notification is sent when
the timer runs out while 'taskflow serve', 'taskflow mcp' or
'taskflow timer watch' is running.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		minutes, _ := cmd.Flags().GetInt("minutes")
		withBoard(cmd.Context(), func(b *board.Board) error {
			v, err := b.Pause(cmd.Context(), args[0], minutes)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Paused %q until %s (%s)\n", v.Timer.OriginalTask.Name,
				v.Timer.EndTime.Format(time.Kitchen), humanize.Time(v.Timer.EndTime))
			return nil
		})
	},
}

var timerCancelCmd = &cobra.Command{
	Use:   "cancel [task-id]",
	Short: "Cancel a pause timer",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			exitWithError(fmt.Errorf("task id or --all is required"))
		}
		withBoard(cmd.Context(), func(b *board.Board) error {
			if all {
				return b.CancelAllTimers(cmd.Context())
			}
			return b.CancelTimer(cmd.Context(), args[0])
		})
		fmt.Println("✓ Cancelled")
	},
}

var timerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pause timers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withBoard(cmd.Context(), func(b *board.Board) error {
			views := b.Timers()
			if jsonFlag(cmd) {
				return printJSON(views)
			}
			printTimers(os.Stdout, views, time.Now())
			return nil
		})
	},
}

var timerWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Notify when pause timers run out",
	Long:  `Run in the foreground and send a notification whenever a pause timer expires.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withBoard(cmd.Context(), func(b *board.Board) error {
			logger.Info("watching timers", "timers", len(b.Timers()))
			b.Watch(cmd.Context(), timerInterval)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(timerCmd)
	timerCmd.AddCommand(timerPauseCmd, timerCancelCmd, timerListCmd, timerWatchCmd)

	timerPauseCmd.Flags().IntP("minutes", "m", 0, "Timer length in minutes (default: estimated time)")
	timerCancelCmd.Flags().Bool("all", false, "Cancel every timer")
	timerListCmd.Flags().Bool("json", false, "Print JSON")
}

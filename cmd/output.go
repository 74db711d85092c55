package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fitz/taskflow/internal/board"
	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/priority"
)

func addTabFlags(cmd *cobra.Command) {
	cmd.Flags().String("url", "", "URL of the active browser tab")
	cmd.Flags().String("title", "", "Title of the active browser tab")
}

func tabFromFlags(cmd *cobra.Command) *models.TabContext {
	url, _ := cmd.Flags().GetString("url")
	title, _ := cmd.Flags().GetString("title")
	return models.NewTabContext(url, title)
}

func jsonFlag(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetBorder(false)
	t.SetAutoWrapText(false)
	return t
}

func orderCell(t models.Task) string {
	if t.Order == nil {
		return "-"
	}
	return strconv.FormatFloat(*t.Order, 'f', -1, 64)
}

func groupCell(t models.Task) string {
	if t.IsGroupChild() {
		if t.IsChecked {
			return t.ParentTaskName + " [x]"
		}
		return t.ParentTaskName + " [ ]"
	}
	return ""
}

func printTasks(w io.Writer, tasks []models.Task) {
	t := newTable(w, "ID", "Name", "U", "I", "Context", "Min", "Group", "Order")
	for _, task := range tasks {
		t.Append([]string{
			task.ID, task.Name,
			strconv.Itoa(task.Urgency), strconv.Itoa(task.Importance),
			task.ContextKey, strconv.Itoa(task.EstimatedTime),
			groupCell(task), orderCell(task),
		})
	}
	t.Render()
}

func printScored(w io.Writer, scored []priority.Scored) {
	t := newTable(w, "#", "ID", "Name", "Score", "Context", "Min")
	for i, s := range scored {
		rank := strconv.Itoa(i + 1)
		if s.Task.IsTopPriority {
			rank += " *"
		}
		t.Append([]string{
			rank, s.Task.ID, s.Task.Name,
			strconv.FormatFloat(s.Score, 'f', 1, 64),
			s.Task.ContextKey, strconv.Itoa(s.Task.EstimatedTime),
		})
	}
	t.Render()
}

func printTimers(w io.Writer, views []board.TimerView, now time.Time) {
	t := newTable(w, "Task", "Name", "State", "Ends", "Left", "Progress")
	for _, v := range views {
		t.Append([]string{
			v.Timer.TaskID, v.Timer.OriginalTask.Name, string(v.State),
			humanize.RelTime(v.Timer.EndTime, now, "ago", "from now"),
			fmt.Sprintf("%d:%02d", v.Remaining.Minutes, v.Remaining.Seconds),
			fmt.Sprintf("%.0f%%", v.Remaining.Progress*100),
		})
	}
	t.Render()
}

func printSummary(w io.Writer, s board.Summary) {
	fmt.Fprintf(w, "Active:    %s tasks, %s\n", humanize.Comma(int64(s.ActiveTasks)), minutes(s.ActiveMinutes))
	fmt.Fprintf(w, "Completed: %s tasks, %s\n", humanize.Comma(int64(s.CompletedTasks)), minutes(s.CompletedMinutes))
	fmt.Fprintf(w, "Total:     %s tasks, %s\n", humanize.Comma(int64(s.TotalTasks)), minutes(s.TotalMinutes))
}

func minutes(m int) string {
	d := time.Duration(m) * time.Minute
	if d < time.Hour {
		return fmt.Sprintf("%dm", m)
	}
	return strings.TrimSuffix(d.String(), "0s")
}

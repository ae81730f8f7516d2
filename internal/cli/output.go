package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/zentasks/zentasks/internal/domain"
	"gopkg.in/yaml.v3"
)

// outputFormat selects how commands print results.
type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

// parseOutputFormat validates the -o flag value.
func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", formatTable:
		return formatTable, nil
	case formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format %q (use table, json or yaml)", s)
	}
}

// taskView is the structured (json/yaml) representation of a task.
// Quadrant is included for readers; it is always derived from the two flags.
// Fields are ordered to minimize memory padding.
type taskView struct {
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Status      string    `json:"status" yaml:"status"`
	Quadrant    string    `json:"quadrant" yaml:"quadrant"`
	DueDate     string    `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	IsUrgent    bool      `json:"isUrgent" yaml:"isUrgent"`
	IsImportant bool      `json:"isImportant" yaml:"isImportant"`
}

func newTaskView(t *domain.Task) taskView {
	v := taskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status.Normalize()),
		Quadrant:    string(t.Quadrant()),
		IsUrgent:    t.IsUrgent,
		IsImportant: t.IsImportant,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.DueDate != nil {
		v.DueDate = t.DueDate.Format(domain.DateLayout)
	}
	return v
}

func newTaskViews(tasks []*domain.Task) []taskView {
	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, newTaskView(t))
	}
	return views
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format outputFormat, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
}

// printTaskTable prints tasks as aligned columns.
func printTaskTable(w io.Writer, tasks []*domain.Task, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tQUADRANT\tSTATUS\tDUE\tTITLE")
	for _, task := range tasks {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			task.ID,
			task.Quadrant(),
			task.Status.Normalize(),
			formatDue(task, now),
			task.Title,
		)
	}
}

// printTaskDetails prints one task in a readable block.
func printTaskDetails(w io.Writer, task *domain.Task, now time.Time) {
	_, _ = fmt.Fprintf(w, "# %s\n\n", task.Title)
	if task.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", task.Description)
	}
	printField(w, "ID", task.ID)
	printField(w, "Status", task.Status.Display())
	printField(w, "Quadrant", fmt.Sprintf("%s (%s)", task.Quadrant().Display(), task.Quadrant().Hint()))
	printField(w, "Urgent", yesNo(task.IsUrgent))
	printField(w, "Important", yesNo(task.IsImportant))
	printField(w, "Due", formatDue(task, now))
	if !task.CreatedAt.IsZero() {
		printField(w, "Created", task.CreatedAt.Local().Format(time.RFC3339))
	}
	if !task.UpdatedAt.IsZero() {
		printField(w, "Updated", task.UpdatedAt.Local().Format(time.RFC3339))
	}
}

func printField(w io.Writer, label, value string) {
	_, _ = fmt.Fprintf(w, "%-11s%s\n", label+":", value)
}

// formatDue renders the due date with a marker relative to now.
func formatDue(task *domain.Task, now time.Time) string {
	if task.DueDate == nil {
		return "-"
	}
	due := task.DueDate.Format(domain.DateLayout)
	if task.IsDone() {
		return due
	}
	today := domain.StartOfDay(now, now.Location())
	day := domain.StartOfDay(*task.DueDate, now.Location())
	switch {
	case day.Before(today):
		return due + " (overdue)"
	case day.Equal(today):
		return due + " (today)"
	default:
		return due
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

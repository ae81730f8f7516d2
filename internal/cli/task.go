package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/zentasks/zentasks/internal/app"
	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/usecase"
)

// parseDue parses a --due value. Besides YYYY-MM-DD it accepts "today" and "tomorrow".
func parseDue(s string, now time.Time) (*time.Time, error) {
	today := domain.StartOfDay(now, now.Location())
	var due time.Time
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		due = today
	case "tomorrow":
		due = today.AddDate(0, 0, 1)
	default:
		parsed, err := time.ParseInLocation(domain.DateLayout, strings.TrimSpace(s), now.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid due date %q (use YYYY-MM-DD, today or tomorrow)", s)
		}
		due = parsed
	}
	return &due, nil
}

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Quadrant    string
		Due         string
		From        string
		Urgent      bool
		Important   bool
		DryRun      bool
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a new task.

The quadrant follows from the urgent and important flags. --quadrant sets
both at once; explicit --urgent/--important win over it.

Examples:
  # Create an urgent, important task due tomorrow
  zentasks new --title "Renew passport" --body "Appointment at the office" --quadrant do_now --due tomorrow

  # Create a task to schedule
  zentasks new --title "Write report" --body "Quarterly numbers" --important

  # Create tasks from a file (multiple tasks supported)
  zentasks new --from tasks.md

  # Preview tasks from a file without creating
  zentasks new --from tasks.md --dry-run

File format for --from:
  ---
  title: Write report
  quadrant: schedule
  due: 2026-03-14
  ---
  Quarterly numbers for the board.

  ---
  title: Call plumber
  urgent: true
  important: false
  ---
  Kitchen sink is leaking.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.From != "" {
				return createTasksFromFile(cmd, c, opts.From, opts.DryRun)
			}
			if opts.DryRun {
				return fmt.Errorf("--dry-run requires --from")
			}
			if opts.Title == "" {
				return fmt.Errorf("required flag(s) \"title\" not set")
			}

			input := usecase.NewTaskInput{
				Title:       opts.Title,
				Description: opts.Description,
			}

			if opts.Quadrant != "" {
				q, err := domain.ParseQuadrant(opts.Quadrant)
				if err != nil {
					return fmt.Errorf("%w: %s", err, opts.Quadrant)
				}
				input.IsUrgent, input.IsImportant = q.Flags()
			}
			if cmd.Flags().Changed("urgent") {
				input.IsUrgent = opts.Urgent
			}
			if cmd.Flags().Changed("important") {
				input.IsImportant = opts.Important
			}
			if opts.Due != "" {
				due, err := parseDue(opts.Due, c.Clock.Now())
				if err != nil {
					return err
				}
				input.DueDate = due
			}

			out, err := c.NewTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s in %s\n", out.Task.ID, out.Task.Quadrant())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title (required unless --from is used)")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Task description")
	cmd.Flags().StringVarP(&opts.Quadrant, "quadrant", "q", "", "Quadrant (do_now, schedule, delegate, eliminate)")
	cmd.Flags().BoolVar(&opts.Urgent, "urgent", false, "Mark the task urgent")
	cmd.Flags().BoolVar(&opts.Important, "important", false, "Mark the task important")
	cmd.Flags().StringVar(&opts.Due, "due", "", "Due date (YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().StringVar(&opts.From, "from", "", "Create tasks from a Markdown file")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Preview tasks without creating (requires --from)")

	return cmd
}

// createTasksFromFile creates tasks from a Markdown file.
func createTasksFromFile(cmd *cobra.Command, c *app.Container, filePath string, dryRun bool) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	out, err := c.CreateTasksFromFileUseCase().Execute(cmd.Context(), usecase.CreateTasksFromFileInput{
		Content: string(content),
		DryRun:  dryRun,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if dryRun {
		_, _ = fmt.Fprintln(w, "Dry run - tasks that would be created:")
		_, _ = fmt.Fprintln(w, "")
		for i, draft := range out.Drafts {
			urgent, important := draft.Flags()
			_, _ = fmt.Fprintf(w, "Task %d:\n", i+1)
			_, _ = fmt.Fprintf(w, "  Title: %s\n", draft.Title)
			_, _ = fmt.Fprintf(w, "  Quadrant: %s\n", domain.Classify(urgent, important))
			if draft.DueDate != nil {
				_, _ = fmt.Fprintf(w, "  Due: %s\n", draft.DueDate.Format(domain.DateLayout))
			}
			if draft.Description != "" {
				_, _ = fmt.Fprintf(w, "  Description: %s\n", preview(draft.Description))
			}
		}
		return nil
	}

	for _, task := range out.Tasks {
		_, _ = fmt.Fprintf(w, "Created task %s in %s: %s\n", task.ID, task.Quadrant(), task.Title)
	}
	return nil
}

// preview returns the first line of s, shortened to 50 characters.
func preview(s string) string {
	lines := strings.Split(s, "\n")
	p := lines[0]
	if r := []rune(p); len(r) > 50 {
		p = string(r[:50]) + "..."
	}
	if len(lines) > 1 {
		p += " ..."
	}
	return p
}

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status    string
		Quadrant  string
		Search    string
		Output    string
		Urgent    bool
		Important bool
		All       bool
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks, newest API order first.

Completed and cancelled tasks are hidden unless --all is given or a
status is requested explicitly. Filters combine.

Examples:
  zentasks list
  zentasks list --quadrant schedule
  zentasks list --status in_progress
  zentasks list --search report -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(opts.Output)
			if err != nil {
				return err
			}

			input := usecase.ListTasksInput{IncludeDone: opts.All}
			input.Filter.Search = opts.Search
			if opts.Status != "" {
				st, parseErr := domain.ParseStatus(opts.Status)
				if parseErr != nil {
					return fmt.Errorf("%w: %s", parseErr, opts.Status)
				}
				input.Filter.Status = &st
			}
			if opts.Quadrant != "" {
				q, parseErr := domain.ParseQuadrant(opts.Quadrant)
				if parseErr != nil {
					return fmt.Errorf("%w: %s", parseErr, opts.Quadrant)
				}
				input.Filter.Quadrant = &q
			}
			if cmd.Flags().Changed("urgent") {
				input.Filter.IsUrgent = &opts.Urgent
			}
			if cmd.Flags().Changed("important") {
				input.Filter.IsImportant = &opts.Important
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if format != formatTable {
				return writeStructured(w, format, newTaskViews(out.Tasks))
			}
			if len(out.Tasks) == 0 {
				_, _ = fmt.Fprintln(w, "No tasks found.")
				return nil
			}
			printTaskTable(w, out.Tasks, c.Clock.Now())
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "Filter by status (created, in_progress, completed, cancelled)")
	cmd.Flags().StringVarP(&opts.Quadrant, "quadrant", "q", "", "Filter by quadrant (do_now, schedule, delegate, eliminate)")
	cmd.Flags().BoolVar(&opts.Urgent, "urgent", false, "Filter by the urgent flag")
	cmd.Flags().BoolVar(&opts.Important, "important", false, "Filter by the important flag")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Filter by text in title or description")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Include completed and cancelled tasks")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "table", "Output format (table, json, yaml)")

	return cmd
}

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}

			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			if format != formatTable {
				return writeStructured(cmd.OutOrStdout(), format, newTaskView(out.Task))
			}
			printTaskDetails(cmd.OutOrStdout(), out.Task, c.Clock.Now())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json, yaml)")

	return cmd
}

// newEditCommand creates the edit command.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Due         string
		From        string
		Urgent      bool
		Important   bool
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit task information",
		Long: `Edit an existing task's title, description, due date or flags.

If no flags are provided, the task is opened in the user's $EDITOR as
Markdown with frontmatter. Only the fields you change are sent.

Examples:
  # Open task in editor
  zentasks edit 42

  # Change task title
  zentasks edit 42 --title "New task title"

  # Push the due date
  zentasks edit 42 --due 2026-04-01

  # Edit task from a file
  zentasks edit 42 --from task.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID := args[0]

			if opts.From != "" {
				return editTaskFromFile(cmd, c, taskID, opts.From)
			}

			hasFlags := cmd.Flags().Changed("title") ||
				cmd.Flags().Changed("body") ||
				cmd.Flags().Changed("due") ||
				cmd.Flags().Changed("urgent") ||
				cmd.Flags().Changed("important")
			if !hasFlags {
				return editTaskWithEditor(cmd, c, taskID)
			}

			var patch domain.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &opts.Title
			}
			if cmd.Flags().Changed("body") {
				patch.Description = &opts.Description
			}
			if cmd.Flags().Changed("due") {
				due, err := parseDue(opts.Due, c.Clock.Now())
				if err != nil {
					return err
				}
				patch.DueDate = due
			}
			if cmd.Flags().Changed("urgent") {
				patch.IsUrgent = &opts.Urgent
			}
			if cmd.Flags().Changed("important") {
				patch.IsImportant = &opts.Important
			}

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), usecase.EditTaskInput{
				TaskID: taskID,
				Patch:  patch,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New task title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "New task description")
	cmd.Flags().StringVar(&opts.Due, "due", "", "New due date (YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().BoolVar(&opts.Urgent, "urgent", false, "Set the urgent flag")
	cmd.Flags().BoolVar(&opts.Important, "important", false, "Set the important flag")
	cmd.Flags().StringVar(&opts.From, "from", "", "Edit task from a Markdown file")

	return cmd
}

// editTaskWithEditor opens the task in an editor for editing.
func editTaskWithEditor(cmd *cobra.Command, c *app.Container, taskID string) error {
	showOut, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: taskID})
	if err != nil {
		return err
	}
	task := showOut.Task

	tmpFile, err := os.CreateTemp("", "zentasks-task-*.md")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	markdown := task.ToMarkdown()
	if _, writeErr := tmpFile.WriteString(markdown); writeErr != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", writeErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("failed to close temp file: %w", closeErr)
	}

	if editorErr := openEditorFunc(tmpPath); editorErr != nil {
		return editorErr
	}

	editedContent, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to read edited file: %w", err)
	}
	if string(editedContent) == markdown {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No changes made")
		return nil
	}

	return applyDraft(cmd.Context(), cmd.OutOrStdout(), c, task, string(editedContent))
}

// editTaskFromFile updates a task from a Markdown file.
func editTaskFromFile(cmd *cobra.Command, c *app.Container, taskID, filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	showOut, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: taskID})
	if err != nil {
		return err
	}

	return applyDraft(cmd.Context(), cmd.OutOrStdout(), c, showOut.Task, string(content))
}

// applyDraft parses content and sends the fields that differ from task.
func applyDraft(ctx context.Context, w io.Writer, c *app.Container, task *domain.Task, content string) error {
	draft, err := domain.ParseSingleTaskDraft(content)
	if err != nil {
		return err
	}

	patch := draft.PatchFor(task)
	if patch.IsEmpty() {
		_, _ = fmt.Fprintln(w, "No changes made")
		return nil
	}

	out, err := c.EditTaskUseCase().Execute(ctx, usecase.EditTaskInput{
		TaskID: task.ID,
		Patch:  patch,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Updated task %s\n", out.Task.ID)
	return nil
}

// newStatusCommand creates the status command.
func newStatusCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change a task's status",
		Long: `Change a task's status.

Statuses: created (alias todo), in_progress, completed (alias done), cancelled.
Any status can follow any other.

Examples:
  zentasks status 42 in_progress
  zentasks status 42 done`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := domain.ParseStatus(args[1])
			if err != nil {
				return fmt.Errorf("%w: %s", err, args[1])
			}

			out, err := c.SetStatusUseCase().Execute(cmd.Context(), usecase.SetStatusInput{
				TaskID: args[0],
				Status: st,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", out.Task.ID, out.Task.Status.Display())
			return nil
		},
	}
}

// newMoveCommand creates the move command.
func newMoveCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <quadrant>",
		Short: "Move a task to another quadrant",
		Long: `Move a task to another quadrant by setting its urgent and important flags.

Quadrants: do_now (alias do_first), schedule, delegate, eliminate.

Examples:
  zentasks move 42 schedule`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := domain.ParseQuadrant(args[1])
			if err != nil {
				return fmt.Errorf("%w: %s", err, args[1])
			}

			out, err := c.MoveQuadrantUseCase().Execute(cmd.Context(), usecase.MoveQuadrantInput{
				TaskID:   args[0],
				Quadrant: q,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s to %s\n", out.Task.ID, out.Task.Quadrant())
			return nil
		},
	}
}

// newRmCommand creates the rm command for deleting tasks.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", out.TaskID)
			return nil
		},
	}
}

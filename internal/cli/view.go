package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/zentasks/zentasks/internal/app"
	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/usecase"
)

// matrixCellWidth is the inner width of one quadrant box.
const matrixCellWidth = 36

// matrixView is the structured (json/yaml) representation of the matrix.
type matrixView struct {
	DoNow     []taskView `json:"DO_NOW" yaml:"DO_NOW"`
	Schedule  []taskView `json:"SCHEDULE" yaml:"SCHEDULE"`
	Delegate  []taskView `json:"DELEGATE" yaml:"DELEGATE"`
	Eliminate []taskView `json:"ELIMINATE" yaml:"ELIMINATE"`
}

// newMatrixCommand creates the matrix command.
func newMatrixCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Search string
		Output string
		All    bool
	}

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Show tasks in the Eisenhower matrix",
		Long: `Show open tasks grouped into the four quadrants.

  urgent & important     -> DO_NOW
  important, not urgent  -> SCHEDULE
  urgent, not important  -> DELEGATE
  neither                -> ELIMINATE`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(opts.Output)
			if err != nil {
				return err
			}

			out, err := c.ShowMatrixUseCase().Execute(cmd.Context(), usecase.ShowMatrixInput{
				Search:      opts.Search,
				IncludeDone: opts.All,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if format != formatTable {
				return writeStructured(w, format, matrixView{
					DoNow:     newTaskViews(out.Quadrants[domain.QuadrantDoNow]),
					Schedule:  newTaskViews(out.Quadrants[domain.QuadrantSchedule]),
					Delegate:  newTaskViews(out.Quadrants[domain.QuadrantDelegate]),
					Eliminate: newTaskViews(out.Quadrants[domain.QuadrantEliminate]),
				})
			}
			_, _ = fmt.Fprintln(w, renderMatrix(out.Quadrants))
			_, _ = fmt.Fprintf(w, "%d task(s)\n", out.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "Filter by text in title or description")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Include completed and cancelled tasks")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "table", "Output format (table, json, yaml)")

	return cmd
}

// renderMatrix lays the quadrants out as a 2x2 grid of boxes.
func renderMatrix(quadrants map[domain.Quadrant][]*domain.Task) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(matrixCellWidth)

	cell := func(q domain.Quadrant) string {
		var b strings.Builder
		fmt.Fprintf(&b, "%s (%d)\n%s\n", q.Display(), len(quadrants[q]), q.Hint())
		if len(quadrants[q]) == 0 {
			b.WriteString("\n  -")
		}
		for _, t := range quadrants[q] {
			fmt.Fprintf(&b, "\n%s %s", t.ID, truncate(t.Title, matrixCellWidth-len(t.ID)-3))
		}
		return box.Render(b.String())
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, cell(domain.QuadrantDoNow), cell(domain.QuadrantSchedule))
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, cell(domain.QuadrantDelegate), cell(domain.QuadrantEliminate))
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

// truncate shortens s to at most n runes, marking the cut with "…".
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// newDashboardCommand creates the dashboard command.
func newDashboardCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show overdue, due-today and DO_NOW tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowDashboardUseCase().Execute(cmd.Context(), usecase.ShowDashboardInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Today is %s\n", out.Now.Format("Monday, 2006-01-02"))
			printSection(w, "Overdue", out.Dashboard.Overdue, out.Now)
			printSection(w, "Due today", out.Dashboard.DueToday, out.Now)
			printSection(w, "Do now", out.Dashboard.DoNow, out.Now)
			return nil
		},
	}
}

func printSection(w io.Writer, title string, tasks []*domain.Task, now time.Time) {
	_, _ = fmt.Fprintf(w, "\n%s (%d)\n", title, len(tasks))
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(w, "  (none)")
		return
	}
	for _, t := range tasks {
		_, _ = fmt.Fprintf(w, "  %s  %-9s  %s  [%s]\n", t.ID, t.Quadrant(), t.Title, formatDue(t, now))
	}
}

// newWeekCommand creates the week command.
func newWeekCommand(c *app.Container) *cobra.Command {
	var offset int

	cmd := &cobra.Command{
		Use:   "week [date]",
		Short: "Show tasks due each day of a week",
		Long: `Show tasks due on each day of a Monday-to-Sunday week.

Examples:
  zentasks week              # this week
  zentasks week --offset 1   # next week
  zentasks week 2026-04-01   # the week containing April 1st`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.ShowWeekInput{Offset: offset}
			if len(args) == 1 {
				date, err := parseDue(args[0], c.Clock.Now())
				if err != nil {
					return err
				}
				input.Date = date
			}

			out, err := c.ShowWeekUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			end := out.Start.AddDate(0, 0, 6)
			_, _ = fmt.Fprintf(w, "Week of %s - %s\n", out.Start.Format(domain.DateLayout), end.Format(domain.DateLayout))
			for _, day := range out.Days {
				_, _ = fmt.Fprintf(w, "\n%s\n", day.Date.Format("Mon 2006-01-02"))
				if len(day.Tasks) == 0 {
					_, _ = fmt.Fprintln(w, "  -")
					continue
				}
				for _, t := range day.Tasks {
					_, _ = fmt.Fprintf(w, "  %s  %-9s  %-11s  %s\n", t.ID, t.Quadrant(), t.Status.Normalize(), t.Title)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&offset, "offset", "n", 0, "Weeks to shift (-1 = previous week)")

	return cmd
}

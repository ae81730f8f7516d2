package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/zentasks/zentasks/internal/domain"
)

type taskItem struct {
	now  time.Time
	task *domain.Task
}

func (t taskItem) FilterValue() string {
	return t.task.Title
}

// escapeNewlines replaces newline characters with spaces for single-line display.
func escapeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// dueLabel returns the due date text and whether the task is overdue.
func dueLabel(task *domain.Task, now time.Time) (string, bool) {
	if task.DueDate == nil {
		return "", false
	}
	today := domain.StartOfDay(now, now.Location())
	due := domain.StartOfDay(*task.DueDate, now.Location())
	label := due.Format("Jan 02")
	if due.Equal(today) {
		label = "today"
	}
	return label, !task.IsDone() && due.Before(today)
}

type taskDelegate struct {
	styles Styles
}

func newTaskDelegate(styles Styles) taskDelegate {
	return taskDelegate{styles: styles}
}

func (d taskDelegate) Height() int {
	return 2
}

func (d taskDelegate) Spacing() int {
	return 0
}

func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(taskItem)
	if !ok {
		return
	}
	task := ti.task
	selected := index == m.Index()

	indicator := " "
	if selected {
		indicator = ">"
	}

	q := task.Quadrant()
	due, overdue := dueLabel(task, ti.now)
	dueWidth := 0
	if due != "" {
		dueWidth = runewidth.StringWidth(due) + 2
	}

	// indicator, id, icon and badge columns
	prefixWidth := 4 + runewidth.StringWidth(task.ID) + 2 + 2 + len(QuadrantBadge(q)) + 2
	listWidth := m.Width()
	maxTitleLen := listWidth - prefixWidth - dueWidth - 1
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}

	title := escapeNewlines(task.Title)
	if runewidth.StringWidth(title) > maxTitleLen {
		title = runewidth.Truncate(title, maxTitleLen, "...")
	}

	titleStyle := d.styles.TaskTitle
	if selected {
		titleStyle = d.styles.TaskTitleSelected
	}

	line := "  " + d.styles.SelectionIndicator.Render(indicator) + " " +
		d.styles.TaskID.Render(task.ID) + "  " +
		d.styles.StatusStyle(task.Status).Render(StatusIcon(task.Status)) + " " +
		d.styles.QuadrantStyle(q).Render(QuadrantBadge(q)) + "  " +
		titleStyle.Render(title)
	if due != "" {
		dueStyle := d.styles.TaskDue
		if overdue {
			dueStyle = d.styles.TaskOverdue
		}
		line += "  " + dueStyle.Render(due)
	}
	_, _ = fmt.Fprintln(w, line)

	descLine := strings.Repeat(" ", prefixWidth)
	if task.Description != "" {
		desc := escapeNewlines(task.Description)
		maxDescLen := listWidth - prefixWidth - 1
		if maxDescLen < 10 {
			maxDescLen = 10
		}
		if runewidth.StringWidth(desc) > maxDescLen {
			desc = runewidth.Truncate(desc, maxDescLen, "...")
		}
		descLine += desc
	}
	_, _ = fmt.Fprint(w, d.styles.TaskDesc.Render(descLine))
}

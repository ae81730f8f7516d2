package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/zentasks/zentasks/internal/domain"
)

// View renders the TUI.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.mode {
	case ModeHelp:
		content = m.viewHelp()
	case ModeDetail:
		content = m.viewDetail()
	case ModeNormal, ModeFilter, ModeConfirm, ModeInputTitle, ModeInputDesc, ModeMove:
		content = m.viewMain()
	}

	return m.styles.App.Render(content)
}

// viewMain renders the task list or matrix with any open dialog.
func (m *Model) viewMain() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: "+m.err.Error()) + "\n\n")
	}

	if m.mode == ModeFilter {
		b.WriteString(m.styles.InputPrompt.Render("Filter: "))
		b.WriteString(m.filterInput.View())
		b.WriteString("\n\n")
	} else if m.filterInput.Value() != "" {
		b.WriteString(m.styles.Footer.Render("Filtered: "+m.filterInput.Value()) + "\n\n")
	}

	if m.layout == LayoutMatrix {
		b.WriteString(m.viewMatrix())
	} else {
		b.WriteString(m.viewTaskList())
	}

	switch m.mode {
	case ModeNormal, ModeFilter, ModeHelp, ModeDetail:
		// No overlay for these modes
	case ModeConfirm:
		b.WriteString("\n")
		b.WriteString(m.viewConfirmDialog())
	case ModeInputTitle, ModeInputDesc:
		b.WriteString("\n")
		b.WriteString(m.viewNewTaskDialog())
	case ModeMove:
		b.WriteString("\n")
		b.WriteString(m.viewMovePicker())
	}

	b.WriteString("\n")
	b.WriteString(m.viewFooter())

	return b.String()
}

// viewHeader renders the title, the layout and the task count.
func (m *Model) viewHeader() string {
	title := m.styles.HeaderText.Render("ZenTasks") + " " +
		lipgloss.NewStyle().Foreground(Colors.Muted).Render("· "+m.layout.String())

	scope := "open"
	if m.showAll {
		scope = "all"
	}
	countText := fmt.Sprintf("showing %d of %d %s tasks", len(m.visibleTasks()), len(m.tasks), scope)
	rightText := lipgloss.NewStyle().Foreground(Colors.Muted).Render(countText)

	headerWidth := m.width - 6
	if headerWidth < 40 {
		headerWidth = 40
	}
	spacing := headerWidth - lipgloss.Width(title) - lipgloss.Width(rightText)
	if spacing < 1 {
		spacing = 1
	}

	return m.styles.Header.Render(title + strings.Repeat(" ", spacing) + rightText)
}

// viewTaskList renders the flat task list.
func (m *Model) viewTaskList() string {
	if len(m.taskList.Items()) == 0 {
		return m.viewEmptyState()
	}
	return m.taskList.View()
}

func (m *Model) viewEmptyState() string {
	if m.loading {
		return m.styles.Footer.Render("Loading tasks...")
	}
	if m.filterInput.Value() != "" {
		return m.styles.Footer.Render("No tasks match the filter.")
	}
	return m.styles.Footer.Render("No tasks yet. Press ") +
		m.styles.FooterKey.Render("n") +
		m.styles.Footer.Render(" to create one.")
}

// viewMatrix renders the four quadrants as a 2x2 grid.
func (m *Model) viewMatrix() string {
	grouped := m.quadrantTasks()
	quadrants := domain.AllQuadrants()

	cellWidth := (m.width - 6) / 2
	if cellWidth < 24 {
		cellWidth = 24
	}
	cellHeight := (m.height - 12) / 2
	if cellHeight < 4 {
		cellHeight = 4
	}

	cells := make([]string, len(quadrants))
	for i, q := range quadrants {
		cells[i] = m.renderCell(i, q, grouped[q], cellWidth, cellHeight)
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, cells[0], cells[1])
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, cells[2], cells[3])
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

// renderCell renders one quadrant box. Only the focused cell shows a cursor.
func (m *Model) renderCell(index int, q domain.Quadrant, tasks []*domain.Task, width, height int) string {
	focused := index == m.focus
	style := m.styles.Cell
	if focused {
		style = m.styles.CellFocused
	}
	inner := width - 4 // border and padding

	lines := []string{
		m.styles.CellTitle.Foreground(QuadrantColor(q)).Render(fmt.Sprintf("%s (%d)", q.Display(), len(tasks))),
		m.styles.CellHint.Render(q.Hint()),
	}

	rows := height - len(lines)
	start := 0
	if focused && m.cellCursor[index] >= rows {
		start = m.cellCursor[index] - rows + 1
	}
	now := m.container.Clock.Now()
	for i := start; i < len(tasks) && i < start+rows; i++ {
		task := tasks[i]
		cursor := "  "
		titleStyle := m.styles.TaskTitle
		if focused && i == m.cellCursor[index] {
			cursor = m.styles.SelectionIndicator.Render("> ")
			titleStyle = m.styles.TaskTitleSelected
		}
		title := escapeNewlines(task.Title)
		due, overdue := dueLabel(task, now)
		maxTitle := inner - 4 - runewidth.StringWidth(due)
		if maxTitle < 5 {
			maxTitle = 5
		}
		if runewidth.StringWidth(title) > maxTitle {
			title = runewidth.Truncate(title, maxTitle, "…")
		}
		line := cursor + m.styles.StatusStyle(task.Status).Render(StatusIcon(task.Status)) + " " + titleStyle.Render(title)
		if due != "" {
			dueStyle := m.styles.TaskDue
			if overdue {
				dueStyle = m.styles.TaskOverdue
			}
			line += " " + dueStyle.Render(due)
		}
		lines = append(lines, line)
	}
	if len(tasks) == 0 {
		lines = append(lines, m.styles.Footer.Render("  (empty)"))
	}

	return style.Width(inner).Height(height).Render(strings.Join(lines, "\n"))
}

// viewConfirmDialog renders the delete confirmation.
func (m *Model) viewConfirmDialog() string {
	if m.confirmAction != ActionDelete {
		return ""
	}

	title := m.styles.DialogTitle.Foreground(Colors.Error).Render(fmt.Sprintf("Delete task %s?", m.confirmTaskID))
	prompt := m.styles.Footer.Render("This action cannot be undone.")
	buttons := lipgloss.JoinHorizontal(lipgloss.Left,
		m.styles.FooterKey.Render("[ y ] Confirm"), "  ", m.styles.Footer.Render("[ n ] Cancel"))

	content := lipgloss.JoinVertical(lipgloss.Left, title, "", prompt, "", buttons)
	return m.styles.Dialog.BorderForeground(Colors.Error).Render(content)
}

// viewNewTaskDialog renders the title and description inputs.
func (m *Model) viewNewTaskDialog() string {
	q := m.focusedQuadrant()
	title := m.styles.DialogTitle.Render("New Task")
	target := m.styles.Footer.Render("Quadrant: ") + m.styles.QuadrantStyle(q).Render(q.Display())

	var step string
	if m.mode == ModeInputTitle {
		step = m.styles.InputPrompt.Render("Title: ") + m.titleInput.View()
	} else {
		step = m.styles.Footer.Render("Title: "+m.titleInput.Value()) + "\n" +
			m.styles.InputPrompt.Render("Description: ") + m.descInput.View()
	}
	hint := m.styles.Footer.Render("enter next · tab change quadrant · esc cancel")
	if m.inflight[ActionCreate] {
		hint = m.styles.Busy.Render("creating...")
	}

	return m.styles.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left, title, target, "", step, "", hint))
}

// viewMovePicker renders the quadrant choices for a move.
func (m *Model) viewMovePicker() string {
	var b strings.Builder
	b.WriteString(m.styles.DialogTitle.Render("Move to quadrant"))
	b.WriteString("\n\n")
	for i, q := range domain.AllQuadrants() {
		cursor := "  "
		if i == m.movePick {
			cursor = m.styles.SelectionIndicator.Render("> ")
		}
		fmt.Fprintf(&b, "%s%s  %s\n", cursor, m.styles.QuadrantStyle(q).Render(fmt.Sprintf("%-9s", q)), m.styles.CellHint.Render(q.Hint()))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("enter move · esc cancel"))
	return m.styles.Dialog.Render(b.String())
}

// viewFooter renders key hints and the in-flight indicator.
func (m *Model) viewFooter() string {
	switch m.mode {
	case ModeNormal:
		footer := m.help.ShortHelpView(m.keys.ShortHelp())
		if busy := m.busyText(); busy != "" {
			footer += "  " + m.styles.Busy.Render(busy)
		}
		return m.styles.Footer.Render(footer)
	case ModeFilter:
		return m.styles.Footer.Render("enter apply · esc cancel")
	case ModeConfirm, ModeInputTitle, ModeInputDesc, ModeMove, ModeHelp, ModeDetail:
		// Hints are shown in the dialogs/views themselves
		return ""
	}
	return ""
}

// busyText lists the requests in flight, e.g. "loading, move...".
func (m *Model) busyText() string {
	var parts []string
	if m.loading {
		parts = append(parts, "loading")
	}
	for action, on := range m.inflight {
		if on {
			parts = append(parts, action.String())
		}
	}
	if len(parts) == 0 {
		return ""
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ") + "..."
}

// viewHelp renders the full key reference.
func (m *Model) viewHelp() string {
	title := m.styles.HeaderText.Render("KEYBOARD SHORTCUTS")
	m.help.ShowAll = true
	content := m.help.View(m.keys)
	m.help.ShowAll = false

	return m.styles.Dialog.
		BorderForeground(Colors.Primary).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content, "", m.styles.Footer.Render("any key to close")))
}

// viewDetail renders every field of the selected task.
func (m *Model) viewDetail() string {
	task := m.SelectedTask()
	if task == nil {
		return "No task selected"
	}

	width := m.width - 12
	if width < 40 {
		width = 40
	}

	now := m.container.Clock.Now()
	q := task.Quadrant()
	field := func(label, value string) string {
		return m.styles.DetailLabel.Render(label) + m.styles.DetailValue.Render(value)
	}

	due := "-"
	if label, overdue := dueLabel(task, now); label != "" {
		due = task.DueDate.Format(domain.DateLayout)
		if overdue {
			due += " " + m.styles.TaskOverdue.Render("overdue")
		}
	}

	lines := []string{
		m.styles.DetailTitle.Render("Task " + task.ID),
		m.styles.TaskTitleSelected.Width(width).Render(task.Title),
		"",
		m.styles.DetailLabel.Render("Status") + m.styles.StatusStyle(task.Status).Render(StatusIcon(task.Status)+" "+task.Status.Display()),
		m.styles.DetailLabel.Render("Quadrant") + m.styles.QuadrantStyle(q).Render(q.Display()) + " " + m.styles.CellHint.Render(q.Hint()),
		field("Urgent", yesNo(task.IsUrgent)),
		field("Important", yesNo(task.IsImportant)),
		field("Due", due),
	}
	if !task.CreatedAt.IsZero() {
		lines = append(lines, field("Created", task.CreatedAt.Local().Format("2006-01-02 15:04")))
	}
	if !task.UpdatedAt.IsZero() {
		lines = append(lines, field("Updated", task.UpdatedAt.Local().Format("2006-01-02 15:04")))
	}
	if task.Description != "" {
		lines = append(lines, "", lipgloss.NewStyle().Width(width).Render(task.Description))
	}
	lines = append(lines, "", m.styles.Footer.Render("s next status · esc back"))

	return m.styles.Dialog.Render(strings.Join(lines, "\n"))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

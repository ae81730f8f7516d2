package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/zentasks/zentasks/internal/domain"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	// Base colors
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Background lipgloss.Color

	// Title/text colors
	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color
	DescNormal    lipgloss.Color

	// Status colors
	Created    lipgloss.Color
	InProgress lipgloss.Color
	Completed  lipgloss.Color
	Cancelled  lipgloss.Color

	// Quadrant colors
	DoNow     lipgloss.Color
	Schedule  lipgloss.Color
	Delegate  lipgloss.Color
	Eliminate lipgloss.Color
}{
	Primary:    lipgloss.Color("#6C5CE7"), // Purple
	Secondary:  lipgloss.Color("#A29BFE"), // Lavender
	Muted:      lipgloss.Color("#636E72"), // Gray
	Error:      lipgloss.Color("#D63031"), // Red
	Success:    lipgloss.Color("#00B894"), // Green
	Warning:    lipgloss.Color("#FDCB6E"), // Yellow
	Background: lipgloss.Color("#2D3436"), // Dark gray

	TitleNormal:   lipgloss.Color("#DFE6E9"), // Light gray
	TitleSelected: lipgloss.Color("#FFEAA7"), // Yellow (selected)
	DescNormal:    lipgloss.Color("#636E72"), // Gray

	Created:    lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Completed:  lipgloss.Color("#00B894"), // Green
	Cancelled:  lipgloss.Color("#636E72"), // Gray

	DoNow:     lipgloss.Color("#D63031"), // Red
	Schedule:  lipgloss.Color("#0984E3"), // Blue
	Delegate:  lipgloss.Color("#E17055"), // Orange
	Eliminate: lipgloss.Color("#636E72"), // Gray
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	// App
	App lipgloss.Style

	// Header
	Header     lipgloss.Style
	HeaderText lipgloss.Style

	// Task list
	TaskSelected       lipgloss.Style
	TaskID             lipgloss.Style
	TaskTitle          lipgloss.Style
	TaskTitleSelected  lipgloss.Style
	TaskDesc           lipgloss.Style
	TaskDue            lipgloss.Style
	TaskOverdue        lipgloss.Style
	SelectionIndicator lipgloss.Style

	// Matrix
	Cell        lipgloss.Style
	CellFocused lipgloss.Style
	CellTitle   lipgloss.Style
	CellHint    lipgloss.Style

	// Detail
	DetailTitle lipgloss.Style
	DetailLabel lipgloss.Style
	DetailValue lipgloss.Style

	// Dialogs
	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style
	InputPrompt lipgloss.Style

	// Footer
	Footer    lipgloss.Style
	FooterKey lipgloss.Style
	Busy      lipgloss.Style

	// Messages
	ErrorMsg lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().Padding(1, 2),

		Header: lipgloss.NewStyle().
			MarginBottom(1),
		HeaderText: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		TaskSelected: lipgloss.NewStyle().
			Background(Colors.Background),
		TaskID: lipgloss.NewStyle().
			Foreground(Colors.Muted),
		TaskTitle: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),
		TaskTitleSelected: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),
		TaskDesc: lipgloss.NewStyle().
			Foreground(Colors.DescNormal),
		TaskDue: lipgloss.NewStyle().
			Foreground(Colors.Secondary),
		TaskOverdue: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),
		SelectionIndicator: lipgloss.NewStyle().
			Foreground(Colors.Primary),

		Cell: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Muted).
			Padding(0, 1),
		CellFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary).
			Padding(0, 1),
		CellTitle: lipgloss.NewStyle().
			Bold(true),
		CellHint: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Italic(true),

		DetailTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary).
			MarginBottom(1),
		DetailLabel: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Width(12),
		DetailValue: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary).
			Padding(1, 2),
		DialogTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),
		InputPrompt: lipgloss.NewStyle().
			Foreground(Colors.Secondary).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted),
		FooterKey: lipgloss.NewStyle().
			Foreground(Colors.Secondary).
			Bold(true),
		Busy: lipgloss.NewStyle().
			Foreground(Colors.Warning),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),
	}
}

// StatusStyle returns the style for a given status.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	base := lipgloss.NewStyle()
	switch status.Normalize() {
	case domain.StatusCreated:
		return base.Foreground(Colors.Created)
	case domain.StatusInProgress:
		return base.Foreground(Colors.InProgress)
	case domain.StatusCompleted:
		return base.Foreground(Colors.Completed)
	case domain.StatusCancelled:
		return base.Foreground(Colors.Cancelled).Strikethrough(true)
	default:
		return base.Foreground(Colors.Muted)
	}
}

// QuadrantColor returns the accent color of a quadrant.
func QuadrantColor(q domain.Quadrant) lipgloss.Color {
	switch q.Normalize() {
	case domain.QuadrantDoNow:
		return Colors.DoNow
	case domain.QuadrantSchedule:
		return Colors.Schedule
	case domain.QuadrantDelegate:
		return Colors.Delegate
	default:
		return Colors.Eliminate
	}
}

// QuadrantStyle returns the badge style for a quadrant.
func (s Styles) QuadrantStyle(q domain.Quadrant) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(QuadrantColor(q)).Bold(true)
}

// StatusIcon returns the icon for a given status.
func StatusIcon(status domain.Status) string {
	switch status.Normalize() {
	case domain.StatusCreated:
		return "○"
	case domain.StatusInProgress:
		return "◐"
	case domain.StatusCompleted:
		return "●"
	case domain.StatusCancelled:
		return "✕"
	default:
		return "?"
	}
}

// QuadrantBadge returns a short fixed-width label for a quadrant.
func QuadrantBadge(q domain.Quadrant) string {
	switch q.Normalize() {
	case domain.QuadrantDoNow:
		return "DO  "
	case domain.QuadrantSchedule:
		return "PLAN"
	case domain.QuadrantDelegate:
		return "DLGT"
	case domain.QuadrantEliminate:
		return "DROP"
	default:
		return "????"
	}
}

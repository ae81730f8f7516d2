package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the TUI.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding // Previous quadrant (matrix layout)
	Right key.Binding // Next quadrant (matrix layout)

	// Task management
	Enter     key.Binding // Show task detail
	New       key.Binding // Create new task
	Delete    key.Binding // Delete task
	Status    key.Binding // Cycle task status
	Move      key.Binding // Move task to a quadrant
	Urgent    key.Binding // Toggle urgent flag
	Important key.Binding // Toggle important flag

	// View
	Layout        key.Binding // Switch between list and matrix
	Refresh       key.Binding // Reload tasks
	Filter        key.Binding // Enter filter mode
	ToggleShowAll key.Binding // Toggle show all (including done)
	Help          key.Binding // Show help

	// General
	Quit    key.Binding // Quit application
	Escape  key.Binding // Cancel/back
	Confirm key.Binding // Confirm action (in confirm mode)
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev quadrant"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next quadrant"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "detail"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "next status"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move"),
		),
		Urgent: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "toggle urgent"),
		),
		Important: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle important"),
		),
		Layout: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "list/matrix"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		ToggleShowAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "toggle done"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
	}
}

// ShortHelp returns keybindings to show in the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.New, k.Status, k.Move, k.Layout, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Enter},                         // Navigation
		{k.New, k.Delete, k.Status, k.Move, k.Urgent, k.Important},       // Task management
		{k.Layout, k.Refresh, k.Filter, k.ToggleShowAll, k.Help, k.Quit}, // View & general
	}
}

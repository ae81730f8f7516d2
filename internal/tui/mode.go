// Package tui provides the terminal user interface for zentasks.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal     Mode = iota // Default navigation mode
	ModeFilter                 // Text filtering mode
	ModeConfirm                // Confirmation dialog mode
	ModeInputTitle             // Title input mode (for new task)
	ModeInputDesc              // Description input mode (for new task)
	ModeMove                   // Quadrant picker mode
	ModeHelp                   // Help overlay mode
	ModeDetail                 // Task detail view mode
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeFilter:
		return "filter"
	case ModeConfirm:
		return "confirm"
	case ModeInputTitle:
		return "input_title"
	case ModeInputDesc:
		return "input_desc"
	case ModeMove:
		return "move"
	case ModeHelp:
		return "help"
	case ModeDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if the mode accepts text input.
func (m Mode) IsInputMode() bool {
	switch m {
	case ModeFilter, ModeInputTitle, ModeInputDesc:
		return true
	case ModeNormal, ModeConfirm, ModeMove, ModeHelp, ModeDetail:
		return false
	}
	return false
}

// Layout selects how tasks are arranged on screen.
type Layout int

const (
	LayoutList   Layout = iota // One flat list
	LayoutMatrix               // 2x2 grid of quadrants
)

// String returns the string representation of the layout.
func (l Layout) String() string {
	switch l {
	case LayoutList:
		return "list"
	case LayoutMatrix:
		return "matrix"
	default:
		return "unknown"
	}
}

// Action identifies a mutation the user can trigger.
// At most one mutation per action is outstanding at a time.
type Action int

const (
	ActionNone   Action = iota
	ActionCreate        // Create task
	ActionStatus        // Cycle status
	ActionMove          // Move to quadrant or toggle a flag
	ActionDelete        // Delete task
)

// String returns a human-readable description of the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return ""
	case ActionCreate:
		return "create"
	case ActionStatus:
		return "status"
	case ActionMove:
		return "move"
	case ActionDelete:
		return "delete"
	}
	return ""
}

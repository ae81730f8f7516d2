package domain

import "strings"

// Status represents the lifecycle state of a task.
// The API does not validate transitions; any status may be set by an update.
type Status string

const (
	StatusCreated    Status = "CREATED"     // New task, nothing done yet
	StatusInProgress Status = "IN_PROGRESS" // Being worked on
	StatusCompleted  Status = "COMPLETED"   // Finished
	StatusCancelled  Status = "CANCELLED"   // Abandoned

	// Aliases used by some API deployments.
	statusTodoAlias Status = "TODO"
	statusDoneAlias Status = "DONE"
)

// AllStatuses returns all canonical status values.
func AllStatuses() []Status {
	return []Status{
		StatusCreated,
		StatusInProgress,
		StatusCompleted,
		StatusCancelled,
	}
}

// ParseStatus parses a status string, accepting the TODO and DONE aliases.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	st = st.Normalize()
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Normalize maps alias values to their canonical status.
func (s Status) Normalize() Status {
	switch s {
	case statusTodoAlias:
		return StatusCreated
	case statusDoneAlias:
		return StatusCompleted
	default:
		return s
	}
}

// IsValid returns true if the status is a known canonical value.
func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further work is expected on the task.
func (s Status) IsTerminal() bool {
	s = s.Normalize()
	return s == StatusCompleted || s == StatusCancelled
}

// Next returns the status that follows s when cycling through statuses.
func (s Status) Next() Status {
	all := AllStatuses()
	for i, st := range all {
		if st == s.Normalize() {
			return all[(i+1)%len(all)]
		}
	}
	return StatusCreated
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s.Normalize() {
	case StatusCreated:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

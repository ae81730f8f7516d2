// Package domain contains core business entities and interfaces.
package domain

import (
	"strings"
	"time"
)

// Task represents one user-owned to-do item as returned by the API.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt   time.Time  `json:"createdAt"`         // Server-assigned
	UpdatedAt   time.Time  `json:"updatedAt"`         // Server-assigned
	DueDate     *time.Time `json:"dueDate,omitempty"` // Optional due date
	ID          string     `json:"id"`                // Server-assigned, immutable
	Title       string     `json:"title"`
	Description string     `json:"description"`
	UserID      string     `json:"userId,omitempty"`
	Status      Status     `json:"taskStatus"`
	IsUrgent    bool       `json:"isUrgent"`
	IsImportant bool       `json:"isImportant"`
}

// Quadrant returns the Eisenhower bucket derived from the task's flags.
// It is never stored, so it cannot drift from IsUrgent/IsImportant.
func (t *Task) Quadrant() Quadrant {
	return Classify(t.IsUrgent, t.IsImportant)
}

// IsDone returns true if the task is completed or cancelled.
func (t *Task) IsDone() bool {
	return t.Status.IsTerminal()
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}

// CloneTasks deep-copies a task slice. A nil input yields an empty slice.
func CloneTasks(tasks []*Task) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Clone())
	}
	return out
}

// TaskFilter specifies criteria for listing tasks.
// Unset (nil/empty) fields impose no constraint; set fields are ANDed.
type TaskFilter struct {
	Status      *Status
	Quadrant    *Quadrant
	IsUrgent    *bool
	IsImportant *bool
	Search      string
}

// IsEmpty returns true if no criteria are set.
func (f TaskFilter) IsEmpty() bool {
	return f.Status == nil && f.Quadrant == nil && f.IsUrgent == nil && f.IsImportant == nil &&
		strings.TrimSpace(f.Search) == ""
}

// Matches reports whether the task satisfies every set criterion.
func (f TaskFilter) Matches(t *Task) bool {
	if t == nil {
		return false
	}
	if f.Status != nil && t.Status.Normalize() != f.Status.Normalize() {
		return false
	}
	if f.Quadrant != nil && t.Quadrant() != f.Quadrant.Normalize() {
		return false
	}
	if f.IsUrgent != nil && t.IsUrgent != *f.IsUrgent {
		return false
	}
	if f.IsImportant != nil && t.IsImportant != *f.IsImportant {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}

// Apply returns the tasks that match the filter, preserving order.
func (f TaskFilter) Apply(tasks []*Task) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Key returns a stable string identifying the filter, used as a cache key.
func (f TaskFilter) Key() string {
	var parts []string
	if f.Status != nil {
		parts = append(parts, "status="+string(f.Status.Normalize()))
	}
	if f.Quadrant != nil {
		parts = append(parts, "quadrant="+string(f.Quadrant.Normalize()))
	}
	if f.IsUrgent != nil {
		parts = append(parts, "urgent="+boolString(*f.IsUrgent))
	}
	if f.IsImportant != nil {
		parts = append(parts, "important="+boolString(*f.IsImportant))
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		parts = append(parts, "search="+s)
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, "&")
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// NewTaskInput holds the fields sent when creating a task.
type NewTaskInput struct {
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Title       string     `json:"title" validate:"required,min=3,max=300"`
	Description string     `json:"description" validate:"required,min=3,max=1000"`
	IsUrgent    bool       `json:"isUrgent"`
	IsImportant bool       `json:"isImportant"`
}

// TaskPatch is a sparse update. Nil fields are left untouched by the server.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=3,max=300"`
	Description *string    `json:"description,omitempty" validate:"omitempty,min=3,max=1000"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	IsUrgent    *bool      `json:"isUrgent,omitempty"`
	IsImportant *bool      `json:"isImportant,omitempty"`
	Status      *Status    `json:"taskStatus,omitempty"`
}

// IsEmpty returns true if the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.IsUrgent == nil && p.IsImportant == nil && p.Status == nil
}

// ApplyTo returns a copy of t with the patch applied.
func (p TaskPatch) ApplyTo(t *Task) *Task {
	c := t.Clone()
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.DueDate != nil {
		d := *p.DueDate
		c.DueDate = &d
	}
	if p.IsUrgent != nil {
		c.IsUrgent = *p.IsUrgent
	}
	if p.IsImportant != nil {
		c.IsImportant = *p.IsImportant
	}
	if p.Status != nil {
		c.Status = p.Status.Normalize()
	}
	return c
}

// MovePatch returns the patch that places a task in quadrant q.
// Both flags are always set together so the quadrant stays derived.
func MovePatch(q Quadrant) TaskPatch {
	urgent, important := q.Flags()
	return TaskPatch{IsUrgent: &urgent, IsImportant: &important}
}

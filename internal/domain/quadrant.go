package domain

import "strings"

// Quadrant is one of the four Eisenhower matrix buckets.
// It is always derived from a task's urgency and importance flags.
type Quadrant string

const (
	QuadrantDoNow     Quadrant = "DO_NOW"    // Urgent and important
	QuadrantSchedule  Quadrant = "SCHEDULE"  // Important, not urgent
	QuadrantDelegate  Quadrant = "DELEGATE"  // Urgent, not important
	QuadrantEliminate Quadrant = "ELIMINATE" // Neither

	quadrantDoFirstAlias Quadrant = "DO_FIRST"
)

// AllQuadrants returns the quadrants in matrix reading order
// (top-left, top-right, bottom-left, bottom-right).
func AllQuadrants() []Quadrant {
	return []Quadrant{
		QuadrantDoNow,
		QuadrantSchedule,
		QuadrantDelegate,
		QuadrantEliminate,
	}
}

// Classify maps urgency and importance to a quadrant.
// It is total over its inputs and has no side effects.
func Classify(isUrgent, isImportant bool) Quadrant {
	switch {
	case isUrgent && isImportant:
		return QuadrantDoNow
	case isImportant:
		return QuadrantSchedule
	case isUrgent:
		return QuadrantDelegate
	default:
		return QuadrantEliminate
	}
}

// Flags returns the urgency and importance flags that classify into q.
// Classify(q.Flags()) == q for every valid quadrant.
func (q Quadrant) Flags() (isUrgent, isImportant bool) {
	switch q.Normalize() {
	case QuadrantDoNow:
		return true, true
	case QuadrantSchedule:
		return false, true
	case QuadrantDelegate:
		return true, false
	default:
		return false, false
	}
}

// ParseQuadrant parses a quadrant string, accepting DO_FIRST as an alias of DO_NOW.
// Dashes and spaces are treated as underscores.
func ParseQuadrant(s string) (Quadrant, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	q := Quadrant(s).Normalize()
	if !q.IsValid() {
		return "", ErrInvalidQuadrant
	}
	return q, nil
}

// Normalize maps alias values to their canonical quadrant.
func (q Quadrant) Normalize() Quadrant {
	if q == quadrantDoFirstAlias {
		return QuadrantDoNow
	}
	return q
}

// IsValid returns true if the quadrant is a known canonical value.
func (q Quadrant) IsValid() bool {
	switch q {
	case QuadrantDoNow, QuadrantSchedule, QuadrantDelegate, QuadrantEliminate:
		return true
	default:
		return false
	}
}

// Display returns the matrix heading for the quadrant.
func (q Quadrant) Display() string {
	switch q.Normalize() {
	case QuadrantDoNow:
		return "Do Now"
	case QuadrantSchedule:
		return "Schedule"
	case QuadrantDelegate:
		return "Delegate"
	case QuadrantEliminate:
		return "Eliminate"
	default:
		return string(q)
	}
}

// Hint returns the one-line meaning of the quadrant.
func (q Quadrant) Hint() string {
	switch q.Normalize() {
	case QuadrantDoNow:
		return "urgent & important: act immediately"
	case QuadrantSchedule:
		return "important, not urgent: plan for later"
	case QuadrantDelegate:
		return "urgent, not important: hand off"
	case QuadrantEliminate:
		return "neither: discard or deprioritize"
	default:
		return ""
	}
}

// GroupByQuadrant buckets tasks by their derived quadrant.
// Every quadrant has an entry, possibly empty; input order is preserved within a bucket.
func GroupByQuadrant(tasks []*Task) map[Quadrant][]*Task {
	groups := make(map[Quadrant][]*Task, 4)
	for _, q := range AllQuadrants() {
		groups[q] = []*Task{}
	}
	for _, t := range tasks {
		if t == nil {
			continue
		}
		q := t.Quadrant()
		groups[q] = append(groups[q], t)
	}
	return groups
}

package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Draft parsing errors.
var (
	ErrEmptyFile     = errors.New("file is empty")
	ErrNoTasksInFile = errors.New("no tasks found in file")
	ErrEmptyTitle    = errors.New("task title is required")
)

// TaskDraft represents a task read from a Markdown file with frontmatter.
// Unset optional fields are nil or empty.
// Fields are ordered to minimize memory padding.
type TaskDraft struct {
	DueDate     *time.Time
	IsUrgent    *bool
	IsImportant *bool
	Title       string
	Description string
	Quadrant    Quadrant
	Status      Status
}

// ParseTaskDrafts parses a markdown file containing one or more task definitions.
// Tasks are separated by frontmatter blocks starting with "---".
//
// Format:
//
//	---
//	title: Task Title
//	quadrant: schedule
//	due: 2026-03-14
//	---
//	Task description here.
//
//	---
//	title: Second Task
//	urgent: true
//	important: false
//	---
//	Second task description.
//
// "urgent" and "important" take precedence over "quadrant" when both are given.
func ParseTaskDrafts(content string) ([]TaskDraft, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyFile
	}

	blocks := splitTaskBlocks(content)
	if len(blocks) == 0 {
		return nil, ErrNoTasksInFile
	}

	drafts := make([]TaskDraft, 0, len(blocks))
	for i, block := range blocks {
		draft, err := parseTaskBlock(block)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// ParseSingleTaskDraft parses a file that must hold exactly one task.
func ParseSingleTaskDraft(content string) (TaskDraft, error) {
	drafts, err := ParseTaskDrafts(content)
	if err != nil {
		return TaskDraft{}, err
	}
	if len(drafts) != 1 {
		return TaskDraft{}, fmt.Errorf("expected 1 task, found %d", len(drafts))
	}
	return drafts[0], nil
}

// splitTaskBlocks splits content into separate task blocks.
// Each block starts with "---" on a new line.
func splitTaskBlocks(content string) []string {
	var blocks []string
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	inBlock := false
	var current []string

	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			switch {
			case !inBlock:
				inBlock = true
				current = []string{}
			case len(current) == 0:
				current = append(current, "---")
			case i+1 < len(lines) && isFrontmatterKey(lines[i+1]):
				// A new task starts here.
				blocks = append(blocks, strings.Join(current, "\n"))
				current = []string{}
			default:
				// Horizontal rule inside a description.
				current = append(current, line)
			}
			continue
		}
		if inBlock {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		blocks = append(blocks, strings.Join(current, "\n"))
	}
	return blocks
}

var frontmatterKeys = []string{"title", "quadrant", "urgent", "important", "status", "due"}

// isFrontmatterKey checks if a line looks like a frontmatter key.
func isFrontmatterKey(line string) bool {
	key, _, ok := strings.Cut(line, ":")
	if !ok {
		return false
	}
	key = strings.ToLower(strings.TrimSpace(key))
	for _, k := range frontmatterKeys {
		if key == k {
			return true
		}
	}
	return false
}

// parseTaskBlock parses a single task block: frontmatter lines, "---", description.
func parseTaskBlock(block string) (TaskDraft, error) {
	lines := strings.Split(block, "\n")
	var draft TaskDraft
	end := len(lines)

	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			end = i
			break
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if err := draft.set(strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value)); err != nil {
			return TaskDraft{}, err
		}
	}

	if draft.Title == "" {
		return TaskDraft{}, ErrEmptyTitle
	}
	if end < len(lines) {
		draft.Description = strings.TrimSpace(strings.Join(lines[end+1:], "\n"))
	}
	return draft, nil
}

func (d *TaskDraft) set(key, value string) error {
	switch key {
	case "title":
		d.Title = unquote(value)
	case "quadrant":
		if value == "" {
			return nil
		}
		q, err := ParseQuadrant(value)
		if err != nil {
			return fmt.Errorf("quadrant %q: %w", value, err)
		}
		d.Quadrant = q
	case "status":
		if value == "" {
			return nil
		}
		s, err := ParseStatus(value)
		if err != nil {
			return fmt.Errorf("status %q: %w", value, err)
		}
		d.Status = s
	case "urgent", "important":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s %q: must be true or false", key, value)
		}
		if key == "urgent" {
			d.IsUrgent = &b
		} else {
			d.IsImportant = &b
		}
	case "due":
		if value == "" || value == "-" {
			return nil
		}
		due, err := time.ParseInLocation(DateLayout, unquote(value), time.Local)
		if err != nil {
			return fmt.Errorf("due %q: use YYYY-MM-DD", value)
		}
		d.DueDate = &due
	}
	return nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

// Flags resolves the draft's urgency and importance.
// Explicit flags win over the quadrant; missing values default to false.
func (d TaskDraft) Flags() (isUrgent, isImportant bool) {
	if d.Quadrant != "" {
		isUrgent, isImportant = d.Quadrant.Flags()
	}
	if d.IsUrgent != nil {
		isUrgent = *d.IsUrgent
	}
	if d.IsImportant != nil {
		isImportant = *d.IsImportant
	}
	return isUrgent, isImportant
}

// NewTaskInput converts the draft into a create request.
func (d TaskDraft) NewTaskInput() NewTaskInput {
	urgent, important := d.Flags()
	return NewTaskInput{
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		IsUrgent:    urgent,
		IsImportant: important,
	}
}

// PatchFor returns the sparse patch that turns t into the draft.
// Only fields that differ from t are set.
func (d TaskDraft) PatchFor(t *Task) TaskPatch {
	var p TaskPatch
	if d.Title != t.Title {
		title := d.Title
		p.Title = &title
	}
	if d.Description != t.Description {
		desc := d.Description
		p.Description = &desc
	}
	if d.DueDate != nil && (t.DueDate == nil || d.DueDate.Format(DateLayout) != t.DueDate.Format(DateLayout)) {
		due := *d.DueDate
		p.DueDate = &due
	}
	if d.Status != "" && d.Status.Normalize() != t.Status.Normalize() {
		status := d.Status.Normalize()
		p.Status = &status
	}
	if d.Quadrant != "" || d.IsUrgent != nil || d.IsImportant != nil {
		urgent, important := d.Flags()
		if urgent != t.IsUrgent || important != t.IsImportant {
			p.IsUrgent = &urgent
			p.IsImportant = &important
		}
	}
	return p
}

// ToMarkdown renders the task in the draft file format.
func (t *Task) ToMarkdown() string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", t.Title)
	fmt.Fprintf(&b, "quadrant: %s\n", t.Quadrant())
	fmt.Fprintf(&b, "status: %s\n", t.Status.Normalize())
	if t.DueDate != nil {
		fmt.Fprintf(&b, "due: %s\n", t.DueDate.Format(DateLayout))
	}
	b.WriteString("---\n")
	if t.Description != "" {
		b.WriteString(t.Description)
		b.WriteString("\n")
	}
	return b.String()
}

package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zentasks/zentasks/internal/domain"
)

func TestView_BeforeWindowSize(t *testing.T) {
	m := New(nil)

	assert.Equal(t, "Loading...", m.View())
}

func TestView_Matrix(t *testing.T) {
	m, _ := loaded(t, sampleTasks()...)

	out := m.View()

	for _, q := range domain.AllQuadrants() {
		assert.Contains(t, out, q.Display())
	}
	assert.Contains(t, out, "Fix outage")
	assert.Contains(t, out, "Write report")
	assert.NotContains(t, out, "Sort drawer")
	assert.Contains(t, out, "showing 3 of 3 open tasks")
	assert.Contains(t, out, "(empty)")
}

func TestView_List(t *testing.T) {
	m, _ := loaded(t, sampleTasks()...)
	press(m, "tab")

	out := m.View()

	assert.Contains(t, out, "· list")
	assert.Contains(t, out, "t1")
	assert.Contains(t, out, "Answer email")
	assert.Contains(t, out, "from vendor")
}

func TestView_EmptyList(t *testing.T) {
	m, _ := loaded(t)
	press(m, "tab")

	assert.Contains(t, m.View(), "No tasks yet")
}

func TestView_Help(t *testing.T) {
	m, _ := loaded(t)

	press(m, "?")
	out := m.View()

	assert.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, out, "KEYBOARD SHORTCUTS")
	assert.Contains(t, out, "next status")

	press(m, "x")
	assert.Equal(t, ModeNormal, m.mode)
}

func TestView_Detail(t *testing.T) {
	due := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	m, _ := loaded(t, &domain.Task{
		ID: "t9", Title: "Pay invoice", Description: "ACME Ltd", IsUrgent: true, IsImportant: true, DueDate: &due,
	})

	press(m, "enter")
	out := m.View()

	assert.Contains(t, out, "Task t9")
	assert.Contains(t, out, "Pay invoice")
	assert.Contains(t, out, "Do Now")
	assert.Contains(t, out, "2026-03-09")
	assert.Contains(t, out, "overdue")
	assert.Contains(t, out, "ACME Ltd")
}

func TestView_MovePicker(t *testing.T) {
	m, _ := loaded(t, sampleTasks()...)

	press(m, "m")
	out := m.View()

	assert.Contains(t, out, "Move to quadrant")
	assert.Contains(t, out, "ELIMINATE")
}

func TestView_NewTaskDialog(t *testing.T) {
	m, _ := loaded(t)

	press(m, "n")
	press(m, "tab")

	out := m.View()
	assert.Contains(t, out, "New Task")
	assert.Contains(t, out, "Quadrant: Schedule")
}

func TestView_BusyIndicator(t *testing.T) {
	m, _ := loaded(t, sampleTasks()...)

	press(m, "s")

	footer := m.viewFooter()
	assert.True(t, strings.Contains(footer, "status..."), footer)
}

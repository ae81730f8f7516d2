package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zentasks/zentasks/internal/domain"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayoutSizes()
		return m, nil

	case MsgTasksLoaded:
		m.loading = false
		m.tasks = msg.Tasks
		m.updateTaskList()
		return m, nil

	case MsgTaskCreated:
		delete(m.inflight, ActionCreate)
		m.mode = ModeNormal
		m.titleInput.Reset()
		m.descInput.Reset()
		m.focusQuadrant(msg.Task.Quadrant())
		return m, m.loadTasks()

	case MsgTaskUpdated:
		delete(m.inflight, msg.Action)
		if msg.Action == ActionMove && msg.Task != nil {
			m.focusQuadrant(msg.Task.Quadrant())
		}
		return m, m.loadTasks()

	case MsgTaskDeleted:
		delete(m.inflight, ActionDelete)
		m.mode = ModeNormal
		m.confirmAction = ActionNone
		m.confirmTaskID = ""
		return m, m.loadTasks()

	case MsgError:
		if msg.Action == ActionNone {
			m.loading = false
		} else {
			delete(m.inflight, msg.Action)
		}
		m.err = msg.Err
		m.mode = ModeNormal
		m.confirmAction = ActionNone
		return m, nil

	case MsgClearError:
		m.err = nil
		return m, nil
	}

	return m, nil
}

// focusQuadrant moves matrix focus to q.
func (m *Model) focusQuadrant(q domain.Quadrant) {
	for i, candidate := range domain.AllQuadrants() {
		if candidate == q {
			m.focus = i
			return
		}
	}
}

// handleKeyMsg handles keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear error on any key press
	if m.err != nil {
		m.err = nil
	}

	switch m.mode {
	case ModeNormal:
		return m.handleNormalMode(msg)
	case ModeFilter:
		return m.handleFilterMode(msg)
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeInputTitle:
		return m.handleInputTitleMode(msg)
	case ModeInputDesc:
		return m.handleInputDescMode(msg)
	case ModeMove:
		return m.handleMoveMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	case ModeDetail:
		return m.handleDetailMode(msg)
	}

	return m, nil
}

// handleNormalMode handles keys in normal mode.
func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.layout == LayoutMatrix {
			m.focus = (m.focus + 3) % 4
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.layout == LayoutMatrix {
			m.focus = (m.focus + 1) % 4
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if m.SelectedTask() == nil {
			return m, nil
		}
		m.mode = ModeDetail
		return m, nil

	case key.Matches(msg, m.keys.New):
		if m.inflight[ActionCreate] {
			return m, nil
		}
		m.mode = ModeInputTitle
		m.titleInput.Focus()
		m.descInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		task := m.SelectedTask()
		if task == nil || m.inflight[ActionDelete] {
			return m, nil
		}
		m.mode = ModeConfirm
		m.confirmAction = ActionDelete
		m.confirmTaskID = task.ID
		return m, nil

	case key.Matches(msg, m.keys.Status):
		task := m.SelectedTask()
		if task == nil {
			return m, nil
		}
		return m, m.cycleStatus(task)

	case key.Matches(msg, m.keys.Move):
		task := m.SelectedTask()
		if task == nil || m.inflight[ActionMove] {
			return m, nil
		}
		m.mode = ModeMove
		m.movePick = quadrantIndex(task.Quadrant())
		return m, nil

	case key.Matches(msg, m.keys.Urgent):
		task := m.SelectedTask()
		if task == nil {
			return m, nil
		}
		return m, m.moveTask(task, domain.Classify(!task.IsUrgent, task.IsImportant))

	case key.Matches(msg, m.keys.Important):
		task := m.SelectedTask()
		if task == nil {
			return m, nil
		}
		return m, m.moveTask(task, domain.Classify(task.IsUrgent, !task.IsImportant))

	case key.Matches(msg, m.keys.Layout):
		if m.layout == LayoutMatrix {
			m.layout = LayoutList
		} else {
			m.layout = LayoutMatrix
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadTasks()

	case key.Matches(msg, m.keys.Filter):
		m.mode = ModeFilter
		m.filterInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.ToggleShowAll):
		m.showAll = !m.showAll
		return m, m.loadTasks()

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.filterInput.Value() != "" {
			m.filterInput.Reset()
			m.updateTaskList()
		}
		return m, nil
	}

	return m, nil
}

// moveCursor moves the selection by delta within the current layout.
func (m *Model) moveCursor(delta int) {
	if m.layout == LayoutList {
		if delta < 0 {
			m.taskList.CursorUp()
		} else {
			m.taskList.CursorDown()
		}
		return
	}
	n := len(m.quadrantTasks()[m.focusedQuadrant()])
	if n == 0 {
		return
	}
	i := m.cellCursor[m.focus] + delta
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	m.cellCursor[m.focus] = i
}

// quadrantIndex returns the position of q in domain.AllQuadrants.
func quadrantIndex(q domain.Quadrant) int {
	for i, candidate := range domain.AllQuadrants() {
		if candidate == q.Normalize() {
			return i
		}
	}
	return 0
}

// handleFilterMode handles keys in filter mode.
func (m *Model) handleFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ModeNormal
		m.filterInput.Blur()
		m.filterInput.Reset()
		m.updateTaskList()
		return m, nil
	case msg.Type == tea.KeyEnter:
		m.mode = ModeNormal
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.updateTaskList()
	return m, cmd
}

// handleConfirmMode handles keys in confirmation mode.
func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Confirm) && m.confirmAction == ActionDelete {
		m.mode = ModeNormal
		m.confirmAction = ActionNone
		return m, m.deleteTask(m.confirmTaskID)
	}

	// Any other key cancels
	m.mode = ModeNormal
	m.confirmAction = ActionNone
	m.confirmTaskID = ""
	return m, nil
}

// handleInputTitleMode handles keys while typing a new task title.
func (m *Model) handleInputTitleMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.cancelNewTask()
		return m, nil
	case msg.Type == tea.KeyTab:
		m.focus = (m.focus + 1) % 4
		return m, nil
	case msg.Type == tea.KeyEnter:
		if strings.TrimSpace(m.titleInput.Value()) == "" {
			return m, nil
		}
		m.mode = ModeInputDesc
		m.titleInput.Blur()
		m.descInput.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

// handleInputDescMode handles keys while typing a new task description.
func (m *Model) handleInputDescMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.cancelNewTask()
		return m, nil
	case msg.Type == tea.KeyTab:
		m.focus = (m.focus + 1) % 4
		return m, nil
	case msg.Type == tea.KeyEnter:
		m.descInput.Blur()
		return m, m.createTask(
			strings.TrimSpace(m.titleInput.Value()),
			strings.TrimSpace(m.descInput.Value()),
			m.focusedQuadrant(),
		)
	}

	var cmd tea.Cmd
	m.descInput, cmd = m.descInput.Update(msg)
	return m, cmd
}

func (m *Model) cancelNewTask() {
	m.mode = ModeNormal
	m.titleInput.Blur()
	m.descInput.Blur()
	m.titleInput.Reset()
	m.descInput.Reset()
}

// handleMoveMode handles keys in the quadrant picker.
func (m *Model) handleMoveMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ModeNormal
		return m, nil
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Left):
		m.movePick = (m.movePick + 3) % 4
		return m, nil
	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.Right):
		m.movePick = (m.movePick + 1) % 4
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		m.mode = ModeNormal
		task := m.SelectedTask()
		target := domain.AllQuadrants()[m.movePick]
		if task == nil || task.Quadrant() == target {
			return m, nil
		}
		return m, m.moveTask(task, target)
	}
	return m, nil
}

// handleHelpMode handles keys in help mode.
func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.mode = ModeNormal
	return m, nil
}

// handleDetailMode handles keys in the detail view.
func (m *Model) handleDetailMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Quit):
		m.mode = ModeNormal
		return m, nil
	case key.Matches(msg, m.keys.Status):
		task := m.SelectedTask()
		if task == nil {
			return m, nil
		}
		return m, m.cycleStatus(task)
	}
	return m, nil
}

package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zentasks/zentasks/internal/app"
	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/usecase"
)

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	err       error

	// State (slices and maps)
	tasks    []*domain.Task
	inflight map[Action]bool

	// Components (structs with pointers)
	keys     KeyMap
	styles   Styles
	help     help.Model
	taskList list.Model

	// Input state (large structs)
	titleInput  textinput.Model
	descInput   textinput.Model
	filterInput textinput.Model

	confirmTaskID string

	// Matrix cursor per quadrant, in domain.AllQuadrants order
	cellCursor [4]int

	// Numeric state (smaller types last)
	mode          Mode
	layout        Layout
	confirmAction Action
	width         int
	height        int
	focus         int // Focused quadrant index (matrix layout, new-task target)
	movePick      int // Highlighted quadrant in the move picker
	loading       bool
	showAll       bool
}

// New creates a new TUI Model with the given container.
func New(c *app.Container) *Model {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 300

	di := textinput.New()
	di.Placeholder = "Task description"
	di.CharLimit = 1000

	fi := textinput.New()
	fi.Placeholder = "Filter tasks..."
	fi.CharLimit = 100

	styles := DefaultStyles()
	taskList := list.New([]list.Item{}, newTaskDelegate(styles), 0, 0)
	taskList.SetShowTitle(false)
	taskList.SetShowStatusBar(false)
	taskList.SetShowHelp(false)
	taskList.SetShowPagination(false)
	taskList.SetFilteringEnabled(false)
	taskList.DisableQuitKeybindings()

	return &Model{
		container:   c,
		inflight:    make(map[Action]bool),
		keys:        DefaultKeyMap(),
		styles:      styles,
		help:        help.New(),
		taskList:    taskList,
		titleInput:  ti,
		descInput:   di,
		filterInput: fi,
		mode:        ModeNormal,
		layout:      LayoutMatrix,
	}
}

// Run starts the TUI program and blocks until it exits.
func Run(c *app.Container) error {
	p := tea.NewProgram(New(c), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	return m.loadTasks()
}

// loadTasks returns a command that loads tasks through the cached data client.
// It returns nil while a load is already running.
func (m *Model) loadTasks() tea.Cmd {
	if m.loading {
		return nil
	}
	m.loading = true
	includeDone := m.showAll
	return func() tea.Msg {
		out, err := m.container.ListTasksUseCase().Execute(context.Background(), usecase.ListTasksInput{
			IncludeDone: includeDone,
		})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTasksLoaded{Tasks: out.Tasks}
	}
}

// mutate runs fn as a command unless a mutation for the same action is outstanding.
func (m *Model) mutate(action Action, fn func(ctx context.Context) (tea.Msg, error)) tea.Cmd {
	if m.inflight[action] {
		return nil
	}
	m.inflight[action] = true
	return func() tea.Msg {
		msg, err := fn(context.Background())
		if err != nil {
			return MsgError{Err: err, Action: action}
		}
		return msg
	}
}

// createTask returns a command that creates a task in quadrant q.
func (m *Model) createTask(title, desc string, q domain.Quadrant) tea.Cmd {
	urgent, important := q.Flags()
	return m.mutate(ActionCreate, func(ctx context.Context) (tea.Msg, error) {
		out, err := m.container.NewTaskUseCase().Execute(ctx, usecase.NewTaskInput{
			Title:       title,
			Description: desc,
			IsUrgent:    urgent,
			IsImportant: important,
		})
		if err != nil {
			return nil, err
		}
		return MsgTaskCreated{Task: out.Task}, nil
	})
}

// cycleStatus returns a command that advances the task to its next status.
func (m *Model) cycleStatus(task *domain.Task) tea.Cmd {
	id, next := task.ID, task.Status.Next()
	return m.mutate(ActionStatus, func(ctx context.Context) (tea.Msg, error) {
		out, err := m.container.SetStatusUseCase().Execute(ctx, usecase.SetStatusInput{
			TaskID: id,
			Status: next,
		})
		if err != nil {
			return nil, err
		}
		return MsgTaskUpdated{Task: out.Task, Action: ActionStatus}, nil
	})
}

// moveTask returns a command that moves the task to quadrant q.
func (m *Model) moveTask(task *domain.Task, q domain.Quadrant) tea.Cmd {
	id := task.ID
	return m.mutate(ActionMove, func(ctx context.Context) (tea.Msg, error) {
		out, err := m.container.MoveQuadrantUseCase().Execute(ctx, usecase.MoveQuadrantInput{
			TaskID:   id,
			Quadrant: q,
		})
		if err != nil {
			return nil, err
		}
		return MsgTaskUpdated{Task: out.Task, Action: ActionMove}, nil
	})
}

// deleteTask returns a command that deletes the task.
func (m *Model) deleteTask(taskID string) tea.Cmd {
	return m.mutate(ActionDelete, func(ctx context.Context) (tea.Msg, error) {
		out, err := m.container.DeleteTaskUseCase().Execute(ctx, usecase.DeleteTaskInput{TaskID: taskID})
		if err != nil {
			return nil, err
		}
		return MsgTaskDeleted{TaskID: out.TaskID}, nil
	})
}

// visibleTasks returns the loaded tasks that match the filter text.
func (m *Model) visibleTasks() []*domain.Task {
	return domain.TaskFilter{Search: m.filterInput.Value()}.Apply(m.tasks)
}

// quadrantTasks returns the visible tasks grouped by quadrant.
func (m *Model) quadrantTasks() map[domain.Quadrant][]*domain.Task {
	return domain.GroupByQuadrant(m.visibleTasks())
}

// focusedQuadrant returns the quadrant that has focus in the matrix layout.
func (m *Model) focusedQuadrant() domain.Quadrant {
	return domain.AllQuadrants()[m.focus]
}

// SelectedTask returns the currently selected task, or nil if none.
func (m *Model) SelectedTask() *domain.Task {
	if m.layout == LayoutMatrix {
		tasks := m.quadrantTasks()[m.focusedQuadrant()]
		i := m.cellCursor[m.focus]
		if i < 0 || i >= len(tasks) {
			return nil
		}
		return tasks[i]
	}
	if ti, ok := m.taskList.SelectedItem().(taskItem); ok {
		return ti.task
	}
	return nil
}

// updateTaskList rebuilds the list items and clamps the matrix cursors.
func (m *Model) updateTaskList() {
	visible := m.visibleTasks()
	items := make([]list.Item, 0, len(visible))
	for _, task := range visible {
		items = append(items, taskItem{task: task, now: m.container.Clock.Now()})
	}
	m.taskList.SetItems(items)

	grouped := domain.GroupByQuadrant(visible)
	for i, q := range domain.AllQuadrants() {
		n := len(grouped[q])
		switch {
		case n == 0:
			m.cellCursor[i] = 0
		case m.cellCursor[i] >= n:
			m.cellCursor[i] = n - 1
		}
	}
}

// updateLayoutSizes resizes components after a window change.
func (m *Model) updateLayoutSizes() {
	w := m.width - 4
	h := m.height - 8
	if w < 20 {
		w = 20
	}
	if h < 3 {
		h = 3
	}
	m.taskList.SetSize(w, h)
	m.help.Width = m.width
}

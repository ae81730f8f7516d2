package tui

import "github.com/zentasks/zentasks/internal/domain"

// Msg is the sealed interface for all TUI messages.
// All message types must implement the sealed() method.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgTasksLoaded is sent when tasks are loaded from the data client.
type MsgTasksLoaded struct {
	Tasks []*domain.Task
}

func (MsgTasksLoaded) sealed() {}

// MsgTaskCreated is sent when a new task is created.
type MsgTaskCreated struct {
	Task *domain.Task
}

func (MsgTaskCreated) sealed() {}

// MsgTaskUpdated is sent when a status change or quadrant move succeeds.
type MsgTaskUpdated struct {
	Task   *domain.Task
	Action Action
}

func (MsgTaskUpdated) sealed() {}

// MsgTaskDeleted is sent when a task is deleted.
type MsgTaskDeleted struct {
	TaskID string
}

func (MsgTaskDeleted) sealed() {}

// MsgError is sent when an operation fails.
// Action is the mutation that failed, or ActionNone for loads.
type MsgError struct {
	Err    error
	Action Action
}

func (MsgError) sealed() {}

// MsgClearError is sent to clear the error message.
type MsgClearError struct{}

func (MsgClearError) sealed() {}

package task

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrEmptyText       = errors.New("task text cannot be empty")
	ErrInvalidPriority = errors.New("invalid task priority")
)

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// DefaultAssignee is used when a task has no explicit assignee.
const DefaultAssignee = "UNASSIGNED"

// ParsePriority validates and normalizes a priority string.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s), nil
	}
	return "", fmt.Errorf("%w: %q (must be HIGH, MEDIUM, or LOW)", ErrInvalidPriority, s)
}

// SubTask is a checklist item owned by a parent task. IDs are assigned by
// parse order within the parent, 1-based, and are not persisted.
type SubTask struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task is a single task parsed from one line of a project document.
//
// The ID is assigned by parse order within the document (1-based) and is
// recomputed on every parse, so it does not survive insertions or deletions
// that change line order.
type Task struct {
	ID            int       `json:"id"`
	Text          string    `json:"text"`
	Priority      Priority  `json:"priority"`
	Assigned      string    `json:"assigned"`
	DueDate       string    `json:"dueDate,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Description   string    `json:"description,omitempty"`
	Completed     bool      `json:"completed"`
	CompletedDate string    `json:"completedDate,omitempty"`
	SubTasks      []SubTask `json:"subtasks,omitempty"`

	// Line is the zero-based index of the task's encoded line within the
	// document it was parsed from. It anchors structural substitution in the
	// store and is meaningless outside the parse that produced it.
	Line int `json:"-"`
}

// Validate checks the fields a caller must supply before encoding.
func (t *Task) Validate() error {
	if t.Text == "" {
		return ErrEmptyText
	}
	if _, err := ParsePriority(string(t.Priority)); err != nil {
		return err
	}
	return nil
}

package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/taskd/internal/project"
	"github.com/fyrsmithlabs/taskd/internal/task"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func oneProject(tasks ...task.Task) []*project.Project {
	return []*project.Project{{
		Name:   "Work",
		Slug:   "work",
		Status: project.StatusActive,
		Tasks:  tasks,
	}}
}

func TestBuildOverdue(t *testing.T) {
	r := Build(oneProject(task.Task{
		ID:       1,
		Text:     "Late already",
		Priority: task.PriorityLow,
		Assigned: task.DefaultAssignee,
		DueDate:  "2025-06-10",
	}), testNow, false)

	require.Equal(t, 1, r.Count)
	n := r.Notifications[0]
	assert.Equal(t, TypeOverdue, n.Type)
	assert.Equal(t, "overdue-work-1", n.ID)
	// Overdue always escalates to HIGH regardless of the task's own priority.
	assert.Equal(t, task.PriorityHigh, n.Priority)
	assert.Equal(t, 5, n.DaysOverdue)
	assert.Equal(t, 1, r.Summary.Overdue)
}

func TestBuildDueTodayCountsAsOverdue(t *testing.T) {
	r := Build(oneProject(task.Task{
		ID:      1,
		Text:    "Due today",
		DueDate: "2025-06-15",
	}), testNow, false)

	require.Equal(t, 1, r.Count)
	assert.Equal(t, TypeOverdue, r.Notifications[0].Type)
	assert.Equal(t, 0, r.Notifications[0].DaysOverdue)
}

func TestBuildDueSoonRequiresUpcomingFlag(t *testing.T) {
	tasks := oneProject(task.Task{
		ID:       1,
		Text:     "Coming up",
		Priority: task.PriorityMedium,
		DueDate:  "2025-06-18",
	})

	without := Build(tasks, testNow, false)
	assert.Equal(t, 0, without.Count)

	with := Build(tasks, testNow, true)
	require.Equal(t, 1, with.Count)
	n := with.Notifications[0]
	assert.Equal(t, TypeDueSoon, n.Type)
	assert.Equal(t, "due-soon-work-1", n.ID)
	assert.Equal(t, 2, n.DaysUntilDue)
	assert.Equal(t, 1, with.Summary.DueSoon)
}

func TestBuildDueSoonBeyondWindow(t *testing.T) {
	r := Build(oneProject(task.Task{
		ID:      1,
		Text:    "Far future",
		DueDate: "2025-07-15",
	}), testNow, true)
	assert.Equal(t, 0, r.Count)
}

func TestBuildDueSoonKeepsHighPriority(t *testing.T) {
	r := Build(oneProject(task.Task{
		ID:       1,
		Text:     "Important soon",
		Priority: task.PriorityHigh,
		DueDate:  "2025-06-17",
	}), testNow, true)

	require.Equal(t, 1, r.Count)
	assert.Equal(t, task.PriorityHigh, r.Notifications[0].Priority)
}

func TestBuildAssigned(t *testing.T) {
	r := Build(oneProject(
		task.Task{ID: 1, Text: "Mine", Priority: task.PriorityMedium, Assigned: "ALICE"},
		task.Task{ID: 2, Text: "Nobody's", Priority: task.PriorityMedium, Assigned: task.DefaultAssignee},
		task.Task{ID: 3, Text: "Blank", Priority: task.PriorityMedium},
	), testNow, false)

	require.Equal(t, 1, r.Count)
	n := r.Notifications[0]
	assert.Equal(t, TypeAssigned, n.Type)
	assert.Equal(t, "ALICE", n.Assignee)
	assert.Equal(t, 1, r.Summary.Assigned)
}

func TestBuildSkipsCompletedTasks(t *testing.T) {
	r := Build(oneProject(task.Task{
		ID:        1,
		Text:      "Done and dusted",
		Assigned:  "ALICE",
		DueDate:   "2025-06-01",
		Completed: true,
	}), testNow, true)
	assert.Equal(t, 0, r.Count)
}

func TestBuildIgnoresUnparseableDueDate(t *testing.T) {
	r := Build(oneProject(task.Task{
		ID:      1,
		Text:    "Fuzzy date",
		DueDate: "sometime soon",
	}), testNow, true)
	assert.Equal(t, 0, r.Count)
}

func TestBuildSortsByPriority(t *testing.T) {
	r := Build(oneProject(
		task.Task{ID: 1, Text: "Low ball", Priority: task.PriorityLow, Assigned: "ALICE"},
		task.Task{ID: 2, Text: "Mid", Priority: task.PriorityMedium, Assigned: "BOB"},
		task.Task{ID: 3, Text: "Fire", Priority: task.PriorityLow, Assigned: "CARA", DueDate: "2025-06-01"},
	), testNow, false)

	// Overdue is forced HIGH, so it sorts ahead of the assignment alerts.
	require.Equal(t, 4, r.Count)
	assert.Equal(t, TypeOverdue, r.Notifications[0].Type)
	assert.Equal(t, task.PriorityMedium, r.Notifications[1].Priority)
	assert.Equal(t, task.PriorityLow, r.Notifications[2].Priority)
	assert.Equal(t, task.PriorityLow, r.Notifications[3].Priority)
}

func TestBuildEmpty(t *testing.T) {
	r := Build(nil, testNow, true)
	assert.Equal(t, 0, r.Count)
	assert.NotNil(t, r.Notifications)
}

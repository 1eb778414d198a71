// Package notify derives notifications from parsed project state: overdue
// tasks, tasks due within the coming week, and open assignments. It is pure
// computation; nothing here touches the filesystem.
package notify

import (
	"fmt"
	"sort"
	"time"

	"github.com/fyrsmithlabs/taskd/internal/project"
	"github.com/fyrsmithlabs/taskd/internal/task"
)

// Type classifies a notification.
type Type string

const (
	TypeOverdue  Type = "overdue"
	TypeDueSoon  Type = "due_soon"
	TypeAssigned Type = "assigned"
)

// upcomingWindow is how far ahead due_soon notifications look.
const upcomingWindow = 7 * 24 * time.Hour

// Notification is one derived alert.
type Notification struct {
	ID           string        `json:"id"`
	Type         Type          `json:"type"`
	Priority     task.Priority `json:"priority"`
	Project      string        `json:"project"`
	ProjectSlug  string        `json:"projectSlug"`
	TaskID       int           `json:"taskId"`
	Task         string        `json:"task"`
	DueDate      string        `json:"dueDate,omitempty"`
	Assignee     string        `json:"assignee,omitempty"`
	Message      string        `json:"message"`
	DaysOverdue  int           `json:"daysOverdue,omitempty"`
	DaysUntilDue int           `json:"daysUntilDue,omitempty"`
}

// Summary counts notifications per type.
type Summary struct {
	Overdue  int `json:"overdue"`
	DueSoon  int `json:"dueSoon"`
	Assigned int `json:"assigned"`
}

// Report is the full derivation result.
type Report struct {
	Count         int            `json:"count"`
	Notifications []Notification `json:"notifications"`
	Summary       Summary        `json:"summary"`
}

var priorityOrder = map[task.Priority]int{
	task.PriorityHigh:   0,
	task.PriorityMedium: 1,
	task.PriorityLow:    2,
}

// Build scans every pending task across the given projects. Due-soon
// notifications are produced only when includeUpcoming is set; overdue and
// assignment notifications are always produced. Results are sorted by
// priority, HIGH first, preserving scan order within a priority.
func Build(projects []*project.Project, now time.Time, includeUpcoming bool) Report {
	r := Report{Notifications: []Notification{}}

	for _, p := range projects {
		for _, t := range p.Tasks {
			if t.Completed {
				continue
			}

			if t.DueDate != "" {
				if due, err := time.Parse(project.DateFormat, t.DueDate); err == nil {
					switch {
					case !due.After(now):
						days := int(now.Sub(due).Hours() / 24)
						r.Notifications = append(r.Notifications, Notification{
							ID:          fmt.Sprintf("overdue-%s-%d", p.Slug, t.ID),
							Type:        TypeOverdue,
							Priority:    task.PriorityHigh,
							Project:     p.Name,
							ProjectSlug: p.Slug,
							TaskID:      t.ID,
							Task:        t.Text,
							DueDate:     t.DueDate,
							Assignee:    t.Assigned,
							Message:     fmt.Sprintf("Task %q is overdue", t.Text),
							DaysOverdue: days,
						})
						r.Summary.Overdue++
					case includeUpcoming && due.Sub(now) <= upcomingWindow:
						days := int(due.Sub(now).Hours() / 24)
						prio := task.PriorityMedium
						if t.Priority == task.PriorityHigh {
							prio = task.PriorityHigh
						}
						r.Notifications = append(r.Notifications, Notification{
							ID:           fmt.Sprintf("due-soon-%s-%d", p.Slug, t.ID),
							Type:         TypeDueSoon,
							Priority:     prio,
							Project:      p.Name,
							ProjectSlug:  p.Slug,
							TaskID:       t.ID,
							Task:         t.Text,
							DueDate:      t.DueDate,
							Assignee:     t.Assigned,
							Message:      fmt.Sprintf("Task %q due in %d days", t.Text, days),
							DaysUntilDue: days,
						})
						r.Summary.DueSoon++
					}
				}
			}

			if t.Assigned != "" && t.Assigned != task.DefaultAssignee {
				r.Notifications = append(r.Notifications, Notification{
					ID:          fmt.Sprintf("assigned-%s-%d", p.Slug, t.ID),
					Type:        TypeAssigned,
					Priority:    t.Priority,
					Project:     p.Name,
					ProjectSlug: p.Slug,
					TaskID:      t.ID,
					Task:        t.Text,
					Assignee:    t.Assigned,
					Message:     fmt.Sprintf("You were assigned to %q", t.Text),
				})
				r.Summary.Assigned++
			}
		}
	}

	sort.SliceStable(r.Notifications, func(i, j int) bool {
		return priorityOrder[r.Notifications[i].Priority] < priorityOrder[r.Notifications[j].Priority]
	})
	r.Count = len(r.Notifications)
	return r
}

// Package template provides the read-only project template catalog used to
// seed new projects with an initial task sequence.
package template

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/taskd/internal/project"
	"github.com/fyrsmithlabs/taskd/internal/task"
)

// ErrTemplateNotFound is returned for unknown template ids.
var ErrTemplateNotFound = errors.New("template not found")

// TaskBlueprint describes one task a template stamps out.
type TaskBlueprint struct {
	Text      string        `koanf:"text" json:"text"`
	Priority  task.Priority `koanf:"priority" json:"priority"`
	Assigned  string        `koanf:"assigned" json:"assigned"`
	DueInDays int           `koanf:"due_in_days" json:"dueInDays"`
	Tags      []string      `koanf:"tags" json:"tags,omitempty"`
}

// Template is a reusable project outline.
type Template struct {
	ID          string          `koanf:"id" json:"id"`
	Name        string          `koanf:"name" json:"name"`
	Description string          `koanf:"description" json:"description"`
	Category    string          `koanf:"category" json:"category"`
	Tasks       []TaskBlueprint `koanf:"tasks" json:"tasks"`
}

// Catalog is an ordered, read-only set of templates.
type Catalog struct {
	templates []Template
	byID      map[string]int
}

func newCatalog(templates []Template) *Catalog {
	c := &Catalog{templates: templates, byID: make(map[string]int, len(templates))}
	for i, t := range templates {
		c.byID[t.ID] = i
	}
	return c
}

// List returns the templates in catalog order.
func (c *Catalog) List() []Template {
	return c.templates
}

// Get looks a template up by id.
func (c *Catalog) Get(id string) (*Template, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return &c.templates[i], nil
}

// Instantiate produces the tasks a template seeds into a new project, with
// due dates offset from the creation time by each blueprint's day count.
func (t *Template) Instantiate(now time.Time) []task.Task {
	tasks := make([]task.Task, 0, len(t.Tasks))
	for _, bp := range t.Tasks {
		nt := task.Task{
			Text:     bp.Text,
			Priority: bp.Priority,
			Assigned: bp.Assigned,
			Tags:     bp.Tags,
		}
		if bp.DueInDays > 0 {
			nt.DueDate = now.AddDate(0, 0, bp.DueInDays).Format(project.DateFormat)
		}
		tasks = append(tasks, nt)
	}
	return tasks
}

// LoadFile parses a YAML template catalog:
//
//	templates:
//	  - id: launch
//	    name: Product Launch
//	    tasks:
//	      - text: Draft announcement
//	        priority: HIGH
//	        due_in_days: 3
func LoadFile(path string) (*Catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse template file %s: %w", path, err)
	}

	var templates []Template
	if err := k.Unmarshal("templates", &templates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal templates: %w", err)
	}
	for i, t := range templates {
		if t.ID == "" {
			return nil, fmt.Errorf("template %d has no id", i)
		}
	}
	return newCatalog(templates), nil
}

// Builtin returns the catalog shipped with the binary, used when no
// template file is configured.
func Builtin() *Catalog {
	return newCatalog([]Template{
		{
			ID:          "software-release",
			Name:        "Software Release",
			Description: "Cut, verify, and ship a versioned release",
			Category:    "engineering",
			Tasks: []TaskBlueprint{
				{Text: "Freeze feature branches", Priority: task.PriorityHigh, DueInDays: 1},
				{Text: "Run full regression suite", Priority: task.PriorityHigh, DueInDays: 2, Tags: []string{"qa"}},
				{Text: "Write release notes", Priority: task.PriorityMedium, DueInDays: 3, Tags: []string{"docs"}},
				{Text: "Tag and publish artifacts", Priority: task.PriorityHigh, DueInDays: 4, Tags: []string{"release", "ops"}},
			},
		},
		{
			ID:          "weekly-review",
			Name:        "Weekly Review",
			Description: "Recurring personal planning checklist",
			Category:    "personal",
			Tasks: []TaskBlueprint{
				{Text: "Clear inbox to zero", Priority: task.PriorityMedium, DueInDays: 1},
				{Text: "Review open projects", Priority: task.PriorityMedium, DueInDays: 1},
				{Text: "Plan next week's priorities", Priority: task.PriorityHigh, DueInDays: 2},
			},
		},
		{
			ID:          "event-planning",
			Name:        "Event Planning",
			Description: "Organize a small event end to end",
			Category:    "general",
			Tasks: []TaskBlueprint{
				{Text: "Pick date and venue", Priority: task.PriorityHigh, DueInDays: 7},
				{Text: "Send invitations", Priority: task.PriorityMedium, DueInDays: 14, Tags: []string{"comms"}},
				{Text: "Confirm headcount", Priority: task.PriorityMedium, DueInDays: 21},
				{Text: "Finalize logistics", Priority: task.PriorityHigh, DueInDays: 25, Tags: []string{"ops"}},
			},
		},
	})
}

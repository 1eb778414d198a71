// Package project parses project documents into an in-memory record.
//
// A document is a markdown file with a metadata header followed by a
// "## Tasks" and a "## Completed" section:
//
//	# Project: Site Redesign
//
//	**Description:** Refresh the marketing site
//	**Created:** 2025-01-15
//	**Status:** active
//
//	## Tasks
//	- [ ] HIGH: Draft wireframes (assigned: ALICE)
//
//	## Completed
//
// The section split is organizational only; completion state is tracked
// per line via the checkbox marker. Parsing is a pure function of the
// document text: the same text always yields structurally identical output.
package project

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/fyrsmithlabs/taskd/internal/task"
)

// Status of a project, derived from the document's status marker.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// DateFormat is the calendar date layout used throughout documents.
const DateFormat = "2006-01-02"

// Project is one parsed project document.
type Project struct {
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	Status      Status      `json:"status"`
	Created     string      `json:"created,omitempty"`
	Tasks       []task.Task `json:"tasks"`
}

var (
	descriptionRe = regexp.MustCompile(`\*\*Description:\*\*\s*(.+)`)
	createdRe     = regexp.MustCompile(`\*\*Created:\*\*\s*(.+)`)
	statusRe      = regexp.MustCompile(`\*\*Status:\*\*\s*(.+)`)
)

// Parse builds a Project from a document's complete text. The project name
// is the title-cased slug; callers holding an explicit name may override it.
// Absent metadata markers yield zero values, never errors.
func Parse(content, slug string) *Project {
	p := &Project{
		Name:   TitleFromSlug(slug),
		Slug:   slug,
		Status: StatusActive,
		Tasks:  task.DecodeDocument(content),
	}
	if m := descriptionRe.FindStringSubmatch(content); m != nil {
		p.Description = strings.TrimSpace(m[1])
	}
	if m := createdRe.FindStringSubmatch(content); m != nil {
		p.Created = strings.TrimSpace(m[1])
	}
	if m := statusRe.FindStringSubmatch(content); m != nil && strings.TrimSpace(m[1]) == string(StatusCompleted) {
		p.Status = StatusCompleted
	}
	return p
}

// Pending counts tasks not yet completed.
func (p *Project) Pending() int {
	n := 0
	for _, t := range p.Tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// Completed counts completed tasks.
func (p *Project) Completed() int {
	return len(p.Tasks) - p.Pending()
}

// Task returns the task with the given positional id, or nil.
func (p *Project) Task(id int) *task.Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}

// NewDocument synthesizes the document for a freshly created project. The
// layout is bit-compatible with existing documents, so nothing here may be
// reordered or reformatted.
func NewDocument(name, description string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Project: %s\n\n", name)
	fmt.Fprintf(&b, "**Description:** %s\n", description)
	fmt.Fprintf(&b, "**Created:** %s\n", now.Format(DateFormat))
	b.WriteString("**Status:** active\n\n")
	b.WriteString("## Tasks\n\n")
	b.WriteString("## Completed\n")
	return b.String()
}

// TitleFromSlug produces the cosmetic project name for a slug: separator
// characters become spaces and each word is capitalized.
func TitleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the stable document identifier from a project name.
func Slugify(name string) string {
	s := slugStripRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskd/internal/project"
	"github.com/fyrsmithlabs/taskd/internal/task"
)

// TaskUpdate carries a partial field set for UpdateTask. Nil fields are
// left at their current values; a pointer to the zero value clears the
// corresponding optional field.
type TaskUpdate struct {
	Text        *string
	Priority    *task.Priority
	Assigned    *string
	DueDate     *string
	Tags        *[]string
	Description *string
}

// prepareTask fills defaults and validates caller-supplied task fields.
// Free-text fields must be single lines; an embedded newline would let one
// task write extra document lines.
func prepareTask(t *task.Task) error {
	if t.Priority == "" {
		t.Priority = task.PriorityMedium
	}
	if t.Assigned == "" {
		t.Assigned = task.DefaultAssignee
	}
	if err := t.Validate(); err != nil {
		return err
	}

	fields := []string{t.Text, t.Description, t.Assigned}
	fields = append(fields, t.Tags...)
	for _, st := range t.SubTasks {
		fields = append(fields, st.Text)
	}
	for _, f := range fields {
		if strings.ContainsAny(f, "\r\n") {
			return fmt.Errorf("%w: %q", ErrMultilineField, f)
		}
	}

	return validateDueDate(t.DueDate)
}

func validateDueDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(project.DateFormat, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDueDate, date)
	}
	return nil
}

// insertTaskBlock splices an encoded task block directly below the tasks
// section marker line, so tasks accumulate newest-first at the top of the
// section. Splicing by line index keeps prose that merely mentions the
// marker text out of play.
func insertTaskBlock(content string, marker int, t task.Task) string {
	lines := strings.Split(content, "\n")
	block := append(strings.Split(task.EncodeBlock(t), "\n"), "")
	out := make([]string, 0, len(lines)+len(block))
	out = append(out, lines[:marker+1]...)
	out = append(out, block...)
	out = append(out, lines[marker+1:]...)
	return strings.Join(out, "\n")
}

// readActive loads the active document for a slug. Mutations operate on
// active projects only; archived documents are read-only until reopened.
func (s *Store) readActive(slug string) (string, error) {
	content, err := os.ReadFile(s.activePath(slug))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrProjectNotFound, slug)
		}
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return string(content), nil
}

func (s *Store) writeActive(slug, content string) error {
	if err := os.WriteFile(s.activePath(slug), []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// AddTask encodes a new task and inserts it at the top of the tasks
// section. The returned task carries the positional id assigned by the
// re-parse of the updated document.
func (s *Store) AddTask(slug string, t task.Task) (*task.Task, error) {
	if err := prepareTask(&t); err != nil {
		return nil, err
	}

	lock := s.slugLock(slug)
	lock.Lock()
	defer lock.Unlock()

	content, err := s.readActive(slug)
	if err != nil {
		return nil, err
	}
	markerLine := markerLineIndex(content)
	if markerLine < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTasksSection, slug)
	}

	updated := insertTaskBlock(content, markerLine, t)

	// Verify the candidate text before persisting: the inserted line must
	// re-parse directly below the section marker, or nothing is written.
	var inserted *task.Task
	for _, parsed := range task.DecodeDocument(updated) {
		if parsed.Line == markerLine+1 {
			inserted = &parsed
			break
		}
	}
	if inserted == nil {
		return nil, fmt.Errorf("%w: inserted task did not re-parse", ErrNoTasksSection)
	}

	if err := s.writeActive(slug, updated); err != nil {
		return nil, err
	}
	s.logger.Info("task added", zap.String("slug", slug), zap.String("text", t.Text))
	return inserted, nil
}

func markerLineIndex(content string) int {
	for i, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == tasksMarker {
			return i
		}
	}
	return -1
}

// CompleteTask flips the checkbox marker of the task with the given
// positional id. Only the marker changes; every other byte of the line and
// of the document is preserved. Ids are recomputed on parse, so the caller's
// id must come from a read no older than the last mutation.
func (s *Store) CompleteTask(slug string, id int) error {
	lock := s.slugLock(slug)
	lock.Lock()
	defer lock.Unlock()

	content, err := s.readActive(slug)
	if err != nil {
		return err
	}
	p := project.Parse(content, slug)
	t := p.Task(id)
	if t == nil {
		return fmt.Errorf("%w: task %d in %s", ErrTaskNotFound, id, slug)
	}
	if t.Completed {
		return fmt.Errorf("%w: task %d in %s", ErrTaskCompleted, id, slug)
	}

	lines := strings.Split(content, "\n")
	lines[t.Line] = strings.Replace(lines[t.Line], "- [ ]", "- [x]", 1)

	if err := s.writeActive(slug, strings.Join(lines, "\n")); err != nil {
		return err
	}
	s.logger.Info("task completed", zap.String("slug", slug), zap.Int("id", id))
	return nil
}

// UpdateTask merges the provided fields over the current parsed task,
// re-encodes its line, and substitutes it by line position.
func (s *Store) UpdateTask(slug string, id int, update TaskUpdate) (*task.Task, error) {
	lock := s.slugLock(slug)
	lock.Lock()
	defer lock.Unlock()

	content, err := s.readActive(slug)
	if err != nil {
		return nil, err
	}
	p := project.Parse(content, slug)
	t := p.Task(id)
	if t == nil {
		return nil, fmt.Errorf("%w: task %d in %s", ErrTaskNotFound, id, slug)
	}

	merged := *t
	if update.Text != nil {
		merged.Text = *update.Text
	}
	if update.Priority != nil {
		merged.Priority = *update.Priority
	}
	if update.Assigned != nil {
		merged.Assigned = *update.Assigned
	}
	if update.DueDate != nil {
		merged.DueDate = *update.DueDate
	}
	if update.Tags != nil {
		merged.Tags = *update.Tags
	}
	if update.Description != nil {
		merged.Description = *update.Description
	}
	if err := prepareTask(&merged); err != nil {
		return nil, err
	}

	lines := strings.Split(content, "\n")
	lines[merged.Line] = task.EncodeLine(merged)

	if err := s.writeActive(slug, strings.Join(lines, "\n")); err != nil {
		return nil, err
	}
	s.logger.Info("task updated", zap.String("slug", slug), zap.Int("id", id))
	return &merged, nil
}

// DeleteTask removes the task's line and its trailing subtask lines.
func (s *Store) DeleteTask(slug string, id int) error {
	lock := s.slugLock(slug)
	lock.Lock()
	defer lock.Unlock()

	content, err := s.readActive(slug)
	if err != nil {
		return err
	}
	p := project.Parse(content, slug)
	t := p.Task(id)
	if t == nil {
		return fmt.Errorf("%w: task %d in %s", ErrTaskNotFound, id, slug)
	}

	lines := strings.Split(content, "\n")
	end := t.Line + 1 + len(t.SubTasks)
	lines = append(lines[:t.Line], lines[end:]...)

	if err := s.writeActive(slug, strings.Join(lines, "\n")); err != nil {
		return err
	}
	s.logger.Info("task deleted", zap.String("slug", slug), zap.Int("id", id))
	return nil
}

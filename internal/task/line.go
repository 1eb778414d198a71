// Package task implements the task model and the line grammar that maps one
// task to one line of markdown checklist text.
//
// The grammar, in encoding order:
//
//	- [x| ] PRIORITY: text (assigned: NAME) | due: DATE | tags: a, b | desc: text | done: DATE
//
// Fields after the assignee are optional and appear only when set, always in
// the order due, tags, desc, done, delimited by " | ". Subtasks are encoded
// as checkbox lines indented by exactly two spaces directly below their
// parent. Literal pipes in free text round-trip as "\|"; colons need no
// escaping because every field marker is matched with its full delimiter
// string rather than a bare colon.
//
// Decoding is forgiving by omission: a line that does not match the grammar
// yields nothing, never an error.
package task

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	taskLineRe = regexp.MustCompile(`^- \[([ x])\] (HIGH|MEDIUM|LOW): (.+?) \(assigned: ([^)]+)\)(.*)$`)
	subLineRe  = regexp.MustCompile(`^  - \[([ x])\] (.+)$`)
)

// Escape makes free text safe for embedding in a task line.
func Escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// Unescape reverses Escape.
func Unescape(s string) string {
	return strings.ReplaceAll(s, `\|`, "|")
}

func checkbox(completed bool) string {
	if completed {
		return "x"
	}
	return " "
}

// EncodeLine renders a task as a single line of the grammar, without a
// trailing newline. Subtask lines are not included; see EncodeBlock.
func EncodeLine(t Task) string {
	var b strings.Builder
	assigned := t.Assigned
	if assigned == "" {
		assigned = DefaultAssignee
	}
	fmt.Fprintf(&b, "- [%s] %s: %s (assigned: %s)", checkbox(t.Completed), t.Priority, Escape(t.Text), assigned)
	if t.DueDate != "" {
		b.WriteString(" | due: ")
		b.WriteString(t.DueDate)
	}
	if len(t.Tags) > 0 {
		escaped := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			escaped[i] = Escape(tag)
		}
		b.WriteString(" | tags: ")
		b.WriteString(strings.Join(escaped, ", "))
	}
	if t.Description != "" {
		b.WriteString(" | desc: ")
		b.WriteString(Escape(t.Description))
	}
	if t.CompletedDate != "" {
		b.WriteString(" | done: ")
		b.WriteString(t.CompletedDate)
	}
	return b.String()
}

// EncodeSubTaskLine renders one subtask as a two-space-indented checkbox line.
func EncodeSubTaskLine(st SubTask) string {
	return fmt.Sprintf("  - [%s] %s", checkbox(st.Completed), Escape(st.Text))
}

// EncodeBlock renders a task and its subtasks as newline-joined lines,
// without a trailing newline.
func EncodeBlock(t Task) string {
	lines := make([]string, 0, 1+len(t.SubTasks))
	lines = append(lines, EncodeLine(t))
	for _, st := range t.SubTasks {
		lines = append(lines, EncodeSubTaskLine(st))
	}
	return strings.Join(lines, "\n")
}

// DecodeDocument extracts every task in document order, assigning sequential
// 1-based ids. Lines that do not match the grammar are silently skipped.
// Subtask accumulation for a task ends at the first line that is not a
// contiguous two-space-indented checkbox line.
func DecodeDocument(content string) []Task {
	lines := strings.Split(content, "\n")
	var tasks []Task
	cur := -1 // index into tasks of the task currently accepting subtasks

	for i, line := range lines {
		if m := taskLineRe.FindStringSubmatch(line); m != nil {
			t := Task{
				ID:        len(tasks) + 1,
				Completed: m[1] == "x",
				Priority:  Priority(m[2]),
				Text:      Unescape(m[3]),
				Assigned:  strings.TrimSpace(m[4]),
				Line:      i,
			}
			decodeTail(&t, m[5])
			tasks = append(tasks, t)
			cur = len(tasks) - 1
			continue
		}
		if cur >= 0 {
			if m := subLineRe.FindStringSubmatch(line); m != nil {
				parent := &tasks[cur]
				parent.SubTasks = append(parent.SubTasks, SubTask{
					ID:        len(parent.SubTasks) + 1,
					Completed: m[1] == "x",
					Text:      Unescape(m[2]),
				})
				continue
			}
			cur = -1
		}
	}
	return tasks
}

// decodeTail parses the optional pipe-delimited fields after the assignee.
// Unrecognized segments are dropped, matching the grammar's forgiving
// decode semantics. Splitting on " | " is safe in the presence of escaped
// pipes because "\|" never has a space on both sides of the pipe.
func decodeTail(t *Task, tail string) {
	if tail == "" {
		return
	}
	for _, seg := range strings.Split(tail, " | ") {
		switch {
		case strings.HasPrefix(seg, "due: "):
			t.DueDate = strings.TrimSpace(strings.TrimPrefix(seg, "due: "))
		case strings.HasPrefix(seg, "tags: "):
			t.Tags = decodeTags(strings.TrimPrefix(seg, "tags: "))
		case strings.HasPrefix(seg, "desc: "):
			t.Description = Unescape(strings.TrimPrefix(seg, "desc: "))
		case strings.HasPrefix(seg, "done: "):
			t.CompletedDate = strings.TrimSpace(strings.TrimPrefix(seg, "done: "))
		}
	}
}

func decodeTags(s string) []string {
	var tags []string
	for _, raw := range strings.Split(s, ",") {
		tag := Unescape(strings.TrimSpace(raw))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Package activity keeps an append-only JSON log of domain events.
//
// The log is a single JSON array file shared by all projects, capped at a
// fixed number of entries with the oldest evicted first. Logging is
// best-effort by contract: the mutation that triggered an entry has already
// committed, so log I/O failures are swallowed and never surface to the
// caller.
package activity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Type enumerates the domain events worth recording.
type Type string

const (
	TypeTaskCreated    Type = "task_created"
	TypeTaskCompleted  Type = "task_completed"
	TypeTaskUpdated    Type = "task_updated"
	TypeProjectCreated Type = "project_created"
	TypeCommentAdded   Type = "comment_added"
)

// DefaultRetentionCap bounds the log when no cap is configured.
const DefaultRetentionCap = 500

// DefaultUser is recorded when an event names no actor.
const DefaultUser = "local"

// Activity is one immutable log record.
type Activity struct {
	ID          string `json:"id"`
	Type        Type   `json:"type"`
	ProjectSlug string `json:"projectSlug"`
	ProjectName string `json:"projectName"`
	TaskID      int    `json:"taskId,omitempty"`
	TaskText    string `json:"taskText,omitempty"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	User        string `json:"user"`
}

// Event carries the caller-supplied parts of a record; Log.Append fills in
// id, timestamp, and a default message and user.
type Event struct {
	Type        Type
	ProjectSlug string
	ProjectName string
	TaskID      int
	TaskText    string
	Message     string
	User        string
}

// Config holds activity log configuration.
type Config struct {
	// Path is the JSON array file backing the log.
	Path string
	// RetentionCap is the maximum number of records kept.
	RetentionCap int
}

// Log appends and queries activity records.
type Log struct {
	cfg    *Config
	logger *zap.Logger

	mu sync.Mutex // guards the read-modify-write cycle on the file
}

// New creates a Log backed by cfg.Path.
func New(cfg *Config, logger *zap.Logger) (*Log, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, errors.New("activity log path is required")
	}
	if cfg.RetentionCap <= 0 {
		cfg.RetentionCap = DefaultRetentionCap
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{cfg: cfg, logger: logger}, nil
}

// Append records an event. It always returns the constructed Activity;
// persistence failures are logged and swallowed.
func (l *Log) Append(ev Event) Activity {
	now := time.Now().UTC()
	a := Activity{
		ID:          fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8]),
		Type:        ev.Type,
		ProjectSlug: ev.ProjectSlug,
		ProjectName: ev.ProjectName,
		TaskID:      ev.TaskID,
		TaskText:    ev.TaskText,
		Message:     ev.Message,
		Timestamp:   now.Format(time.RFC3339),
		User:        ev.User,
	}
	if a.Message == "" {
		a.Message = defaultMessage(ev)
	}
	if a.User == "" {
		a.User = DefaultUser
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.load()
	entries = append(entries, a)
	if len(entries) > l.cfg.RetentionCap {
		entries = entries[len(entries)-l.cfg.RetentionCap:]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		l.logger.Warn("failed to marshal activity log", zap.Error(err))
		return a
	}
	if err := os.WriteFile(l.cfg.Path, data, 0o644); err != nil {
		l.logger.Warn("failed to write activity log", zap.Error(err))
	}
	return a
}

// Recent returns up to limit records, newest first. A missing or corrupt
// file yields an empty result, never an error.
func (l *Log) Recent(limit int) []Activity {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.load()
	out := make([]Activity, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, entries[i])
	}
	return out
}

// load reads the current log array, treating a missing or corrupt file as
// empty. Callers must hold l.mu.
func (l *Log) load() []Activity {
	data, err := os.ReadFile(l.cfg.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Warn("failed to read activity log", zap.Error(err))
		}
		return nil
	}
	var entries []Activity
	if err := json.Unmarshal(data, &entries); err != nil {
		l.logger.Warn("activity log is corrupt, starting fresh", zap.Error(err))
		return nil
	}
	return entries
}

func defaultMessage(ev Event) string {
	switch ev.Type {
	case TypeTaskCreated:
		return fmt.Sprintf("Task %q added to %s", ev.TaskText, ev.ProjectName)
	case TypeTaskCompleted:
		return fmt.Sprintf("Task %q completed in %s", ev.TaskText, ev.ProjectName)
	case TypeTaskUpdated:
		return fmt.Sprintf("Task %q updated in %s", ev.TaskText, ev.ProjectName)
	case TypeProjectCreated:
		return fmt.Sprintf("Project %q created", ev.ProjectName)
	case TypeCommentAdded:
		return fmt.Sprintf("Comment added in %s", ev.ProjectName)
	}
	return string(ev.Type)
}

// Package store performs read-modify-write mutations against project
// documents on the local filesystem.
//
// Documents live under <BaseDir>/active and <BaseDir>/completed, one
// markdown file per project named <slug>.md. Every mutation is a full
// read -> parse -> substitute -> rewrite cycle guarded by a per-slug mutex,
// so concurrent mutations against the same project serialize instead of
// racing. Failed mutations never write; the document on disk is unchanged
// on any error path.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskd/internal/project"
	"github.com/fyrsmithlabs/taskd/internal/task"
)

// Common errors.
var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrProjectExists    = errors.New("project already exists")
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskCompleted    = errors.New("task already completed")
	ErrEmptyProjectName = errors.New("project name cannot be empty")
	ErrNoTasksSection   = errors.New("document has no tasks section")
	ErrInvalidDueDate   = errors.New("due date must be YYYY-MM-DD")
	ErrMultilineField   = errors.New("field must be a single line")
)

const (
	dirActive    = "active"
	dirCompleted = "completed"

	tasksMarker = "## Tasks"
)

// Config holds store configuration. All paths are explicit; the store never
// consults the environment.
type Config struct {
	// BaseDir is the root directory for project documents.
	BaseDir string
}

// Store provides mutations over project documents.
type Store struct {
	cfg    *Config
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-slug write locks
}

// New creates a Store rooted at cfg.BaseDir, creating the active and
// completed directories if needed.
func New(cfg *Config, logger *zap.Logger) (*Store, error) {
	if cfg == nil || cfg.BaseDir == "" {
		return nil, errors.New("store base directory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, dir := range []string{dirActive, dirCompleted} {
		if err := os.MkdirAll(filepath.Join(cfg.BaseDir, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", dir, err)
		}
	}
	return &Store{
		cfg:    cfg,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

// slugLock returns the mutex guarding all mutations for one slug.
func (s *Store) slugLock(slug string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[slug]
	if !ok {
		l = &sync.Mutex{}
		s.locks[slug] = l
	}
	return l
}

func (s *Store) activePath(slug string) string {
	return filepath.Join(s.cfg.BaseDir, dirActive, slug+".md")
}

func (s *Store) completedPath(slug string) string {
	return filepath.Join(s.cfg.BaseDir, dirCompleted, slug+".md")
}

// documentPath locates the backing document for a slug, active first.
func (s *Store) documentPath(slug string) (string, error) {
	for _, path := range []string{s.activePath(slug), s.completedPath(slug)} {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrProjectNotFound, slug)
}

// ListProjects parses every document in both directories, active first,
// each directory in filename order.
func (s *Store) ListProjects() ([]*project.Project, error) {
	var projects []*project.Project
	for _, dir := range []string{dirActive, dirCompleted} {
		entries, err := os.ReadDir(filepath.Join(s.cfg.BaseDir, dir))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s directory: %w", dir, err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			content, err := os.ReadFile(filepath.Join(s.cfg.BaseDir, dir, name))
			if err != nil {
				return nil, fmt.Errorf("failed to read document %s: %w", name, err)
			}
			projects = append(projects, project.Parse(string(content), strings.TrimSuffix(name, ".md")))
		}
	}
	return projects, nil
}

// GetProject loads and parses one project by slug.
func (s *Store) GetProject(slug string) (*project.Project, error) {
	path, err := s.documentPath(slug)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return project.Parse(string(content), slug), nil
}

// CreateProject writes a fresh document for the given name. It fails with
// ErrProjectExists when a document for the derived slug already exists in
// either directory; recreation never overwrites.
func (s *Store) CreateProject(name, description string) (*project.Project, error) {
	return s.createProject(name, description, nil)
}

// CreateProjectWithTasks writes a fresh document seeded with the given
// tasks, newest first under the tasks section. Used for template
// instantiation.
func (s *Store) CreateProjectWithTasks(name, description string, tasks []task.Task) (*project.Project, error) {
	return s.createProject(name, description, tasks)
}

func (s *Store) createProject(name, description string, tasks []task.Task) (*project.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyProjectName
	}
	if strings.ContainsAny(name+description, "\r\n") {
		return nil, fmt.Errorf("%w: project name and description", ErrMultilineField)
	}
	slug := project.Slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("%w: %q yields an empty slug", ErrEmptyProjectName, name)
	}

	lock := s.slugLock(slug)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.documentPath(slug); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectExists, slug)
	}

	content := project.NewDocument(name, description, time.Now())
	marker := markerLineIndex(content)
	for i := len(tasks) - 1; i >= 0; i-- {
		t := tasks[i]
		if err := prepareTask(&t); err != nil {
			return nil, err
		}
		content = insertTaskBlock(content, marker, t)
	}

	if err := os.WriteFile(s.activePath(slug), []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	s.logger.Info("project created", zap.String("slug", slug), zap.Int("tasks", len(tasks)))

	p := project.Parse(content, slug)
	p.Name = name
	return p, nil
}

// ArchiveProject flips the status marker to completed and moves the
// document into the completed directory.
func (s *Store) ArchiveProject(slug string) error {
	return s.moveProject(slug, s.activePath(slug), s.completedPath(slug), project.StatusActive, project.StatusCompleted)
}

// ReopenProject flips the status marker back to active and moves the
// document into the active directory.
func (s *Store) ReopenProject(slug string) error {
	return s.moveProject(slug, s.completedPath(slug), s.activePath(slug), project.StatusCompleted, project.StatusActive)
}

func (s *Store) moveProject(slug, from, to string, oldStatus, newStatus project.Status) error {
	lock := s.slugLock(slug)
	lock.Lock()
	defer lock.Unlock()

	content, err := os.ReadFile(from)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrProjectNotFound, slug)
		}
		return fmt.Errorf("failed to read document: %w", err)
	}

	// Rewrite the status marker by whole-line match so prose that merely
	// mentions the marker text is left alone.
	lines := strings.Split(string(content), "\n")
	oldMarker := fmt.Sprintf("**Status:** %s", oldStatus)
	for i, line := range lines {
		if strings.TrimSpace(line) == oldMarker {
			lines[i] = fmt.Sprintf("**Status:** %s", newStatus)
			break
		}
	}
	updated := strings.Join(lines, "\n")

	if err := os.WriteFile(to, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Remove(from); err != nil {
		return fmt.Errorf("failed to remove old document: %w", err)
	}
	s.logger.Info("project moved", zap.String("slug", slug), zap.String("status", string(newStatus)))
	return nil
}

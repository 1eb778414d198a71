package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Event describes an observed change to a project document.
type Event struct {
	// Slug is the project whose document changed.
	Slug string
	// Op is the filesystem operation (create, write, remove, rename).
	Op string
}

// Watcher reports external edits to project documents. The store itself
// writes through the same directories, so callers see their own mutations
// too; the watcher makes no attempt to distinguish writers.
type Watcher struct {
	fs     *fsnotify.Watcher
	logger *zap.Logger
	done   chan struct{}
}

// Watch begins watching the store's active and completed directories,
// invoking fn for every document change until Close is called.
func (s *Store) Watch(fn func(Event)) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	for _, dir := range []string{dirActive, dirCompleted} {
		if err := fs.Add(filepath.Join(s.cfg.BaseDir, dir)); err != nil {
			fs.Close()
			return nil, fmt.Errorf("failed to watch %s directory: %w", dir, err)
		}
	}

	w := &Watcher{
		fs:     fs,
		logger: s.logger,
		done:   make(chan struct{}),
	}
	go w.run(fn)
	return w, nil
}

func (w *Watcher) run(fn func(Event)) {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, ".md") {
				continue
			}
			fn(Event{
				Slug: strings.TrimSuffix(name, ".md"),
				Op:   strings.ToLower(ev.Op.String()),
			})
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher and waits for the event loop to drain.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}

package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for rapid changes to
// settle before re-checking.
const DefaultDebounce = 100 * time.Millisecond

// Watcher re-checks a set of files and directories whenever one of them
// changes.
type Watcher struct {
	compiler *Compiler
	watcher  *fsnotify.Watcher
	args     []string
	report   func([]FileResult)

	// files are the plain-file arguments, cleaned.
	files map[string]bool

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
}

// NewWatcher creates a watcher over args, which are files or directories
// as accepted by ExpandPaths. report is called with the results of every
// check, starting with an initial one when Run begins.
func (c *Compiler) NewWatcher(args []string, report func([]FileResult)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		compiler: c,
		watcher:  fsWatcher,
		args:     args,
		report:   report,
		files:    make(map[string]bool),
		Debounce: DefaultDebounce,
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if info.IsDir() {
			err = w.watchDirRecursive(arg)
		} else {
			w.files[filepath.Clean(arg)] = true
			err = fsWatcher.Add(filepath.Dir(arg))
		}
		if err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", arg, err)
		}
	}
	return w, nil
}

// Run checks once, then re-checks after every relevant change until ctx
// is done. It closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.check(ctx)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && w.underWatchedDir(event.Name) {
					if err := w.watchDirRecursive(event.Name); err != nil {
						w.compiler.logger.Warn("failed to watch directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if !w.relevant(event.Name) {
				continue
			}
			w.compiler.logger.Debug("file changed", "file", event.Name, "op", event.Op.String())
			pending = time.After(w.Debounce)

		case <-pending:
			pending = nil
			w.check(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.compiler.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) check(ctx context.Context) {
	paths, err := w.compiler.ExpandPaths(w.existingArgs())
	if err != nil {
		w.compiler.logger.Warn("failed to list files", "error", err)
		return
	}
	w.report(w.compiler.CheckFiles(ctx, paths))
}

// existingArgs drops arguments that have been deleted since Run began.
func (w *Watcher) existingArgs() []string {
	args := make([]string, 0, len(w.args))
	for _, arg := range w.args {
		if _, err := os.Stat(arg); err == nil {
			args = append(args, arg)
		}
	}
	return args
}

// relevant reports whether a change to path should trigger a re-check.
func (w *Watcher) relevant(path string) bool {
	path = filepath.Clean(path)
	if w.files[path] {
		return true
	}
	if !w.underWatchedDir(path) {
		return false
	}
	ok, err := w.compiler.matches(filepath.Base(path))
	return err == nil && ok
}

// underWatchedDir reports whether path lies below a directory argument.
func (w *Watcher) underWatchedDir(path string) bool {
	for _, arg := range w.args {
		if w.files[filepath.Clean(arg)] {
			continue
		}
		rel, err := filepath.Rel(arg, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// watchDirRecursive adds a directory and its subdirectories to the watch
// list, skipping hidden ones.
func (w *Watcher) watchDirRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

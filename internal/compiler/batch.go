package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// CheckFile reads and checks one file.
func (c *Compiler) CheckFile(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return c.Check(string(source), path), nil
}

// FileResult pairs a path with its outcome. Err is set when the file
// could not be checked at all; diagnostics go in Result.
type FileResult struct {
	Path   string
	Result *Result
	Err    error
}

// CheckFiles checks every path with up to Batch.Workers files in flight
// and Batch.Timeout as the overall deadline. Results come back in the
// order of paths. Files not started before the deadline get the context
// error.
func (c *Compiler) CheckFiles(ctx context.Context, paths []string) []FileResult {
	if timeout := c.cfg.Batch.Timeout.Duration; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	workers := c.cfg.Batch.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	start := time.Now()
	results := make([]FileResult, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := c.CheckFile(ctx, paths[i])
				results[i] = FileResult{Path: paths[i], Result: res, Err: err}
			}
		}()
	}

feed:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(paths); j++ {
				results[j] = FileResult{Path: paths[j], Err: ctx.Err()}
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil || !r.Result.OK() {
			failed++
		}
	}
	c.logger.Debug("batch finished",
		"files", len(paths),
		"failed", failed,
		"workers", workers,
		"duration", time.Since(start),
	)
	return results
}

// ExpandPaths turns command-line arguments into a sorted list of files.
// Directories are walked recursively, keeping files whose base name
// matches one of Batch.Patterns and skipping hidden directories. Plain
// files are kept as given.
func (c *Compiler) ExpandPaths(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != arg {
					return filepath.SkipDir
				}
				return nil
			}
			ok, err := c.matches(d.Name())
			if err != nil {
				return err
			}
			if ok {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func (c *Compiler) matches(name string) (bool, error) {
	for _, pattern := range c.cfg.Batch.Patterns {
		ok, err := filepath.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

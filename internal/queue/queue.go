// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package queue holds the ordered list of files waiting to be converted or
// merged.
package queue

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
)

// FileQueue is an ordered set of file paths. Insertion order is kept; merge
// output follows it. A FileQueue is not safe for concurrent use.
type FileQueue struct {
	paths []string
	index map[string]bool
}

// New returns a queue holding paths, duplicates dropped.
func New(paths ...string) *FileQueue {
	q := &FileQueue{index: make(map[string]bool)}
	q.Add(paths...)
	return q
}

// Add appends paths not already queued and returns how many were added.
// Empty strings are ignored.
func (q *FileQueue) Add(paths ...string) int {
	added := 0
	for _, p := range paths {
		if p == "" || q.index[p] {
			continue
		}
		q.index[p] = true
		q.paths = append(q.paths, p)
		added++
	}
	return added
}

// AddFolder queues every regular file under dir, recursively, sorted by
// path. It returns how many were added.
func (q *FileQueue) AddFolder(dir string) (int, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)
	return q.Add(files...), nil
}

// Remove drops path from the queue and reports whether it was present.
func (q *FileQueue) Remove(path string) bool {
	if !q.index[path] {
		return false
	}
	delete(q.index, path)
	for i, p := range q.paths {
		if p == path {
			q.paths = append(q.paths[:i], q.paths[i+1:]...)
			break
		}
	}
	return true
}

// Clear empties the queue.
func (q *FileQueue) Clear() {
	q.paths = nil
	q.index = make(map[string]bool)
}

// Len returns the number of queued files.
func (q *FileQueue) Len() int { return len(q.paths) }

// Contains reports whether path is queued.
func (q *FileQueue) Contains(path string) bool { return q.index[path] }

// Paths returns a copy of the queued paths in insertion order.
func (q *FileQueue) Paths() []string {
	out := make([]string, len(q.paths))
	copy(out, q.paths)
	return out
}

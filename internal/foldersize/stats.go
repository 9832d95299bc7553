package foldersize

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	set "github.com/deckarep/golang-set/v2"
)

// Index holds the accumulated size of every directory visited by a walk.
type Index struct {
	// Root is the absolute path the walk started from.
	Root string `json:"root"`
	// Sizes maps absolute directory paths to the total bytes of all files below them.
	Sizes map[string]int64 `json:"sizes"`
	// FileCount is the number of files that contributed to the totals.
	FileCount int64 `json:"file_count"`
	// TotalBytes is the size of the whole filtered subtree.
	TotalBytes int64 `json:"total_bytes"`
	// ErrorCount is the number of entries that could not be read.
	ErrorCount int64 `json:"error_count"`
	// Skipped lists directories that could not be listed, sorted.
	Skipped []string `json:"skipped,omitempty"`
	// Elapsed is the total time taken by the walk.
	Elapsed time.Duration `json:"elapsed"`
}

// collector aggregates sizes from concurrent fastwalk callbacks using a mutex.
type collector struct {
	mu         sync.Mutex // Protect concurrent access
	root       string
	local      map[string]int64
	fileCount  int64
	totalBytes int64
	errorCount int64
	skipped    set.Set[string]
}

// newCollector creates a collector for a walk starting at root.
func newCollector(root string) *collector {
	return &collector{
		root:    root,
		local:   map[string]int64{root: 0},
		skipped: set.NewSet[string](),
	}
}

// addDir records a visited directory so that it is reported even when empty.
func (c *collector) addDir(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.local[path]; !ok {
		c.local[path] = 0
	}
}

// addFile adds size to the local total of the directory holding path.
func (c *collector) addFile(path string, size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fileCount++
	c.totalBytes += size
	c.local[filepath.Dir(path)] += size
}

// addError increments the error counter. This operation is protected by a mutex
// since fastwalk calls the callback from multiple goroutines concurrently.
func (c *collector) addError() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errorCount++
}

// skip drops a directory that could not be listed. It keeps no entry and
// contributes nothing to its ancestors.
func (c *collector) skip(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errorCount++
	delete(c.local, path)
	c.skipped.Add(path)
}

// progress returns the running file and byte counts.
func (c *collector) progress() (int64, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fileCount, c.totalBytes
}

// finalize propagates every local total to all ancestors up to the root
// and produces the final Index.
func (c *collector) finalize() *Index {
	c.mu.Lock()
	defer c.mu.Unlock()

	sizes := make(map[string]int64, len(c.local))
	dirs := make([]string, 0, len(c.local))

	for dir, size := range c.local {
		// A listing can fail after some subdirectories were already queued.
		if c.insideSkipped(dir) {
			continue
		}

		sizes[dir] = size
		dirs = append(dirs, dir)
	}

	// Deepest first, so each directory is complete before it is added to its parent.
	slices.SortFunc(dirs, func(a, b string) int {
		return cmp.Compare(depth(b), depth(a))
	})

	for _, dir := range dirs {
		if dir == c.root {
			continue
		}

		parent := filepath.Dir(dir)
		if _, ok := sizes[parent]; ok {
			sizes[parent] += sizes[dir]
		}
	}

	skipped := c.skipped.ToSlice()
	slices.Sort(skipped)

	return &Index{
		Root:       c.root,
		Sizes:      sizes,
		FileCount:  c.fileCount,
		TotalBytes: sizes[c.root],
		ErrorCount: c.errorCount,
		Skipped:    skipped,
	}
}

// insideSkipped reports whether dir or one of its ancestors below the root
// could not be listed. Callers hold c.mu.
func (c *collector) insideSkipped(dir string) bool {
	if c.skipped.Cardinality() == 0 {
		return false
	}

	for ; dir != c.root; dir = filepath.Dir(dir) {
		if c.skipped.Contains(dir) {
			return true
		}

		if parent := filepath.Dir(dir); parent == dir {
			return false
		}
	}

	return false
}

// depth orders absolute paths: a directory is always deeper than its parent,
// except for a volume root, which is never propagated.
func depth(path string) int {
	return strings.Count(path, string(filepath.Separator))
}

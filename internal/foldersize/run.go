package foldersize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// Options configures a directory size scan.
type Options struct {
	// Path is the directory to scan.
	Path string
	// Filter excludes entries by name; nil excludes nothing.
	Filter *Filter
	// Jobs is the number of walker goroutines (0=fastwalk default).
	Jobs int
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Log receives debug output; defaults to os.Stderr.
	Log io.Writer
}

// logger provides conditional debug output, serialized across walker goroutines.
type logger struct {
	enabled bool
	w       io.Writer
	mu      *sync.Mutex
}

// printf prints debug output if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if !l.enabled {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.w, format, args...)
}

// reportProgress calls hook with the running totals of c every interval.
// The returned stop function blocks until the last call to hook has returned.
func reportProgress(c *collector, hook func(files, bytes int64), interval time.Duration) (stop func()) {
	if hook == nil {
		return func() {}
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	quit := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				hook(c.progress())
			}
		}
	}()

	return sync.OnceFunc(func() {
		close(quit)
		<-done
	})
}

// Resolve returns the absolute form of path after checking that it is
// an existing, listable directory.
func Resolve(path string) (string, error) {
	if path == "" {
		path = "."
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrNotFound, path)
		}

		return "", &AccessError{Path: abs, Err: err}
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%w: %q", ErrNotDirectory, path)
	}

	dir, err := os.Open(abs)
	if err != nil {
		return "", &AccessError{Path: abs, Err: err}
	}
	defer dir.Close()

	if _, err := dir.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return "", &AccessError{Path: abs, Err: err}
	}

	return abs, nil
}

// Aggregate walks the directory tree at opt.Path and returns the total size
// of every directory in it. Directories and files whose basename matches
// opt.Filter are skipped; an excluded directory is not descended into.
//
// Directories that cannot be listed are skipped and counted in the
// index's ErrorCount; only problems with the root itself are returned.
//
// The walk can be cancelled via ctx, in which case the returned error
// wraps ErrCancelled. Progress updates are sent to progressHook if provided;
// it is never called after Aggregate returns.
//
//nolint:funlen // Walk callback is kept inline.
func Aggregate(ctx context.Context, opt Options, progressHook func(int64, int64)) (*Index, error) {
	if opt.Log == nil {
		opt.Log = os.Stderr
	}

	log := logger{enabled: opt.Debug, w: opt.Log, mu: &sync.Mutex{}}

	root, err := Resolve(opt.Path)
	if err != nil {
		return nil, err
	}

	log.printf("[debug]: scanning %s\n", root)

	if opt.Filter.String() != "" {
		log.printf("[debug]: exclude regex: %s\n", opt.Filter.String())
	}

	collector := newCollector(root)

	stopProgress := reportProgress(collector, progressHook, opt.ProgressInterval)
	defer stopProgress()

	start := time.Now()

	conf := &fastwalk.Config{
		Follow:     false, // Symlinks are reported as entries, never traversed
		NumWorkers: opt.Jobs,
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return &AccessError{Path: path, Err: err}
			}

			log.printf("[debug]: skipping unreadable directory %s: %v\n", path, err)
			collector.skip(path)

			return nil
		}

		// Check cancellation periodically
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == root {
			return nil
		}

		if opt.Filter.Excludes(path, d.IsDir()) {
			if d.IsDir() {
				log.printf("[debug]: excluding directory: %s\n", path)

				return filepath.SkipDir
			}

			log.printf("[debug]: excluding file: %s\n", path)

			return nil
		}

		if d.IsDir() {
			collector.addDir(path)

			return nil
		}

		info, err := d.Info()
		if err != nil {
			log.printf("[debug]: cannot read size of %s: %v\n", path, err)
			collector.addError()

			return nil //nolint:nilerr // Unreadable files contribute nothing
		}

		collector.addFile(path, info.Size())

		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrCancelled, walkErr)
		}

		return nil, walkErr
	}

	index := collector.finalize()

	index.Elapsed = time.Since(start)

	log.printf("[debug]: %d directories, %d files, %d errors in %v\n",
		len(index.Sizes), index.FileCount, index.ErrorCount, index.Elapsed)

	return index, nil
}

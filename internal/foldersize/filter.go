package foldersize

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"

	gitignore "github.com/monochromegane/go-gitignore"
)

// Filter decides which directory entries are left out of a walk.
// A nil Filter excludes nothing.
type Filter struct {
	pattern *regexp.Regexp
	ignore  gitignore.IgnoreMatcher
}

// NewFilter compiles pattern into a Filter matching entry basenames.
// An empty pattern yields a Filter that matches nothing.
func NewFilter(pattern string) (*Filter, error) {
	if pattern == "" {
		return &Filter{}, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
	}

	return &Filter{pattern: re}, nil
}

// LoadGitignore layers the rules of root/.gitignore on top of the pattern.
// A missing .gitignore is not an error.
func (f *Filter) LoadGitignore(root string) error {
	path := filepath.Join(root, ".gitignore")

	matcher, err := gitignore.NewGitIgnore(path, root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("reading %q: %w", path, err)
	}

	f.ignore = matcher

	return nil
}

// Match reports whether the basename name matches the exclusion pattern.
func (f *Filter) Match(name string) bool {
	if f == nil || f.pattern == nil {
		return false
	}

	return f.pattern.MatchString(name)
}

// Excludes reports whether the entry at path should be skipped.
func (f *Filter) Excludes(path string, isDir bool) bool {
	if f == nil {
		return false
	}

	if f.Match(filepath.Base(path)) {
		return true
	}

	return f.ignore != nil && f.ignore.Match(path, isDir)
}

// String returns the source pattern.
func (f *Filter) String() string {
	if f == nil || f.pattern == nil {
		return ""
	}

	return f.pattern.String()
}

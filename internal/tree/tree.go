// Package tree renders a directory hierarchy as indented text.
package tree

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/idelchi/dirtools/internal/foldersize"
)

// Glyphs used to draw branches.
const (
	horizontal = "-"
	vertical   = "|"
	corner     = "└"
	branch     = "├"
)

// Defaults for the indentation options.
const (
	DefaultVerticalTab   = 4
	DefaultHorizontalTab = 0
)

// Options configures tree rendering.
type Options struct {
	// Path is the directory to render.
	Path string
	// Filter excludes files and directories by name.
	Filter *foldersize.Filter
	// DirsOnly leaves files out of the tree.
	DirsOnly bool
	// VerticalTab is the indentation width of each level.
	VerticalTab int
	// HorizontalTab is the number of spacer lines drawn before each entry.
	HorizontalTab int
	// Color highlights directory names when the terminal supports it.
	Color bool
	// Log receives warnings about unreadable directories; nil discards them.
	Log io.Writer
}

type item struct {
	path   string
	name   string
	prefix string
	isLast bool
	isDir  bool
}

// Render writes the tree rooted at opt.Path to w and returns the number of
// entries below the root.
func Render(w io.Writer, opt Options) (int, error) {
	root, err := foldersize.Resolve(opt.Path)
	if err != nil {
		return 0, err
	}

	if opt.Log == nil {
		opt.Log = io.Discard
	}

	tab := max(opt.VerticalTab, 0)
	edge := strings.Repeat(horizontal, max(tab-1, 0)) + " "
	dirName := color.New(color.FgBlue, color.Bold).SprintFunc()

	if _, err := fmt.Fprintln(w, filepath.Base(root)); err != nil {
		return 0, err
	}

	children, err := list(root, "", opt)
	if err != nil {
		return 0, fmt.Errorf("listing %q: %w", root, err)
	}

	stack := children
	count := 0

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++

		var sb strings.Builder

		for range opt.HorizontalTab {
			sb.WriteString(it.prefix + vertical + "\n")
		}

		sb.WriteString(it.prefix)

		if it.isLast {
			sb.WriteString(corner)
		} else {
			sb.WriteString(branch)
		}

		sb.WriteString(edge)

		if it.isDir {
			if opt.Color && !color.NoColor {
				sb.WriteString(dirName(it.name))
			} else {
				sb.WriteString(it.name)
			}

			sb.WriteString("/")
		} else {
			sb.WriteString(it.name)
		}

		sb.WriteString("\n")

		if _, err := io.WriteString(w, sb.String()); err != nil {
			return count, err
		}

		if !it.isDir {
			continue
		}

		deeper := it.prefix
		if it.isLast {
			deeper += " "
		} else {
			deeper += vertical
		}

		deeper += strings.Repeat(" ", tab)

		children, err := list(it.path, deeper, opt)
		if err != nil {
			fmt.Fprintf(opt.Log, "skipping unreadable directory %s: %v\n", it.path, err)

			continue
		}

		stack = append(stack, children...)
	}

	return count, nil
}

// list returns the visible children of dir in reverse name order, ready to
// be pushed on the stack.
func list(dir, prefix string, opt Options) ([]item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	visible := make([]item, 0, len(entries))

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if opt.Filter.Excludes(path, e.IsDir()) {
			continue
		}

		if !e.IsDir() && opt.DirsOnly {
			continue
		}

		visible = append(visible, item{
			path:   path,
			name:   e.Name(),
			prefix: prefix,
			isDir:  e.IsDir(),
		})
	}

	items := make([]item, 0, len(visible))
	for i := len(visible) - 1; i >= 0; i-- {
		it := visible[i]
		it.isLast = i == len(visible)-1
		items = append(items, it)
	}

	return items, nil
}

// Up returns the directory levels above path.
func Up(path string, levels int) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	for range levels {
		abs = filepath.Dir(abs)
	}

	return abs, nil
}

// OutputName returns a file name in dir for the tree of root that does not
// overwrite an existing file.
func OutputName(dir, root string) string {
	base := filepath.Base(root)
	name := filepath.Join(dir, base+"_directory_tree.txt")

	for n := 1; exists(name); n++ {
		name = filepath.Join(dir, fmt.Sprintf("%s_directory_tree(%d).txt", base, n))
	}

	return name
}

func exists(path string) bool {
	_, err := os.Lstat(path)

	return err == nil
}

// Package filediff compares two text files line by line and renders the
// differing runs as labelled blocks.
package filediff

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// ErrTypeMismatch reports files whose guessed MIME types differ.
var ErrTypeMismatch = errors.New("files have different MIME types")

const (
	blockStart = "\n##### DIFFERENCE IN FILES #####\n"
	blockEnd   = "\n############# END #############\n\n"
)

// Result is the outcome of comparing two files.
type Result struct {
	// Text is the merged content with differing runs wrapped in blocks.
	Text string
	// Identical is true when the files have the same lines.
	Identical bool
}

// Compare reads both files and diffs them. Both files must exist and share
// the MIME type guessed from their extensions.
func Compare(path1, path2 string) (*Result, error) {
	var missing []string

	for _, p := range []string{path1, path2} {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, p)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("file(s) %s: %w", strings.Join(missing, ", "), fs.ErrNotExist)
	}

	type1 := mime.TypeByExtension(filepath.Ext(path1))
	type2 := mime.TypeByExtension(filepath.Ext(path2))

	if type1 != type2 {
		return nil, fmt.Errorf("%w:\n%s:\t%s\n%s:\t%s", ErrTypeMismatch, path1, type1, path2, type2)
	}

	text1, err := os.ReadFile(path1)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path1, err)
	}

	text2, err := os.ReadFile(path2)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path2, err)
	}

	return Lines(filepath.Base(path1), string(text1), filepath.Base(path2), string(text2)), nil
}

// Lines diffs two texts line by line. name1 and name2 label the blocks.
func Lines(name1, text1, name2, text2 string) *Result {
	dmp := diffpatch.New()

	chars1, chars2, lines := dmp.DiffLinesToChars(terminate(text1), terminate(text2))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lines)

	identical := true

	for _, d := range diffs {
		if d.Type != diffpatch.DiffEqual {
			identical = false

			break
		}
	}

	return &Result{
		Text:      format(diffs, name1, name2),
		Identical: identical,
	}
}

// format copies equal lines through and wraps each run of deleted and
// inserted lines in a block naming the file they come from.
func format(diffs []diffpatch.Diff, name1, name2 string) string {
	var (
		out, pending strings.Builder
		inFirst      bool
		inSecond     bool
	)

	fromFirst := fmt.Sprintf("\nFROM FILE %s :\n", name1)
	fromSecond := fmt.Sprintf("\nFROM FILE %s :\n", name2)

	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffpatch.DiffEqual:
				if inFirst || inSecond {
					pending.WriteString(blockEnd)
					inFirst, inSecond = false, false
				}

				out.WriteString(pending.String())
				pending.Reset()
				out.WriteString(line)
			case diffpatch.DiffDelete:
				if !inFirst {
					if !inSecond {
						pending.WriteString(blockStart)
					}

					pending.WriteString(fromFirst)
					inFirst, inSecond = true, false
				}

				pending.WriteString(line)
			case diffpatch.DiffInsert:
				if !inSecond {
					if !inFirst {
						pending.WriteString(blockStart)
					}

					pending.WriteString(fromSecond)
					inFirst, inSecond = false, true
				}

				pending.WriteString(line)
			}
		}
	}

	if pending.Len() > 0 {
		out.WriteString(pending.String())
		out.WriteString(blockEnd)
	}

	return out.String()
}

// terminate makes sure a non-empty text ends with a newline.
func terminate(text string) string {
	if text != "" && !strings.HasSuffix(text, "\n") {
		return text + "\n"
	}

	return text
}

func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// OutputName returns the path of the diff file written next to path1,
// numbered so that no existing file is overwritten.
func OutputName(path1, path2 string) string {
	dir := filepath.Dir(path1)
	name1 := filepath.Base(path1)
	stem := strings.TrimSuffix(name1, filepath.Ext(name1))

	name := filepath.Join(dir, "difference_"+stem+"_"+filepath.Base(path2))
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := name
	for n := 1; exists(candidate); n++ {
		candidate = fmt.Sprintf("%s_%d%s", base, n, ext)
	}

	return candidate
}

func exists(path string) bool {
	_, err := os.Lstat(path)

	return err == nil
}

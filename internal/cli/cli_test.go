package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/dirtools/internal/filediff"
	"github.com/idelchi/dirtools/internal/foldersize"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := New("test").Command()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

// sizedTree builds root{a, b, X{c}} with sizes scaled by factor.
func sizedTree(t *testing.T, factor int) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "X"), 0o755))

	for name, size := range map[string]int{"a": 100, "b": 200, "X/c": 300} {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.WriteFile(path, make([]byte, size*factor), 0o644))
	}

	return root
}

func TestSizeReport(t *testing.T) {
	root := sizedTree(t, 1)

	stdout, stderr, err := run(t, "size", "-d", root, "-u", "b")
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("600 b:\t%s\n300 b:\t%s\n", root, filepath.Join(root, "X")), stdout)
	assert.Empty(t, stderr)
}

func TestSizeExclude(t *testing.T) {
	root := sizedTree(t, 1)

	stdout, _, err := run(t, "size", "--directory", root, "--unit", "B", "--exclude", "X")
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("300 b:\t%s\n", root), stdout)
}

func TestSizeThreshold(t *testing.T) {
	root := sizedTree(t, 10)

	stdout, _, err := run(t, "size", "-d", root, "-u", "bit", "-t", "4")
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("48000 bit:\t%s\n", root), stdout)
}

func TestSizeThresholdLimit(t *testing.T) {
	root := sizedTree(t, 1)

	stdout, _, err := run(t, "size", "-d", root, "-u", "b", "-t", "9223372036854775")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	_, _, err = run(t, "size", "-d", root, "-u", "b", "-t", "9223372036854776")
	require.ErrorIs(t, err, foldersize.ErrArgument)
}

func TestSizeGitignore(t *testing.T) {
	root := sizedTree(t, 1)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("X\n"), 0o644))

	stdout, _, err := run(t, "size", "-d", root, "-u", "b")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("602 b:\t%s\n300 b:\t%s\n", root, filepath.Join(root, "X")), stdout)

	stdout, _, err = run(t, "size", "-d", root, "-u", "b", "--gitignore")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("302 b:\t%s\n", root), stdout)
}

func TestSizePositionalPath(t *testing.T) {
	root := sizedTree(t, 1)

	stdout, _, err := run(t, "size", "-u", "kb", root)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("0 kb:\t%s\n0 kb:\t%s\n", root, filepath.Join(root, "X")), stdout)
}

func TestSizeStructuredOutput(t *testing.T) {
	root := sizedTree(t, 1)

	stdout, _, err := run(t, "size", "-d", root, "-u", "b", "-o", "json")
	require.NoError(t, err)

	var report sizeReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	assert.Equal(t, root, report.Root)
	assert.Equal(t, int64(600), report.TotalBytes)
	assert.Equal(t, int64(3), report.FileCount)
	require.Len(t, report.Directories, 2)
	assert.Equal(t, foldersize.Row{Path: root, Size: 600, Unit: "b", Bytes: 600}, report.Directories[0])

	stdout, _, err = run(t, "size", "-d", root, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "directories:")
	assert.Contains(t, stdout, "total_bytes: 600")
}

func TestSizeConfigAndEnvironment(t *testing.T) {
	root := sizedTree(t, 1)

	config := filepath.Join(t.TempDir(), "dirtools.yaml")
	require.NoError(t, os.WriteFile(config, []byte("size:\n  unit: bit\n  exclude: X\n"), 0o644))

	stdout, _, err := run(t, "--config", config, "size", "-d", root)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("2400 bit:\t%s\n", root), stdout)

	// Flags win over the config file.
	stdout, _, err = run(t, "--config", config, "size", "-d", root, "-u", "b")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("300 b:\t%s\n", root), stdout)

	t.Setenv("DIRTOOLS_SIZE_UNIT", "b")

	stdout, _, err = run(t, "size", "-d", root)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "600 b:\t"), stdout)
}

func TestSizeErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	tests := []struct {
		name string
		args []string
		want error
		code int
	}{
		{"missing root", []string{"size", "-d", missing}, foldersize.ErrNotFound, ExitPath},
		{"invalid unit", []string{"size", "-d", missing, "-u", "parsec"}, foldersize.ErrInvalidUnit, ExitUsage},
		{"invalid pattern", []string{"size", "-d", missing, "-e", "("}, foldersize.ErrInvalidPattern, ExitUsage},
		{"negative threshold", []string{"size", "-d", missing, "-t", "-1"}, foldersize.ErrArgument, ExitUsage},
		{"threshold overflow", []string{"size", "-d", missing, "-t", "9300000000000000"}, foldersize.ErrArgument, ExitUsage},
		{"unknown output", []string{"size", "-o", "xml"}, foldersize.ErrArgument, ExitUsage},
		{"unknown flag", []string{"size", "--bogus"}, foldersize.ErrArgument, ExitUsage},
		{"too many args", []string{"size", "a", "b"}, foldersize.ErrArgument, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := run(t, tt.args...)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.code, ExitCode(err))
			assert.Empty(t, stdout)
		})
	}
}

func TestTreeCommand(t *testing.T) {
	root := sizedTree(t, 1)

	stdout, stderr, err := run(t, "tree", "-p", root, "--vertical-tab", "2")
	require.NoError(t, err)

	assert.Equal(t, filepath.Base(root)+"\n├- X/\n|  └- c\n├- a\n└- b\n", stdout)
	assert.Contains(t, stderr, "4 elements found")
}

func TestTreeCommandToFile(t *testing.T) {
	root := sizedTree(t, 1)
	t.Chdir(t.TempDir())

	stdout, _, err := run(t, "tree", "-p", filepath.Join(root, "X"), "-f")
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	name := filepath.Join(cwd, "X_directory_tree.txt")
	assert.Equal(t, "Directory tree saved to "+name+"\n", stdout)

	content, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "X\n└--- c\n", string(content))
}

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	one := filepath.Join(dir, "one.txt")
	two := filepath.Join(dir, "two.txt")

	require.NoError(t, os.WriteFile(one, []byte("a\nb\n"), 0o644))
	require.NoError(t, os.WriteFile(two, []byte("a\nc\n"), 0o644))

	stdout, _, err := run(t, "diff", "--stdout", one, two)
	require.NoError(t, err)
	assert.Contains(t, stdout, "FROM FILE one.txt :\nb\n")

	stdout, _, err = run(t, "diff", one, two)
	require.NoError(t, err)

	created := filepath.Join(dir, "difference_one_two.txt")
	assert.Equal(t, created+" file was created\n", stdout)
	assert.FileExists(t, created)

	stdout, _, err = run(t, "diff", one, one)
	require.NoError(t, err)
	assert.Equal(t, "Files are identical\n", stdout)

	_, _, err = run(t, "diff", one, filepath.Join(dir, "nope.txt"))
	assert.Equal(t, ExitPath, ExitCode(err))

	_, _, err = run(t, "diff", one)
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "dirtools version test\n", stdout)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitCancelled, ExitCode(fmt.Errorf("%w: %w", foldersize.ErrCancelled, context.Canceled)))
	assert.Equal(t, ExitPath, ExitCode(&foldersize.AccessError{Path: "/x", Err: os.ErrPermission}))
	assert.Equal(t, ExitUsage, ExitCode(filediff.ErrTypeMismatch))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abcdef", truncate("abcdef", 0))
	assert.Equal(t, "ab", truncate("abcdef", tabWidth+2))
	assert.Equal(t, "äö", truncate("äöü", tabWidth+2))
	assert.Equal(t, "abc", truncate("abc", 80))
}

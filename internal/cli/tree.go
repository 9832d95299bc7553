package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/dirtools/internal/foldersize"
	"github.com/idelchi/dirtools/internal/tree"
)

func newTreeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [flags]",
		Short: "Print a directory hierarchy as a tree",
		Long: heredoc.Doc(`
			tree prints the files and directories below a path as an indented tree.
			Directories are marked with a trailing slash. Entries whose name matches
			the exclude pattern are left out together with their contents.
		`),
		Args: argsExactly(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTree(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.StringP("path", "p", ".", "Directory to visualize")
	flags.IntP("up", "u", 0, "Visualize the directory this many levels above path")
	flags.BoolP("file", "f", false, "Write the tree to <dir>_directory_tree.txt instead of stdout")
	flags.Int("vertical-tab", tree.DefaultVerticalTab, "Indentation width of each level")
	flags.Int("horizontal-tab", tree.DefaultHorizontalTab, "Spacer lines drawn before each entry")
	flags.StringP("exclude", "e", "", "Regex matched against names to exclude")
	flags.BoolP("dirs-only", "D", false, "Show directories only")
	bindFlags(v, "tree", flags)

	return cmd
}

func runTree(cmd *cobra.Command, v *viper.Viper) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	up := v.GetInt("tree.up")
	vtab := v.GetInt("tree.vertical-tab")
	htab := v.GetInt("tree.horizontal-tab")

	if up < 0 || vtab < 0 || htab < 0 {
		return fmt.Errorf("%w: up, vertical-tab and horizontal-tab cannot be negative", foldersize.ErrArgument)
	}

	filter, err := foldersize.NewFilter(v.GetString("tree.exclude"))
	if err != nil {
		return err
	}

	path, err := tree.Up(v.GetString("tree.path"), up)
	if err != nil {
		return err
	}

	toFile := v.GetBool("tree.file")

	if v.GetBool("debug") {
		fmt.Fprintf(stderr, "[debug]: directory: %s\n", path)
		fmt.Fprintf(stderr, "[debug]: vertical tab: %d, horizontal tab: %d\n", vtab, htab)
		fmt.Fprintf(stderr, "[debug]: exclude: %q, dirs only: %t, to file: %t\n",
			filter.String(), v.GetBool("tree.dirs-only"), toFile)
	}

	opts := tree.Options{
		Path:          path,
		Filter:        filter,
		DirsOnly:      v.GetBool("tree.dirs-only"),
		VerticalTab:   vtab,
		HorizontalTab: htab,
		Color:         !toFile && isTerminal(stdout),
		Log:           stderr,
	}

	var (
		buf bytes.Buffer
		out io.Writer = stdout
	)

	if toFile {
		out = &buf
	}

	count, err := tree.Render(out, opts)
	if err != nil {
		return err
	}

	printer.Fprintf(stderr, "Directory scanned, %d elements found.\n", count)

	if !toFile {
		return nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	name := tree.OutputName(cwd, path)

	if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil { //nolint:gosec // Plain text report
		return fmt.Errorf("writing tree: %w", err)
	}

	fmt.Fprintln(stdout, "Directory tree saved to", name)

	return nil
}

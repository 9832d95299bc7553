package cli

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/dirtools/internal/filediff"
)

func newDiffCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [flags] FILE1 FILE2",
		Short: "Compare two text files line by line",
		Long: heredoc.Doc(`
			diff compares two files of the same type line by line. Lines present in
			both are copied through; runs of differing lines are wrapped in blocks
			that name the file each line comes from.

			The result is written to difference_<FILE1 stem>_<FILE2 name> next to
			FILE1 unless --stdout is given. Nothing is written for identical files.
		`),
		Args: argsExactly(2), //nolint:mnd // Two files
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, v, args[0], args[1])
		},
	}

	cmd.Flags().Bool("stdout", false, "Print the result instead of writing a file")
	bindFlags(v, "diff", cmd.Flags())

	return cmd
}

func runDiff(cmd *cobra.Command, v *viper.Viper, path1, path2 string) error {
	stdout := cmd.OutOrStdout()

	result, err := filediff.Compare(path1, path2)
	if err != nil {
		return err
	}

	if result.Identical {
		fmt.Fprintln(stdout, "Files are identical")

		return nil
	}

	if v.GetBool("diff.stdout") {
		_, err := fmt.Fprint(stdout, result.Text)

		return err
	}

	name := filediff.OutputName(path1, path2)

	if err := os.WriteFile(name, []byte(result.Text), 0o644); err != nil { //nolint:gosec // Plain text report
		return fmt.Errorf("writing difference file: %w", err)
	}

	fmt.Fprintln(stdout, name, "file was created")

	return nil
}

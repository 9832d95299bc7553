package cli

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/dirtools/internal/foldersize"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute(ctx context.Context) error {
	return c.Command().ExecuteContext(ctx)
}

// Command builds the root command and its subcommands. Each call gets its
// own configuration, so commands can be built and run independently.
func (c CLI) Command() *cobra.Command {
	v := viper.New()

	var cfgFile string

	root := &cobra.Command{
		Use:   "dirtools",
		Short: "Directory size, tree and file diff utilities",
		Long: heredoc.Doc(`
			dirtools bundles small filesystem utilities:

			  size   report the total size of every directory below a root
			  tree   print a directory hierarchy as a tree
			  diff   compare two text files line by line

			Flags can also be set through a config file (dirtools.yaml in
			~/.config/dirtools, ~/.config or the current directory) or through
			DIRTOOLS_<COMMAND>_<FLAG> environment variables.
		`),
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return loadConfig(v, cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: search for dirtools.yaml)")
	root.PersistentFlags().Bool("debug", false, "Enable debug output")
	bindFlags(v, "", root.PersistentFlags())

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", foldersize.ErrArgument, err)
	})

	root.AddCommand(
		newSizeCommand(v),
		newTreeCommand(v),
		newDiffCommand(v),
		newInitCommand(),
	)

	return root
}

// argsAtMost is cobra.MaximumNArgs reporting an argument error.
func argsAtMost(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) > n {
			return fmt.Errorf("%w: accepts at most %d arg(s), received %d", foldersize.ErrArgument, n, len(args))
		}

		return nil
	}
}

// argsExactly is cobra.ExactArgs reporting an argument error.
func argsExactly(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: accepts %d arg(s), received %d", foldersize.ErrArgument, n, len(args))
		}

		return nil
	}
}

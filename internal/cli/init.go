package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idelchi/dirtools/internal/integration"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Output the zsh integration script",
		Long:  "init prints a zsh function 'dsize' that pipes the size report into fzf and changes into the picked directory.",
		Args:  argsExactly(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			rendered, err := integration.Render()
			if err != nil {
				return fmt.Errorf("rendering integration script: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), rendered)

			return nil
		},
	}
}

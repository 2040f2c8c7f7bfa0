package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ledger/internal/shell"
)

func newShellCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run the interactive inventory menu",
		Long: `Load the inventory and run the numbered menu. Changes are kept in
memory and written once when you choose Exit; ending input any other way
discards them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), shell.LoadOutcome(a.store.Location(), a.loadErr))

			s := shell.NewSession(a.catalog, a.store, cmd.InOrStdin(), cmd.OutOrStdout(), a.log)
			if err := s.Run(cmd.Context()); err != nil {
				return systemError(err)
			}
			return nil
		},
	}
}

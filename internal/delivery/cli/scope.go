package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScopeCommand(opts *RootOptions, deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scope",
		Short: "Manage the scope itself",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "end",
		Short: "Discard every record of the scope",
		Long:  "Discard every record of the scope, as closing the browser would. The next request under the scope starts from the seed data.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Sessions.EndScope(opts.context(cmd)); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Scope %s ended\n", opts.Scope)

			return err
		},
	})

	return cmd
}

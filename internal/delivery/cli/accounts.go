package cli

import (
	"github.com/spf13/cobra"
)

func newAccountsCommand(opts *RootOptions, deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts of the scope",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := deps.Accounts.ListAccounts(opts.context(cmd))
			if err != nil {
				return err
			}

			return writeAccounts(cmd.OutOrStdout(), opts.Format, accounts)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "staff",
		Short: "List staff accounts, active or not",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			staff, err := deps.Accounts.ListStaff(opts.context(cmd))
			if err != nil {
				return err
			}

			return writeAccounts(cmd.OutOrStdout(), opts.Format, staff)
		},
	})

	return cmd
}

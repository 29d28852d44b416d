// Package cli implements logbookctl, the operator tool that inspects one
// scope of a persistent session storage backend.
package cli

import (
	"context"
	"slices"

	deliverycontext "elogbook/internal/delivery/context"
	"elogbook/internal/usecase"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatTable, FormatJSON}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Scope  string
	Format string
}

// Deps are the usecases the commands run against.
type Deps struct {
	Sessions usecase.SessionUsecase
	Accounts usecase.AccountUsecase
	Visits   usecase.VisitUsecase
}

// NewRootCommand creates the root command for logbookctl.
func NewRootCommand(deps Deps) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "logbookctl",
		Short: "Inspect a visitor logbook scope",
		Long: `Inspect the accounts and visits stored under one browser-session scope.

The scope is the UUID carried in the elogbook_scope cookie. Only persistent
storage drivers (sqlite, redis, postgres) can be inspected.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return errors.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Scope == "" {
				return errors.New("--scope is required")
			}

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Scope, "scope", "", "scope ID to inspect")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatTable, "output format (table|json)")

	cmd.AddCommand(newAccountsCommand(opts, deps))
	cmd.AddCommand(newVisitsCommand(opts, deps))
	cmd.AddCommand(newScopeCommand(opts, deps))

	return cmd
}

func (o *RootOptions) context(cmd *cobra.Command) context.Context {
	return deliverycontext.WithScope(cmd.Context(), o.Scope)
}

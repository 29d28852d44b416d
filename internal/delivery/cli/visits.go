package cli

import (
	"context"
	"fmt"

	"elogbook/internal/domain/entity"
	"elogbook/internal/usecase"

	"github.com/spf13/cobra"
)

type visitsListOptions struct {
	Date  string
	From  string
	To    string
	Staff int
}

func newVisitsCommand(opts *RootOptions, deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visits",
		Short: "Report on logged visits",
	}

	listOpts := &visitsListOptions{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List visits by date, date range or staff member",
		Long: `List visits. --date wins over --from/--to; either end of a range may be
left open. --staff narrows any of them to one staff member.

Examples:
  logbookctl visits list --scope $SCOPE --date 2024-01-15
  logbookctl visits list --scope $SCOPE --from 2024-01-01 --staff 2 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := opts.context(cmd)
			visits, err := deps.Visits.ListVisits(ctx, usecase.VisitFilter{
				Date:    listOpts.Date,
				From:    listOpts.From,
				To:      listOpts.To,
				StaffID: listOpts.Staff,
			})
			if err != nil {
				return err
			}

			return renderVisits(ctx, cmd, opts, deps, visits)
		},
	}
	list.Flags().StringVar(&listOpts.Date, "date", "", "single day, YYYY-MM-DD")
	list.Flags().StringVar(&listOpts.From, "from", "", "first day of the range, YYYY-MM-DD")
	list.Flags().StringVar(&listOpts.To, "to", "", "last day of the range, YYYY-MM-DD")
	list.Flags().IntVar(&listOpts.Staff, "staff", 0, "account ID of the staff member who logged the visit")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "List today's visits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := opts.context(cmd)
			visits, err := deps.Visits.ListToday(ctx)
			if err != nil {
				return err
			}

			return renderVisits(ctx, cmd, opts, deps, visits)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "month-count",
		Short: "Count this month's visits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := deps.Visits.MonthCount(opts.context(cmd))
			if err != nil {
				return err
			}

			if opts.Format == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]int{"count": n})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Visits this month: %d\n", n)

			return err
		},
	})

	return cmd
}

func renderVisits(ctx context.Context, cmd *cobra.Command, opts *RootOptions, deps Deps, visits []*entity.VisitEntry) error {
	staff := map[int]string{}
	if opts.Format == FormatTable {
		accounts, err := deps.Accounts.ListAccounts(ctx)
		if err != nil {
			return err
		}
		for _, a := range accounts {
			staff[a.ID] = a.FullName
		}
	}

	return writeVisits(cmd.OutOrStdout(), opts.Format, visits, staff)
}

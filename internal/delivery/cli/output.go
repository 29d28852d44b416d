package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"elogbook/internal/domain/entity"
	"elogbook/internal/usecase"
	"elogbook/internal/util"

	"github.com/pkg/errors"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return errors.WithStack(enc.Encode(v))
}

// table writes tab-separated rows aligned into columns.
func table(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	return errors.WithStack(tw.Flush())
}

func writeAccounts(w io.Writer, format string, accounts []*usecase.AccountView) error {
	if format == FormatJSON {
		return writeJSON(w, accounts)
	}

	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, []string{strconv.Itoa(a.ID), a.Username, a.FullName, a.Role.String(), string(a.Status)})
	}

	return table(w, []string{"ID", "USERNAME", "FULL NAME", "ROLE", "STATUS"}, rows)
}

// writeVisits renders 12-hour times and long dates. staff maps account IDs to
// full names; unknown IDs are printed as "#id".
func writeVisits(w io.Writer, format string, visits []*entity.VisitEntry, staff map[int]string) error {
	if format == FormatJSON {
		if visits == nil {
			visits = []*entity.VisitEntry{}
		}

		return writeJSON(w, visits)
	}

	rows := make([][]string, 0, len(visits))
	for _, v := range visits {
		by, ok := staff[v.LoggedBy]
		if !ok {
			by = "#" + strconv.Itoa(v.LoggedBy)
		}
		rows = append(rows, []string{
			strconv.Itoa(v.ID),
			util.LongDate(v.Date),
			v.VisitorName(),
			string(v.Purpose),
			util.Format12Hour(v.TimeIn),
			util.Format12Hour(v.TimeOut),
			by,
		})
	}

	return table(w, []string{"ID", "DATE", "VISITOR", "PURPOSE", "TIME IN", "TIME OUT", "LOGGED BY"}, rows)
}

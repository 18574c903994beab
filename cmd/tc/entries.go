package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/timeclock/entry"
	"github.com/amonks/timeclock/internal/listflags"
	internalstrings "github.com/amonks/timeclock/internal/strings"
	"github.com/amonks/timeclock/internal/ui"
	"github.com/amonks/timeclock/presenter"
	"github.com/spf13/cobra"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Show time entries grouped by day",
	Args:  cobra.NoArgs,
	RunE:  runEntries,
}

var entriesFlags listflags.List

func init() {
	rootCmd.AddCommand(entriesCmd)
	listflags.AddPageFlags(entriesCmd, &entriesFlags)
	listflags.AddDateFlags(entriesCmd, &entriesFlags)
	listflags.AddJSONFlag(entriesCmd, &entriesFlags.JSON)
}

type entriesPageJSON struct {
	Page    int            `json:"page"`
	Pages   int            `json:"pages"`
	Total   int            `json:"total"`
	Entries []entryRowJSON `json:"entries"`
}

type entryRowJSON struct {
	entry.Entry
	Day    string           `json:"day"`
	Action presenter.Action `json:"action"`
}

func runEntries(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	now := time.Now()
	from, to, err := entriesFlags.Range(s.loc, now)
	if err != nil {
		return validationf("%v", err)
	}
	snap, err := s.refresh(cmd.Context())
	if err != nil {
		return err
	}
	view := presenter.Build(snap, presenter.Options{
		From:     from,
		To:       to,
		Page:     entriesFlags.Page,
		PageSize: entriesFlags.PageSizeOr(s.cfg.PageSize()),
		Location: s.loc,
		Now:      now,
	})

	out := cmd.OutOrStdout()
	if entriesFlags.JSON {
		page := entriesPageJSON{Page: view.Page.Number, Pages: view.Page.Pages, Total: view.Page.Total, Entries: []entryRowJSON{}}
		for _, row := range view.Rows {
			page.Entries = append(page.Entries, entryRowJSON{Entry: row.Entry, Day: row.Day, Action: row.Action})
		}
		return encodeJSON(out, page)
	}

	if view.Page.Total == 0 {
		fmt.Fprintln(out, "No entries")
		return nil
	}
	color := ui.ColorEnabled()
	for i, group := range view.Groups {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, ui.Heading(fmt.Sprintf("%s (%.2fh)", ui.FormatDay(group.Date), group.Hours(now)), color))
		builder := ui.NewTableBuilder([]string{"ID", "TASK", "START", "END", "ELAPSED", "HOURS", "ACTION", "COMMENT"}, len(group.Entries))
		for _, row := range view.Rows {
			if row.Day != group.Day {
				continue
			}
			builder.AddRow(
				row.Entry.ID.String(),
				orDash(row.Entry.Label()),
				ui.FormatTime(&row.Entry.StartTime, s.loc),
				ui.FormatTime(row.Entry.EndTime, s.loc),
				ui.FormatElapsed(row.Elapsed),
				ui.FormatHours(row.Entry.TotalHours),
				ui.ActionLabel(row.Action, color),
				commentCell(row.Entry.Comment),
			)
		}
		fmt.Fprint(out, builder.String())
	}
	fmt.Fprintf(out, "\n%s\n", pageFooter(view.Page))
	return nil
}

// commentCell flattens a multi-line comment onto one table row.
func commentCell(comment string) string {
	return orDash(internalstrings.NormalizeWhitespace(comment))
}

func pageFooter(page presenter.Page[entry.Entry]) string {
	var hints []string
	if page.HasPrev() {
		hints = append(hints, fmt.Sprintf("--page %d for newer", page.Number-1))
	}
	if page.HasNext() {
		hints = append(hints, fmt.Sprintf("--page %d for older", page.Number+1))
	}
	footer := fmt.Sprintf("Page %d of %d (%d entries)", page.Number, page.Pages, page.Total)
	if len(hints) > 0 {
		footer += "; " + strings.Join(hints, ", ")
	}
	return footer
}

// Package listflags holds the flags shared by list commands.
package listflags

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// DateLayout is the format accepted by --from and --to.
const DateLayout = "2006-01-02"

// List carries the parsed values of the shared list flags.
type List struct {
	Page     int
	PageSize int
	From     string
	To       string
	JSON     bool
}

var pageFlagAliases = map[string]string{
	"per-page":  "page-size",
	"page_size": "page-size",
}

var dateFlagAliases = map[string]string{
	"since": "from",
	"until": "to",
}

// AddPageFlags adds --page and --page-size. A zero page size means the
// configured default.
func AddPageFlags(cmd *cobra.Command, target *List) {
	cmd.Flags().IntVar(&target.Page, "page", 1, "Page number to show")
	cmd.Flags().IntVar(&target.PageSize, "page-size", 0, "Rows per page (default from config)")
	setFlagAliases(cmd.Flags(), pageFlagAliases)
}

// AddDateFlags adds --from and --to, also accepted as --since and --until.
func AddDateFlags(cmd *cobra.Command, target *List) {
	cmd.Flags().StringVar(&target.From, "from", "", "Only include entries on or after this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&target.To, "to", "", "Only include entries on or before this day (YYYY-MM-DD)")
	setFlagAliases(cmd.Flags(), dateFlagAliases)
}

func setFlagAliases(flags *pflag.FlagSet, aliases map[string]string) {
	normalize := flags.GetNormalizeFunc()
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		return normalize(f, name)
	})
}

// AddJSONFlag adds --json.
func AddJSONFlag(cmd *cobra.Command, target *bool) {
	cmd.Flags().BoolVar(target, "json", false, "Output JSON")
}

// ParseDate parses a --from or --to value in loc. Blank yields the zero time.
// "today" and "yesterday" are accepted.
func ParseDate(value string, loc *time.Location, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.Local
	}
	today := now.In(loc)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	switch strings.ToLower(value) {
	case "":
		return time.Time{}, nil
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	parsed, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", value)
	}
	return parsed, nil
}

// Range parses both date flags and checks their order.
func (l List) Range(loc *time.Location, now time.Time) (time.Time, time.Time, error) {
	from, err := ParseDate(l.From, loc, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := ParseDate(l.To, loc, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", l.To, l.From)
	}
	return from, to, nil
}

// PageSizeOr returns the flag page size, or fallback when unset.
func (l List) PageSizeOr(fallback int) int {
	if l.PageSize > 0 {
		return l.PageSize
	}
	return fallback
}

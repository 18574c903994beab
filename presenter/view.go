package presenter

import (
	"time"

	"github.com/amonks/timeclock/entry"
	"github.com/amonks/timeclock/tracker"
)

// Options controls how a view is built.
type Options struct {
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
	Location *time.Location
	Now      time.Time
}

// Row is one entry line.
type Row struct {
	Entry   entry.Entry
	Day     string
	Action  Action
	Elapsed time.Duration
}

// Card is one assigned task.
type Card struct {
	Task   entry.AssignedTask
	Action Action
}

// View is everything a screen needs from one snapshot.
type View struct {
	State   tracker.State
	Pending bool
	Cards   []Card
	Groups  []DayGroup
	Rows    []Row
	Page    Page[entry.Entry]
}

// Build renders a snapshot. Entries are filtered to the date range, sorted
// newest first, paged, then grouped by day.
func Build(snap tracker.Snapshot, opts Options) View {
	loc := location(opts.Location)
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	view := View{State: snap.State, Pending: snap.Pending}

	for _, task := range snap.Tasks {
		action := TaskAction(task, snap)
		if snap.Pending && action == ActionStart {
			action = ActionUnavailable
		}
		view.Cards = append(view.Cards, Card{Task: task, Action: action})
	}

	filtered := FilterDateRange(snap.Entries, opts.From, opts.To, loc)
	view.Page = Paginate(SortNewestFirst(filtered), opts.Page, opts.PageSize)
	view.Groups = GroupByDate(view.Page.Items, loc)
	for _, group := range view.Groups {
		for _, item := range group.Entries {
			action := EntryAction(item, snap)
			if snap.Pending && action == ActionStop {
				action = ActionUnavailable
			}
			view.Rows = append(view.Rows, Row{
				Entry:   item,
				Day:     group.Day,
				Action:  action,
				Elapsed: entry.Elapsed(item, now),
			})
		}
	}
	return view
}

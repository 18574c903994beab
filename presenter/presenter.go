// Package presenter turns a tracker snapshot into rows and cards for display.
// Every function is pure: a view is rebuilt from scratch for each snapshot.
package presenter

import (
	"sort"
	"time"

	"github.com/amonks/timeclock/entry"
	"github.com/amonks/timeclock/tracker"
)

// DayKeyLayout formats the day an entry belongs to.
const DayKeyLayout = "2006-01-02"

// DefaultPageSize is used when a page size is not positive.
const DefaultPageSize = 10

// Action is the control shown next to an entry or task.
type Action string

const (
	// ActionStop offers to clock out of an open entry.
	ActionStop Action = "stop"
	// ActionCompleted marks a closed entry.
	ActionCompleted Action = "completed"
	// ActionStart offers to clock in to a task.
	ActionStart Action = "start"
	// ActionRunning marks the task currently being timed.
	ActionRunning Action = "running"
	// ActionUnavailable marks a task that cannot start while another runs.
	ActionUnavailable Action = "unavailable"
)

// Enabled reports whether the action is something the user can trigger.
func (a Action) Enabled() bool {
	return a == ActionStop || a == ActionStart
}

// DayGroup holds the entries started on one local day.
type DayGroup struct {
	Day     string
	Date    time.Time
	Entries []entry.Entry
}

// Hours sums the group's elapsed time in hours.
func (g DayGroup) Hours(now time.Time) float64 {
	var total time.Duration
	for _, item := range g.Entries {
		total += entry.Elapsed(item, now)
	}
	return entry.Hours(total)
}

// GroupByDate groups entries by the local day of their start time. Groups
// appear in the order their first entry appears.
func GroupByDate(entries []entry.Entry, loc *time.Location) []DayGroup {
	loc = location(loc)
	var groups []DayGroup
	index := make(map[string]int)
	for _, item := range entries {
		local := item.StartTime.In(loc)
		key := local.Format(DayKeyLayout)
		i, ok := index[key]
		if !ok {
			year, month, day := local.Date()
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Day: key, Date: time.Date(year, month, day, 0, 0, 0, 0, loc)})
		}
		groups[i].Entries = append(groups[i].Entries, item)
	}
	return groups
}

// FilterDateRange keeps entries whose start falls on or between the local
// days of from and to. A zero bound is open.
func FilterDateRange(entries []entry.Entry, from, to time.Time, loc *time.Location) []entry.Entry {
	loc = location(loc)
	var start, end time.Time
	if !from.IsZero() {
		start = startOfDay(from, loc)
	}
	if !to.IsZero() {
		end = startOfDay(to, loc).AddDate(0, 0, 1)
	}

	filtered := make([]entry.Entry, 0, len(entries))
	for _, item := range entries {
		if !start.IsZero() && item.StartTime.Before(start) {
			continue
		}
		if !end.IsZero() && !item.StartTime.Before(end) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// EntryAction returns the control for an entry row. Only the open entry the
// tracker follows can be stopped; other open entries are unavailable.
func EntryAction(e entry.Entry, snap tracker.Snapshot) Action {
	if !e.Open() {
		return ActionCompleted
	}
	if snap.State.Running() && e.ID == snap.State.EntryID {
		return ActionStop
	}
	return ActionUnavailable
}

// TaskAction returns the control for an assigned-task card.
func TaskAction(task entry.AssignedTask, snap tracker.Snapshot) Action {
	if snap.IsRunning(task) {
		return ActionRunning
	}
	if snap.State.Running() {
		return ActionUnavailable
	}
	return ActionStart
}

// SortNewestFirst orders entries by descending start time, keeping input
// order for equal starts.
func SortNewestFirst(entries []entry.Entry) []entry.Entry {
	sorted := append([]entry.Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.After(sorted[j].StartTime)
	})
	return sorted
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

package presenter

import (
	"testing"
	"time"

	"github.com/amonks/timeclock/entry"
	"github.com/amonks/timeclock/tracker"
)

var testZone = time.FixedZone("EST", -5*60*60)

func at(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, testZone)
}

func closed(id string, start time.Time) entry.Entry {
	end := start.Add(90 * time.Minute)
	hours := 1.5
	return entry.Entry{ID: entry.ID(id), TaskID: "T1", StartTime: start, EndTime: &end, TotalHours: &hours, Status: entry.StatusCompleted}
}

func open(id, task string, start time.Time) entry.Entry {
	return entry.Entry{ID: entry.ID(id), TaskID: task, StartTime: start, Status: entry.StatusRunning}
}

func TestGroupByDateUsesLocalDay(t *testing.T) {
	entries := []entry.Entry{
		closed("1", at(4, 9)),
		// 02:00 UTC on the 5th is still the 4th in EST.
		closed("2", time.Date(2024, 3, 5, 2, 0, 0, 0, time.UTC)),
		closed("3", at(3, 12)),
		closed("4", at(4, 14)),
	}

	groups := GroupByDate(entries, testZone)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Day != "2024-03-04" || len(groups[0].Entries) != 3 {
		t.Fatalf("unexpected first group %s with %d entries", groups[0].Day, len(groups[0].Entries))
	}
	if groups[1].Day != "2024-03-03" {
		t.Fatalf("expected first-seen order, got %s", groups[1].Day)
	}
	if got := groups[0].Hours(at(10, 0)); got != 4.5 {
		t.Fatalf("expected 4.5 hours, got %v", got)
	}
}

func TestFilterDateRange(t *testing.T) {
	entries := []entry.Entry{
		closed("1", at(1, 23)),
		closed("2", at(2, 0)),
		closed("3", at(3, 23)),
		closed("4", at(4, 0)),
	}

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want []entry.ID
	}{
		{name: "unbounded", want: []entry.ID{"1", "2", "3", "4"}},
		{name: "inclusive days", from: at(2, 15), to: at(3, 1), want: []entry.ID{"2", "3"}},
		{name: "from only", from: at(3, 0), want: []entry.ID{"3", "4"}},
		{name: "to only", to: at(1, 0), want: []entry.ID{"1"}},
		{name: "empty", from: at(5, 0), want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterDateRange(entries, tc.from, tc.to, testZone)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %d entries", tc.want, len(got))
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Fatalf("entry %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name      string
		page      int
		size      int
		wantItems []int
		wantPage  int
		wantPages int
	}{
		{name: "first", page: 1, size: 3, wantItems: []int{1, 2, 3}, wantPage: 1, wantPages: 3},
		{name: "last partial", page: 3, size: 3, wantItems: []int{7}, wantPage: 3, wantPages: 3},
		{name: "clamp high", page: 9, size: 3, wantItems: []int{7}, wantPage: 3, wantPages: 3},
		{name: "clamp low", page: 0, size: 5, wantItems: []int{1, 2, 3, 4, 5}, wantPage: 1, wantPages: 2},
		{name: "default size", page: 1, size: 0, wantItems: items, wantPage: 1, wantPages: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Paginate(items, tc.page, tc.size)
			if got.Number != tc.wantPage || got.Pages != tc.wantPages {
				t.Fatalf("page %d/%d, want %d/%d", got.Number, got.Pages, tc.wantPage, tc.wantPages)
			}
			if len(got.Items) != len(tc.wantItems) {
				t.Fatalf("items %v, want %v", got.Items, tc.wantItems)
			}
			for i := range tc.wantItems {
				if got.Items[i] != tc.wantItems[i] {
					t.Fatalf("items %v, want %v", got.Items, tc.wantItems)
				}
			}
		})
	}

	empty := Paginate([]int(nil), 4, 10)
	if empty.Number != 1 || empty.Pages != 1 || len(empty.Items) != 0 {
		t.Fatalf("unexpected empty page %+v", empty)
	}
	if empty.HasNext() || empty.HasPrev() {
		t.Fatalf("empty page should not navigate")
	}
}

func TestActions(t *testing.T) {
	tracked := tracker.Snapshot{State: tracker.State{EntryID: "1", TaskID: "T1"}}
	if got := EntryAction(open("1", "T1", at(4, 9)), tracked); got != ActionStop {
		t.Fatalf("open entry: got %s", got)
	}
	if got := EntryAction(open("3", "T2", at(4, 8)), tracked); got != ActionUnavailable {
		t.Fatalf("untracked open entry: got %s", got)
	}
	if got := EntryAction(open("1", "T1", at(4, 9)), tracker.Snapshot{}); got != ActionUnavailable {
		t.Fatalf("open entry while idle: got %s", got)
	}
	if got := EntryAction(closed("2", at(4, 9)), tracked); got != ActionCompleted {
		t.Fatalf("closed entry: got %s", got)
	}

	design := entry.AssignedTask{TaskID: "T3", TaskName: "Design"}
	review := entry.AssignedTask{TaskID: "T4", TaskName: "Review"}

	idle := tracker.Snapshot{}
	if got := TaskAction(design, idle); got != ActionStart {
		t.Fatalf("idle: got %s", got)
	}

	running := tracker.Snapshot{State: tracker.State{EntryID: "E7", TaskID: "T3"}}
	if got := TaskAction(design, running); got != ActionRunning {
		t.Fatalf("running task: got %s", got)
	}
	if got := TaskAction(review, running); got != ActionUnavailable {
		t.Fatalf("other task: got %s", got)
	}
}

func TestBuild(t *testing.T) {
	snap := tracker.Snapshot{
		State: tracker.State{EntryID: "E7", TaskID: "T3"},
		Entries: []entry.Entry{
			closed("E5", at(3, 9)),
			open("E7", "T3", at(4, 10)),
			closed("E6", at(4, 8)),
		},
		Tasks: []entry.AssignedTask{
			{TaskID: "T3", TaskName: "Design"},
			{TaskID: "T4", TaskName: "Review"},
		},
	}

	view := Build(snap, Options{PageSize: 2, Location: testZone, Now: at(4, 11)})
	if len(view.Cards) != 2 || view.Cards[0].Action != ActionRunning || view.Cards[1].Action != ActionUnavailable {
		t.Fatalf("unexpected cards %+v", view.Cards)
	}
	if view.Page.Pages != 2 || view.Page.Total != 3 {
		t.Fatalf("unexpected page %+v", view.Page)
	}
	if len(view.Rows) != 2 || view.Rows[0].Entry.ID != "E7" || view.Rows[1].Entry.ID != "E6" {
		t.Fatalf("expected newest first, got %+v", view.Rows)
	}
	if view.Rows[0].Action != ActionStop || view.Rows[0].Elapsed != time.Hour {
		t.Fatalf("unexpected running row %+v", view.Rows[0])
	}
	if len(view.Groups) != 1 || view.Groups[0].Day != "2024-03-04" {
		t.Fatalf("unexpected groups %+v", view.Groups)
	}

	doubled := snap
	doubled.Entries = append([]entry.Entry{open("E4", "T4", at(4, 9))}, snap.Entries...)
	both := Build(doubled, Options{PageSize: 10, Location: testZone, Now: at(4, 11)})
	for _, row := range both.Rows {
		switch row.Entry.ID {
		case "E7":
			if row.Action != ActionStop {
				t.Fatalf("expected tracked entry stoppable, got %+v", row)
			}
		case "E4":
			if row.Action != ActionUnavailable {
				t.Fatalf("expected untracked open entry unavailable, got %+v", row)
			}
		}
	}

	snap.Pending = true
	snap.State = tracker.State{}
	pending := Build(snap, Options{PageSize: 2, Location: testZone, Now: at(4, 11)})
	for _, card := range pending.Cards {
		if card.Action.Enabled() {
			t.Fatalf("expected cards disabled while pending, got %+v", card)
		}
	}
	if pending.Rows[0].Action != ActionUnavailable || pending.Rows[1].Action != ActionCompleted {
		t.Fatalf("unexpected pending rows %+v", pending.Rows)
	}
}

// Package tracker holds the client-side session state for a signed-in user:
// whether a task is currently being timed, and which one.
//
// The task service is authoritative. The tracker only moves between Idle and
// Running after the service acknowledges a clock-in or clock-out, and it
// recomputes its state from every fetched entry list rather than trusting
// what it last saw.
package tracker

import (
	"fmt"
	"time"

	"github.com/amonks/timeclock/entry"
)

// State is the tracker's view of the user's session. The zero value is Idle.
type State struct {
	EntryID   entry.ID
	TaskID    string
	TaskName  string
	StartedAt time.Time
}

// Running reports whether an entry is open.
func (s State) Running() bool {
	return !s.EntryID.IsZero()
}

// Task returns the running task reference.
func (s State) Task() entry.TaskRef {
	return entry.TaskRef{ID: s.TaskID, Name: s.TaskName}
}

// Elapsed returns how long the running entry has been open. It is zero when
// idle or when the service did not report a start time.
func (s State) Elapsed(now time.Time) time.Duration {
	if !s.Running() || s.StartedAt.IsZero() || now.Before(s.StartedAt) {
		return 0
	}
	return now.Sub(s.StartedAt)
}

func (s State) String() string {
	if !s.Running() {
		return "idle"
	}
	label := s.Task().Label()
	if label == "" {
		return fmt.Sprintf("running entry %s", s.EntryID)
	}
	return fmt.Sprintf("running entry %s (%s)", s.EntryID, label)
}

func stateFromEntry(e entry.Entry) State {
	return State{
		EntryID:   e.ID,
		TaskID:    e.TaskID,
		TaskName:  e.TaskName,
		StartedAt: e.StartTime,
	}
}

// Snapshot is a read-only copy of the tracker's state and the data it was
// last reconciled against. It is valid until the next refresh event.
type Snapshot struct {
	State     State
	Entries   []entry.Entry
	Tasks     []entry.AssignedTask
	FetchedAt time.Time
	Pending   bool
}

// RunningEntry returns the fetched entry matching the tracked state.
func (s Snapshot) RunningEntry() (entry.Entry, bool) {
	if !s.State.Running() {
		return entry.Entry{}, false
	}
	for _, item := range s.Entries {
		if item.ID == s.State.EntryID {
			return item, true
		}
	}
	return entry.Entry{}, false
}

// IsRunning reports whether the task is the one being timed.
func (s Snapshot) IsRunning(task entry.AssignedTask) bool {
	return s.State.Running() && s.State.Task().Matches(task.Ref())
}

// CanStart reports whether a start control for the task should be enabled.
// Every task is unavailable while any entry is running or a request is in
// flight.
func (s Snapshot) CanStart(task entry.AssignedTask) bool {
	if s.Pending || s.State.Running() {
		return false
	}
	return !task.Ref().IsZero()
}

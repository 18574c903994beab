package tracker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/amonks/timeclock/entry"
)

// Service issues the clock-in and clock-out writes.
type Service interface {
	ClockIn(ctx context.Context, userID string, task entry.TaskRef) (entry.Entry, error)
	ClockOut(ctx context.Context, userID string, entryID entry.ID, comment string) (entry.Entry, error)
}

// Source reads the data the tracker reconciles against.
type Source interface {
	ListEntries(ctx context.Context, userID string) ([]entry.Entry, error)
	ListAssignedTasks(ctx context.Context, userID string) ([]entry.AssignedTask, error)
}

// Options configures a tracker.
type Options struct {
	// Source is used by Refresh. When nil and the Service also implements
	// Source, the Service is used.
	Source Source
	Logger Logger
	Now    func() time.Time
}

// Tracker owns the session state for one signed-in user. Build one at sign-in
// and Close it at logout.
type Tracker struct {
	userID string
	svc    Service
	source Source
	logger Logger
	now    func() time.Time

	mu             sync.Mutex
	state          State
	pending        bool
	closed         bool
	writes         uint64
	entries        []entry.Entry
	tasks          []entry.AssignedTask
	fetchedAt      time.Time
	subscribers    map[int]chan Event
	nextSubscriber int
}

// New creates an Idle tracker for the user.
func New(userID string, svc Service, opts Options) (*Tracker, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if svc == nil {
		return nil, fmt.Errorf("service is required")
	}

	source := opts.Source
	if source == nil {
		if fromService, ok := svc.(Source); ok {
			source = fromService
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Tracker{
		userID:      strings.TrimSpace(userID),
		svc:         svc,
		source:      source,
		logger:      logger,
		now:         now,
		subscribers: make(map[int]chan Event),
	}, nil
}

// UserID returns the user the tracker was built for.
func (t *Tracker) UserID() string {
	return t.userID
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Pending reports whether a start or stop request is in flight.
func (t *Tracker) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Snapshot returns a copy of the state and the last fetched data.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	return Snapshot{
		State:     t.state,
		Entries:   append([]entry.Entry(nil), t.entries...),
		Tasks:     append([]entry.AssignedTask(nil), t.tasks...),
		FetchedAt: t.fetchedAt,
		Pending:   t.pending,
	}
}

// StartTask clocks in to a task. It is refused while anything is running or
// another request is in flight. State only changes once the service returns
// the new entry.
func (t *Tracker) StartTask(ctx context.Context, task entry.TaskRef) (State, error) {
	task = entry.TaskRef{ID: strings.TrimSpace(task.ID), Name: strings.TrimSpace(task.Name)}

	t.mu.Lock()
	if err := t.beginLocked(); err != nil {
		state := t.state
		t.mu.Unlock()
		return state, err
	}
	if task.IsZero() {
		state := t.state
		t.mu.Unlock()
		return state, invalid(ErrTaskRequired)
	}
	if t.state.Running() {
		state := t.state
		t.mu.Unlock()
		return state, invalid(fmt.Errorf("%w: entry %s", ErrAlreadyRunning, state.EntryID))
	}
	t.pending = true
	from := t.state
	t.mu.Unlock()

	created, err := t.svc.ClockIn(ctx, t.userID, task)
	if err == nil && created.ID.IsZero() {
		err = fmt.Errorf("service returned no entry id")
	}

	t.mu.Lock()
	t.pending = false
	if err != nil {
		state := t.state
		t.mu.Unlock()
		reqErr := &RequestError{Op: "clock in", Err: err}
		t.logger.RequestFailed(reqErr.Op, err)
		return state, reqErr
	}
	next := State{
		EntryID:   created.ID,
		TaskID:    firstNonEmpty(created.TaskID, task.ID),
		TaskName:  firstNonEmpty(created.TaskName, task.Name),
		StartedAt: created.StartTime,
	}
	if t.closed {
		t.mu.Unlock()
		return next, ErrClosedAfterWrite
	}
	t.writes++
	t.state = next
	t.publishLocked(Event{Kind: EventStarted, State: next})
	t.mu.Unlock()

	t.logger.Transition(from, next)
	t.refreshAfterWrite(ctx)
	return next, nil
}

// StopTask clocks out of the running entry with a comment. The entry id must
// match the tracked running entry, and the comment must not be blank.
func (t *Tracker) StopTask(ctx context.Context, entryID entry.ID, comment string) (State, error) {
	comment = strings.TrimSpace(comment)

	t.mu.Lock()
	if err := t.beginLocked(); err != nil {
		state := t.state
		t.mu.Unlock()
		return state, err
	}
	if !t.state.Running() {
		t.mu.Unlock()
		return State{}, invalid(ErrNotRunning)
	}
	if entryID != t.state.EntryID {
		state := t.state
		t.mu.Unlock()
		return state, invalid(fmt.Errorf("%w: got %s, running %s", ErrEntryMismatch, entryID, state.EntryID))
	}
	if comment == "" {
		state := t.state
		t.mu.Unlock()
		return state, invalid(ErrCommentRequired)
	}
	t.pending = true
	from := t.state
	t.mu.Unlock()

	_, err := t.svc.ClockOut(ctx, t.userID, entryID, comment)

	t.mu.Lock()
	t.pending = false
	if err != nil {
		state := t.state
		t.mu.Unlock()
		reqErr := &RequestError{Op: "clock out", Err: err}
		t.logger.RequestFailed(reqErr.Op, err)
		return state, reqErr
	}
	if t.closed {
		t.mu.Unlock()
		return State{}, ErrClosedAfterWrite
	}
	t.writes++
	t.state = State{}
	t.publishLocked(Event{Kind: EventStopped, State: t.state})
	t.mu.Unlock()

	t.logger.Transition(from, State{})
	t.refreshAfterWrite(ctx)
	return State{}, nil
}

// beginLocked checks the preconditions shared by start and stop.
func (t *Tracker) beginLocked() error {
	if t.closed {
		return invalid(ErrClosed)
	}
	if t.pending {
		return invalid(ErrRequestPending)
	}
	return nil
}

// Reconcile recomputes the state from a fetched entry list. With several open
// entries it follows the most recently started one and returns an
// *InconsistencyError alongside the new state.
func (t *Tracker) Reconcile(entries []entry.Entry) (State, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return State{}, invalid(ErrClosed)
	}
	t.entries = append([]entry.Entry(nil), entries...)
	t.fetchedAt = t.now()
	state, inconsistency := t.reconcileLocked()
	t.mu.Unlock()

	if inconsistency != nil {
		t.logger.Inconsistency(inconsistency)
		return state, inconsistency
	}
	return state, nil
}

func (t *Tracker) reconcileLocked() (State, *InconsistencyError) {
	open := OpenEntries(t.entries)
	var inconsistency *InconsistencyError

	switch len(open) {
	case 0:
		t.state = State{}
	case 1:
		t.state = stateFromEntry(open[0])
	default:
		chosen := MostRecent(open)
		t.state = stateFromEntry(chosen)
		inconsistency = &InconsistencyError{Open: open, Chosen: chosen}
	}

	if inconsistency != nil {
		t.publishLocked(Event{Kind: EventInconsistent, State: t.state, Err: inconsistency})
	} else {
		t.publishLocked(Event{Kind: EventRefreshed, State: t.state})
	}
	return t.state, inconsistency
}

// Refresh fetches entries and assigned tasks, then reconciles. A fetch that
// overlaps a committed start or stop is discarded, since it may predate the
// write.
func (t *Tracker) Refresh(ctx context.Context) (Snapshot, error) {
	if t.source == nil {
		return t.Snapshot(), ErrNoSource
	}
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return Snapshot{}, invalid(ErrClosed)
	}
	generation := t.writes
	t.mu.Unlock()

	entries, err := t.source.ListEntries(ctx, t.userID)
	if err != nil {
		reqErr := &RequestError{Op: "list entries", Err: err}
		t.logger.RequestFailed(reqErr.Op, err)
		return t.Snapshot(), reqErr
	}
	tasks, err := t.source.ListAssignedTasks(ctx, t.userID)
	if err != nil {
		reqErr := &RequestError{Op: "list assigned tasks", Err: err}
		t.logger.RequestFailed(reqErr.Op, err)
		return t.Snapshot(), reqErr
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return Snapshot{}, invalid(ErrClosed)
	}
	if t.writes != generation {
		snapshot := t.snapshotLocked()
		t.mu.Unlock()
		return snapshot, nil
	}
	t.entries = entries
	t.tasks = tasks
	t.fetchedAt = t.now()
	_, inconsistency := t.reconcileLocked()
	snapshot := t.snapshotLocked()
	t.mu.Unlock()

	if inconsistency != nil {
		t.logger.Inconsistency(inconsistency)
		return snapshot, inconsistency
	}
	return snapshot, nil
}

func (t *Tracker) refreshAfterWrite(ctx context.Context) {
	if t.source == nil {
		return
	}
	// Failures were already reported to the logger; the committed
	// transition stands and the next refresh will reconcile.
	_, _ = t.Refresh(ctx)
}

// Close discards the session at logout. Subscribers are closed and every
// later operation fails with ErrClosed.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.state = State{}
	t.entries = nil
	t.tasks = nil
	for id, ch := range t.subscribers {
		delete(t.subscribers, id)
		close(ch)
	}
}

// OpenEntries returns entries without an end time, in input order.
func OpenEntries(entries []entry.Entry) []entry.Entry {
	var open []entry.Entry
	for _, item := range entries {
		if item.Open() {
			open = append(open, item)
		}
	}
	return open
}

// MostRecent returns the entry with the latest start time. Ties go to the
// later entry in the list. It panics on an empty list.
func MostRecent(entries []entry.Entry) entry.Entry {
	chosen := entries[0]
	for _, item := range entries[1:] {
		if !item.StartTime.Before(chosen.StartTime) {
			chosen = item
		}
	}
	return chosen
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

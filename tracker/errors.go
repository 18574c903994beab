package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amonks/timeclock/entry"
)

var (
	// ErrAlreadyRunning indicates a start was attempted while an entry is open.
	ErrAlreadyRunning = errors.New("a task is already running")
	// ErrNotRunning indicates a stop was attempted while idle.
	ErrNotRunning = errors.New("no task is running")
	// ErrEntryMismatch indicates a stop named an entry other than the running one.
	ErrEntryMismatch = errors.New("entry is not the running entry")
	// ErrCommentRequired indicates a stop without a comment.
	ErrCommentRequired = errors.New("comment is required")
	// ErrTaskRequired indicates a start without a task id or name.
	ErrTaskRequired = errors.New("task id or name is required")
	// ErrRequestPending indicates a start or stop is already in flight.
	ErrRequestPending = errors.New("another request is in progress")
	// ErrClosed indicates the tracker was closed at logout.
	ErrClosed = errors.New("session is closed")
	// ErrClosedAfterWrite indicates the tracker was closed while a start or
	// stop the service went on to accept was in flight. The write stands.
	ErrClosedAfterWrite = errors.New("session closed after the service accepted the request")
	// ErrCaptureClosed indicates a comment submit without an open capture.
	ErrCaptureClosed = errors.New("comment capture is not open")
	// ErrNoSource indicates a refresh on a tracker built without a data source.
	ErrNoSource = errors.New("no data source configured")
)

// ValidationError is a locally refused transition. State is unchanged and no
// request was sent.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error) error {
	return &ValidationError{Err: err}
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// RequestError is a failed call to the task service. State is rolled back to
// its value before the attempt.
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// InconsistencyError reports that the service returned more than one open
// entry. The tracker follows Chosen, the most recently started one.
type InconsistencyError struct {
	Open   []entry.Entry
	Chosen entry.Entry
}

func (e *InconsistencyError) Error() string {
	ids := make([]string, 0, len(e.Open))
	for _, item := range e.Open {
		ids = append(ids, item.ID.String())
	}
	return fmt.Sprintf("service reports %d open entries (%s); following %s",
		len(e.Open), strings.Join(ids, ", "), e.Chosen.ID)
}

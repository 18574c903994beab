package tracker

import (
	"context"
	"sync"

	"github.com/amonks/timeclock/entry"
)

// CommentCapture gates a stop behind a mandatory comment. It stays open
// across failed submits so the user can correct and retry.
type CommentCapture struct {
	tracker *Tracker

	mu      sync.Mutex
	open    bool
	entryID entry.ID
	text    string
	err     error
}

// NewCommentCapture returns a closed capture bound to a tracker.
func NewCommentCapture(t *Tracker) *CommentCapture {
	return &CommentCapture{tracker: t}
}

// Open starts capturing a comment for the entry.
func (c *CommentCapture) Open(entryID entry.ID) error {
	if entryID.IsZero() {
		return invalid(ErrNotRunning)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
	c.entryID = entryID
	c.text = ""
	c.err = nil
	return nil
}

// SetText replaces the comment text.
func (c *CommentCapture) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
}

// Text returns the current comment text.
func (c *CommentCapture) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// EntryID returns the entry being stopped, or "" when closed.
func (c *CommentCapture) EntryID() entry.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entryID
}

// IsOpen reports whether the capture is open.
func (c *CommentCapture) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Err returns the error from the last failed submit.
func (c *CommentCapture) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Submit stops the entry with the captured comment. On success the capture
// closes; on failure it stays open and records the error.
func (c *CommentCapture) Submit(ctx context.Context) (State, error) {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return c.tracker.State(), invalid(ErrCaptureClosed)
	}
	entryID, text := c.entryID, c.text
	c.mu.Unlock()

	state, err := c.tracker.StopTask(ctx, entryID, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.err = err
		return state, err
	}
	c.resetLocked()
	return state, nil
}

// Cancel discards the capture. The tracker is not touched.
func (c *CommentCapture) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *CommentCapture) resetLocked() {
	c.open = false
	c.entryID = ""
	c.text = ""
	c.err = nil
}

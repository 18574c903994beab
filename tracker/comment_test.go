package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/amonks/timeclock/entry"
)

func TestCommentCaptureSubmit(t *testing.T) {
	svc := newFakeService()
	tr := newTestTracker(t, svc, nil)
	running, err := tr.StartTask(context.Background(), entry.TaskRef{ID: "T1"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	capture := NewCommentCapture(tr)
	if err := capture.Open(running.EntryID); err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := capture.Submit(context.Background()); !errors.Is(err, ErrCommentRequired) {
		t.Fatalf("expected ErrCommentRequired, got %v", err)
	}
	if !capture.IsOpen() {
		t.Fatalf("capture should stay open after a failed submit")
	}
	if capture.Err() == nil {
		t.Fatalf("expected recorded error")
	}

	capture.SetText("reviewed PR")
	state, err := capture.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if state.Running() {
		t.Fatalf("expected idle after submit")
	}
	if capture.IsOpen() || capture.EntryID() != "" || capture.Text() != "" {
		t.Fatalf("capture not reset after submit")
	}
	if svc.comments[0] != "reviewed PR" {
		t.Fatalf("unexpected comment %q", svc.comments[0])
	}
}

func TestCommentCaptureCancel(t *testing.T) {
	svc := newFakeService()
	tr := newTestTracker(t, svc, nil)
	running, err := tr.StartTask(context.Background(), entry.TaskRef{ID: "T1"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	capture := NewCommentCapture(tr)
	if err := capture.Open(running.EntryID); err != nil {
		t.Fatalf("open: %v", err)
	}
	capture.SetText("half written")
	capture.Cancel()

	if capture.IsOpen() {
		t.Fatalf("expected closed capture")
	}
	if tr.State() != running {
		t.Fatalf("cancel changed tracker state")
	}
	if svc.requests() != 1 {
		t.Fatalf("cancel sent a request")
	}
	if _, err := capture.Submit(context.Background()); !errors.Is(err, ErrCaptureClosed) {
		t.Fatalf("expected ErrCaptureClosed, got %v", err)
	}
}

func TestCommentCaptureOpenRequiresEntry(t *testing.T) {
	capture := NewCommentCapture(newTestTracker(t, newFakeService(), nil))
	if err := capture.Open(""); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

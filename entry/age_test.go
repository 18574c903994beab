package entry

import (
	"testing"
	"time"
)

func TestElapsed(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	start := now.Add(-2 * time.Hour)
	end := start.Add(45 * time.Minute)
	hours := 0.75

	if got := Elapsed(Entry{ID: "1", StartTime: start}, now); got != 2*time.Hour {
		t.Fatalf("expected running entry to count to now, got %s", got)
	}
	if got := Elapsed(Entry{ID: "2", StartTime: start, EndTime: &end, TotalHours: &hours}, now); got != 45*time.Minute {
		t.Fatalf("expected total hours to win, got %s", got)
	}
	if got := Elapsed(Entry{ID: "3", StartTime: start, EndTime: &end}, now); got != 45*time.Minute {
		t.Fatalf("expected end minus start, got %s", got)
	}
	if got := Elapsed(Entry{ID: "4"}, now); got != 0 {
		t.Fatalf("expected zero without timing data, got %s", got)
	}
}

func TestHours(t *testing.T) {
	if got := Hours(90 * time.Minute); got != 1.5 {
		t.Fatalf("expected 1.5, got %v", got)
	}
	if got := Hours(20 * time.Minute); got != 0.33 {
		t.Fatalf("expected 0.33, got %v", got)
	}
	if got := Hours(-time.Minute); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

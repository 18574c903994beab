package entry

import (
	"math"
	"time"
)

// Elapsed computes the display duration for an entry. Open entries count up
// to now; closed entries prefer the server's total hours.
func Elapsed(e Entry, now time.Time) time.Duration {
	if e.Open() {
		if e.StartTime.IsZero() || now.Before(e.StartTime) {
			return 0
		}
		return now.Sub(e.StartTime)
	}

	if e.TotalHours != nil && *e.TotalHours > 0 {
		return time.Duration(*e.TotalHours * float64(time.Hour)).Round(time.Second)
	}

	if !e.StartTime.IsZero() && e.EndTime.After(e.StartTime) {
		return e.EndTime.Sub(e.StartTime)
	}

	return 0
}

// Hours rounds a duration to hours with two decimals, the way the service
// reports total_hours.
func Hours(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return math.Round(d.Hours()*100) / 100
}

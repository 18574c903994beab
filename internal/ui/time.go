package ui

import (
	"fmt"
	"strconv"
	"time"
)

// TimeLayout formats entry start and end times in tables.
const TimeLayout = "2006-01-02 15:04"

// FormatElapsed formats a duration as "1h05m", "12m" or "45s".
func FormatElapsed(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}
	duration = duration.Truncate(time.Second)

	hours := int64(duration / time.Hour)
	minutes := int64(duration%time.Hour) / int64(time.Minute)
	seconds := int64(duration%time.Minute) / int64(time.Second)

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh%02dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatHours renders server-computed hours, or "-" when unknown.
func FormatHours(hours *float64) string {
	if hours == nil {
		return "-"
	}
	return strconv.FormatFloat(*hours, 'f', 2, 64)
}

// FormatTime renders a timestamp in loc, or "-" for the zero time.
func FormatTime(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimeLayout)
}

// FormatDay renders a day heading like "Monday, 04 Mar 2024".
func FormatDay(day time.Time) string {
	return day.Format("Monday, 02 Jan 2006")
}

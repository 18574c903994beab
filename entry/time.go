package entry

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are tried in order. The service has been seen to emit
// zone-less timestamps, which are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a service timestamp.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

type entryWire struct {
	ID         ID        `json:"entry_id"`
	TaskID     flexText  `json:"task_id"`
	TaskName   string    `json:"task_name"`
	StartTime  *string   `json:"start_time"`
	EndTime    *string   `json:"end_time"`
	TotalHours flexHours `json:"total_hours"`
	Status     Status    `json:"status"`
	Comment    *string   `json:"comment"`
}

// UnmarshalJSON decodes an entry, tolerating the timestamp and number
// formats the service produces.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var wire entryWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	decoded := Entry{
		ID:         wire.ID,
		TaskID:     string(wire.TaskID),
		TaskName:   wire.TaskName,
		TotalHours: wire.TotalHours.value,
		Status:     Status(strings.ToLower(string(wire.Status))),
	}
	if wire.Comment != nil {
		decoded.Comment = *wire.Comment
	}
	if wire.StartTime != nil && strings.TrimSpace(*wire.StartTime) != "" {
		start, err := ParseTimestamp(*wire.StartTime)
		if err != nil {
			return fmt.Errorf("entry %s start_time: %w", wire.ID, err)
		}
		decoded.StartTime = start
	}
	if wire.EndTime != nil && strings.TrimSpace(*wire.EndTime) != "" {
		end, err := ParseTimestamp(*wire.EndTime)
		if err != nil {
			return fmt.Errorf("entry %s end_time: %w", wire.ID, err)
		}
		decoded.EndTime = &end
	}
	*e = decoded
	return nil
}

// flexText accepts a JSON string or number.
type flexText string

func (t *flexText) UnmarshalJSON(data []byte) error {
	var id ID
	if err := id.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = flexText(id)
	return nil
}

// flexHours accepts a JSON number, a numeric string, or null.
type flexHours struct {
	value *float64
}

func (h *flexHours) UnmarshalJSON(data []byte) error {
	text := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if text == "" || text == "null" || text == "-" {
		h.value = nil
		return nil
	}
	parsed, err := json.Number(text).Float64()
	if err != nil {
		return fmt.Errorf("decode total_hours: %w", err)
	}
	h.value = &parsed
	return nil
}

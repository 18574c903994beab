package entry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestStatusIsValid(t *testing.T) {
	for _, status := range ValidStatuses() {
		if !status.IsValid() {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	if Status("paused").IsValid() {
		t.Fatal("expected paused to be invalid")
	}
}

func TestEntryValidate(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	hours := 1.5

	tests := []struct {
		name    string
		entry   Entry
		wantErr bool
	}{
		{name: "running", entry: Entry{ID: "1", StartTime: start, Status: StatusRunning}},
		{name: "completed", entry: Entry{ID: "2", StartTime: start, EndTime: &end, TotalHours: &hours, Status: StatusCompleted}},
		{name: "status omitted", entry: Entry{ID: "3", StartTime: start}},
		{name: "missing id", entry: Entry{StartTime: start}, wantErr: true},
		{name: "running with end", entry: Entry{ID: "4", StartTime: start, EndTime: &end, Status: StatusRunning}, wantErr: true},
		{name: "completed without end", entry: Entry{ID: "5", StartTime: start, Status: StatusCompleted}, wantErr: true},
		{name: "hours while open", entry: Entry{ID: "6", StartTime: start, TotalHours: &hours}, wantErr: true},
		{name: "unknown status", entry: Entry{ID: "7", StartTime: start, Status: "paused"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.entry.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestEntryUnmarshalServiceFormats(t *testing.T) {
	data := `{
		"entry_id": 101,
		"task_id": 3,
		"task_name": "Create Signup Page",
		"start_time": "2026-03-02T09:00:00",
		"end_time": "2026-03-02T10:30:00.123456",
		"total_hours": "1.50",
		"status": "Completed",
		"comment": "done"
	}`

	var decoded Entry
	if err := json.Unmarshal([]byte(data), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != "101" {
		t.Fatalf("expected id 101, got %q", decoded.ID)
	}
	if decoded.TaskID != "3" {
		t.Fatalf("expected task id 3, got %q", decoded.TaskID)
	}
	if decoded.Open() {
		t.Fatal("expected closed entry")
	}
	if decoded.TotalHours == nil || *decoded.TotalHours != 1.5 {
		t.Fatalf("expected 1.5 hours, got %v", decoded.TotalHours)
	}
	if decoded.Status != StatusCompleted {
		t.Fatalf("expected status to be lowercased, got %q", decoded.Status)
	}
	if err := decoded.Validate(); err != nil {
		t.Fatalf("expected valid entry: %v", err)
	}
}

func TestEntryUnmarshalRunning(t *testing.T) {
	data := `{"entry_id":"E7","task_id":"T3","start_time":"2026-03-02T09:00:00Z","end_time":null,"total_hours":null,"status":"running"}`

	var decoded Entry
	if err := json.Unmarshal([]byte(data), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Open() {
		t.Fatal("expected open entry")
	}
	if decoded.TotalHours != nil {
		t.Fatalf("expected nil hours, got %v", *decoded.TotalHours)
	}
	if decoded.Comment != "" {
		t.Fatalf("expected empty comment, got %q", decoded.Comment)
	}
}

func TestEntryUnmarshalRejectsBadTimestamp(t *testing.T) {
	data := `{"entry_id":1,"start_time":"yesterday"}`

	var decoded Entry
	if err := json.Unmarshal([]byte(data), &decoded); err == nil {
		t.Fatal("expected error")
	}
}

func TestIDMarshalKeepsNumbers(t *testing.T) {
	encoded, err := json.Marshal(struct {
		Numeric ID `json:"numeric"`
		Opaque  ID `json:"opaque"`
	}{Numeric: "101", Opaque: "E7"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != `{"numeric":101,"opaque":"E7"}` {
		t.Fatalf("unexpected encoding %s", encoded)
	}

	cases := map[ID]string{
		"0":    `0`,
		"-12":  `-12`,
		"007":  `"007"`,
		"+5":   `"+5"`,
		"-0":   `"-0"`,
		" 101": `" 101"`,
	}
	for id, want := range cases {
		encoded, err := json.Marshal(id)
		if err != nil {
			t.Fatalf("marshal %q: %v", id, err)
		}
		if string(encoded) != want {
			t.Fatalf("marshal %q: expected %s, got %s", id, want, encoded)
		}
		var decoded ID
		if err := json.Unmarshal(encoded, &decoded); err != nil || decoded != id {
			t.Fatalf("round trip %q: got %q, %v", id, decoded, err)
		}
	}
}

func TestTaskRefMatches(t *testing.T) {
	if !(TaskRef{ID: "T1"}).Matches(TaskRef{ID: "T1", Name: "Other"}) {
		t.Fatal("expected ids to match")
	}
	if (TaskRef{ID: "T1", Name: "Same"}).Matches(TaskRef{ID: "T2", Name: "Same"}) {
		t.Fatal("expected differing ids to win over equal names")
	}
	if !(TaskRef{Name: "Signup page"}).Matches(TaskRef{Name: " signup PAGE "}) {
		t.Fatal("expected names to match case-insensitively")
	}
	if (TaskRef{}).Matches(TaskRef{}) {
		t.Fatal("expected empty refs not to match")
	}
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		value   string
		want    Role
		wantErr bool
	}{
		{value: "", want: RoleEmployee},
		{value: " Admin ", want: RoleAdmin},
		{value: "employee", want: RoleEmployee},
		{value: "boss", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseRole(tc.value)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidRole) {
				t.Fatalf("ParseRole(%q): expected ErrInvalidRole, got %v", tc.value, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", tc.value, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRole(%q): expected %s, got %s", tc.value, tc.want, got)
		}
	}
}

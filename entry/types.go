// Package entry defines the time-tracking records exchanged with the task
// service: time entries, assigned tasks, accounts, projects and tasks.
package entry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/timeclock/internal/validation"
)

// Status is the lifecycle status of a time entry.
type Status string

const (
	// StatusRunning indicates the entry has been clocked in but not out.
	StatusRunning Status = "running"
	// StatusCompleted indicates the entry has been clocked out.
	StatusCompleted Status = "completed"
)

// ValidStatuses returns all valid entry status values.
func ValidStatuses() []Status {
	return []Status{StatusRunning, StatusCompleted}
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// Role identifies what an account may do.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// ErrInvalidRole is returned by ParseRole for unknown roles.
var ErrInvalidRole = errors.New("invalid role")

// ValidRoles returns all valid roles.
func ValidRoles() []Role {
	return []Role{RoleEmployee, RoleAdmin}
}

// IsValid returns true if the role is a known value.
func (r Role) IsValid() bool {
	for _, valid := range ValidRoles() {
		if r == valid {
			return true
		}
	}
	return false
}

// ParseRole normalizes a role name. Blank means employee.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if role == "" {
		return RoleEmployee, nil
	}
	if !role.IsValid() {
		return "", validation.FormatInvalidValueError(ErrInvalidRole, Role(value), ValidRoles())
	}
	return role, nil
}

// Entry is one clock-in/clock-out interval for a task.
type Entry struct {
	ID         ID         `json:"entry_id"`
	TaskID     string     `json:"task_id,omitempty"`
	TaskName   string     `json:"task_name,omitempty"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
	TotalHours *float64   `json:"total_hours"`
	Status     Status     `json:"status,omitempty"`
	Comment    string     `json:"comment,omitempty"`
}

// Open reports whether the entry is still being timed.
// Only EndTime decides this; Status is informational.
func (e Entry) Open() bool {
	return e.EndTime == nil
}

// Task returns the task reference the entry was clocked against.
func (e Entry) Task() TaskRef {
	return TaskRef{ID: e.TaskID, Name: e.TaskName}
}

// Label returns the best human-readable task label.
func (e Entry) Label() string {
	return e.Task().Label()
}

// Validate checks the entry invariants: a nil end time if and only if the
// status is running, and total hours only once the entry is closed.
func (e Entry) Validate() error {
	if e.ID.IsZero() {
		return fmt.Errorf("entry id is required")
	}
	if e.Status != "" && !e.Status.IsValid() {
		return fmt.Errorf("entry %s: invalid status %q", e.ID, e.Status)
	}
	if e.Status != "" && e.Open() != (e.Status == StatusRunning) {
		return fmt.Errorf("entry %s: status %q disagrees with end time", e.ID, e.Status)
	}
	if e.Open() && e.TotalHours != nil {
		return fmt.Errorf("entry %s: total hours set on a running entry", e.ID)
	}
	if e.EndTime != nil && !e.StartTime.IsZero() && e.EndTime.Before(e.StartTime) {
		return fmt.Errorf("entry %s: ends before it starts", e.ID)
	}
	return nil
}

// TaskRef identifies the task a clock-in is for, by ID or by name.
type TaskRef struct {
	ID   string `json:"task_id,omitempty"`
	Name string `json:"task_name,omitempty"`
}

// IsZero reports whether neither an ID nor a name is set.
func (t TaskRef) IsZero() bool {
	return strings.TrimSpace(t.ID) == "" && strings.TrimSpace(t.Name) == ""
}

// Label returns the name if known, otherwise the ID.
func (t TaskRef) Label() string {
	if name := strings.TrimSpace(t.Name); name != "" {
		return name
	}
	return strings.TrimSpace(t.ID)
}

// Matches reports whether two refs name the same task. IDs win when both
// sides have one.
func (t TaskRef) Matches(other TaskRef) bool {
	if t.ID != "" && other.ID != "" {
		return t.ID == other.ID
	}
	if t.Name != "" && other.Name != "" {
		return strings.EqualFold(strings.TrimSpace(t.Name), strings.TrimSpace(other.Name))
	}
	return false
}

// AssignedTask is a task assigned to the current user within a project.
type AssignedTask struct {
	TaskID      ID     `json:"task_id"`
	ProjectName string `json:"project_name"`
	TaskName    string `json:"task_name"`
	Status      Status `json:"status,omitempty"`
	AssignedBy  string `json:"assigned_by,omitempty"`
}

// Ref returns the reference used to clock in to the task.
func (t AssignedTask) Ref() TaskRef {
	return TaskRef{ID: t.TaskID.String(), Name: t.TaskName}
}

// Account is a signed-in user.
type Account struct {
	UserID ID     `json:"user_id"`
	Role   Role   `json:"role"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}

// IsAdmin reports whether the account has the admin role.
func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Employee is a user as seen by an administrator.
type Employee struct {
	UserID      ID      `json:"user_id"`
	EmployeeID  string  `json:"employee_id,omitempty"`
	Name        string  `json:"e_name"`
	Email       string  `json:"email"`
	Designation string  `json:"designation,omitempty"`
	Role        Role    `json:"role,omitempty"`
	Entries     []Entry `json:"entries"`
}

// Project groups tasks under an administrator.
type Project struct {
	ProjectID  ID     `json:"project_id"`
	Name       string `json:"project_name"`
	AdminEmail string `json:"admin_email,omitempty"`
}

// Task is a project task as managed by administrators.
type Task struct {
	TaskID     ID     `json:"task_id"`
	ProjectID  ID     `json:"project_id"`
	Name       string `json:"task"`
	AssignedTo string `json:"assigned_to,omitempty"`
}

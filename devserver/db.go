package devserver

import (
	"strconv"
	"strings"
	"time"

	"github.com/amonks/timeclock/entry"
)

// DatabaseFile is the state file name inside the state dir.
const DatabaseFile = "timeclock.json"

// User is a stored account.
type User struct {
	ID           entry.ID   `json:"user_id"`
	EmployeeID   string     `json:"employee_id,omitempty"`
	Name         string     `json:"e_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash"`
	Designation  string     `json:"designation,omitempty"`
	Role         entry.Role `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Database is the whole persisted service state.
type Database struct {
	NextUserID    int                      `json:"next_user_id"`
	NextEntryID   int                      `json:"next_entry_id"`
	NextProjectID int                      `json:"next_project_id"`
	NextTaskID    int                      `json:"next_task_id"`
	Users         []User                   `json:"users"`
	Entries       map[string][]entry.Entry `json:"entries"`
	Projects      []entry.Project          `json:"projects"`
	Tasks         []entry.Task             `json:"tasks"`
}

// Init fills in nil collections after loading.
func (db *Database) Init() {
	if db.Entries == nil {
		db.Entries = make(map[string][]entry.Entry)
	}
}

func nextID(counter *int) entry.ID {
	*counter++
	return entry.ID(strconv.Itoa(*counter))
}

func (db *Database) user(id entry.ID) (*User, bool) {
	for i := range db.Users {
		if db.Users[i].ID == id {
			return &db.Users[i], true
		}
	}
	return nil, false
}

func (db *Database) userByEmail(email string) (*User, bool) {
	for i := range db.Users {
		if strings.EqualFold(db.Users[i].Email, email) {
			return &db.Users[i], true
		}
	}
	return nil, false
}

func (db *Database) project(id entry.ID) (*entry.Project, bool) {
	for i := range db.Projects {
		if db.Projects[i].ProjectID == id {
			return &db.Projects[i], true
		}
	}
	return nil, false
}

func (db *Database) task(id entry.ID) (*entry.Task, bool) {
	for i := range db.Tasks {
		if db.Tasks[i].TaskID == id {
			return &db.Tasks[i], true
		}
	}
	return nil, false
}

func (db *Database) employee(user User) entry.Employee {
	return entry.Employee{
		UserID:      user.ID,
		EmployeeID:  user.EmployeeID,
		Name:        user.Name,
		Email:       user.Email,
		Designation: user.Designation,
		Role:        user.Role,
		Entries:     append([]entry.Entry{}, db.Entries[user.ID.String()]...),
	}
}

func (db *Database) openEntries(userID entry.ID) []int {
	var open []int
	for i, item := range db.Entries[userID.String()] {
		if item.Open() {
			open = append(open, i)
		}
	}
	return open
}

func (db *Database) assignedTasks(userID entry.ID) []entry.AssignedTask {
	running := make(map[string]bool)
	for _, i := range db.openEntries(userID) {
		item := db.Entries[userID.String()][i]
		running[item.TaskID] = true
		running["name:"+strings.ToLower(item.TaskName)] = true
	}

	tasks := []entry.AssignedTask{}
	for _, task := range db.Tasks {
		if task.AssignedTo != userID.String() {
			continue
		}
		assigned := entry.AssignedTask{TaskID: task.TaskID, TaskName: task.Name}
		if project, ok := db.project(task.ProjectID); ok {
			assigned.ProjectName = project.Name
			assigned.AssignedBy = project.AdminEmail
		}
		if running[task.TaskID.String()] || running["name:"+strings.ToLower(task.Name)] {
			assigned.Status = entry.StatusRunning
		}
		tasks = append(tasks, assigned)
	}
	return tasks
}

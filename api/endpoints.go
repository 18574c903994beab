package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/amonks/timeclock/entry"
)

// SignUpRequest registers an account.
type SignUpRequest struct {
	EmployeeID  string     `json:"employee_id"`
	Name        string     `json:"e_name"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	Designation string     `json:"designation"`
	Role        entry.Role `json:"role"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type clockOutRequest struct {
	EntryID entry.ID `json:"entry_id"`
	Comment string   `json:"comment"`
}

type adminRequest struct {
	UserID entry.ID `json:"user_id"`
}

type createProjectRequest struct {
	Name    string   `json:"projectName"`
	AdminID entry.ID `json:"admin_id"`
}

type createProjectResponse struct {
	Success bool          `json:"success"`
	Project entry.Project `json:"project"`
}

type createTaskRequest struct {
	AdminID   entry.ID `json:"admin_id"`
	ProjectID entry.ID `json:"project_id"`
	Task      string   `json:"task"`
}

type createTaskResponse struct {
	Message string     `json:"message"`
	Task    entry.Task `json:"task"`
}

type assignTaskRequest struct {
	AdminID    entry.ID `json:"admin_id"`
	TaskID     entry.ID `json:"task_id"`
	EmployeeID entry.ID `json:"emp_id"`
}

// Assignment is the service's acknowledgement of a task assignment.
type Assignment struct {
	Message      string
	EmployeeName string
}

type assignTaskResponse struct {
	Message string `json:"message"`
	Data    struct {
		EmployeeName string `json:"emp_name"`
	} `json:"data"`
}

type projectsResponse struct {
	Projects []entry.Project `json:"projects"`
}

type tasksResponse struct {
	Tasks []entry.Task `json:"tasks"`
}

type assignedTasksResponse struct {
	Tasks []entry.AssignedTask `json:"tasks"`
}

// SignIn authenticates and returns the account.
func (c *Client) SignIn(ctx context.Context, email, password string) (entry.Account, error) {
	var account entry.Account
	if err := c.post(ctx, "/signin/", signInRequest{Email: email, Password: password}, &account); err != nil {
		return entry.Account{}, err
	}
	if account.UserID.IsZero() {
		return entry.Account{}, fmt.Errorf("sign in: service returned no user id")
	}
	return account, nil
}

// SignUp registers an account and returns the service message.
func (c *Client) SignUp(ctx context.Context, request SignUpRequest) (string, error) {
	var response messageResponse
	if err := c.post(ctx, "/signup/", request, &response); err != nil {
		return "", err
	}
	return response.Message, nil
}

// ListEntries returns the user's time entries.
func (c *Client) ListEntries(ctx context.Context, userID string) ([]entry.Entry, error) {
	var raw json.RawMessage
	if err := c.get(ctx, pathf("/user/%s/", userID), &raw); err != nil {
		return nil, err
	}
	return decodeEntries(raw)
}

// decodeEntries accepts either {"entries": [...]} or a bare list.
func decodeEntries(raw json.RawMessage) ([]entry.Entry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var entries []entry.Entry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("decode entries: %w", err)
		}
		return entries, nil
	}
	var wrapped struct {
		Entries []entry.Entry `json:"entries"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	return wrapped.Entries, nil
}

// ListAssignedTasks returns the tasks assigned to the user.
func (c *Client) ListAssignedTasks(ctx context.Context, userID string) ([]entry.AssignedTask, error) {
	var response assignedTasksResponse
	if err := c.get(ctx, pathf("/user/%s/tasks/", userID), &response); err != nil {
		return nil, err
	}
	return response.Tasks, nil
}

// ClockIn starts an entry for the task and returns it.
func (c *Client) ClockIn(ctx context.Context, userID string, task entry.TaskRef) (entry.Entry, error) {
	var created entry.Entry
	if err := c.post(ctx, pathf("/clockin/%s/", userID), task, &created); err != nil {
		return entry.Entry{}, err
	}
	return created, nil
}

// ClockOut closes the entry with a comment and returns it.
func (c *Client) ClockOut(ctx context.Context, userID string, entryID entry.ID, comment string) (entry.Entry, error) {
	var closed entry.Entry
	if err := c.post(ctx, pathf("/clockout/%s/", userID), clockOutRequest{EntryID: entryID, Comment: comment}, &closed); err != nil {
		return entry.Entry{}, err
	}
	return closed, nil
}

// ListEmployees returns the employees visible to an administrator.
func (c *Client) ListEmployees(ctx context.Context, adminID entry.ID) ([]entry.Employee, error) {
	var employees []entry.Employee
	if err := c.post(ctx, "/admin/", adminRequest{UserID: adminID}, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// Employee returns one employee with their entries.
func (c *Client) Employee(ctx context.Context, userID entry.ID) (entry.Employee, error) {
	var employee entry.Employee
	if err := c.get(ctx, pathf("/admin/%s/", userID.String()), &employee); err != nil {
		return entry.Employee{}, err
	}
	return employee, nil
}

// ListProjects returns all projects.
func (c *Client) ListProjects(ctx context.Context) ([]entry.Project, error) {
	var response projectsResponse
	if err := c.get(ctx, "/projects/", &response); err != nil {
		return nil, err
	}
	return response.Projects, nil
}

// CreateProject creates a project owned by the administrator.
func (c *Client) CreateProject(ctx context.Context, adminID entry.ID, name string) (entry.Project, error) {
	var response createProjectResponse
	if err := c.post(ctx, "/projects/create", createProjectRequest{Name: name, AdminID: adminID}, &response); err != nil {
		return entry.Project{}, err
	}
	if !response.Success {
		return entry.Project{}, fmt.Errorf("create project %q: service reported failure", name)
	}
	return response.Project, nil
}

// ListProjectTasks returns the tasks of a project.
func (c *Client) ListProjectTasks(ctx context.Context, projectID entry.ID) ([]entry.Task, error) {
	var response tasksResponse
	if err := c.get(ctx, pathf("/projectmanagement/projects/%s/tasks/", projectID.String()), &response); err != nil {
		return nil, err
	}
	return response.Tasks, nil
}

// CreateTask adds a task to a project.
func (c *Client) CreateTask(ctx context.Context, adminID, projectID entry.ID, name string) (entry.Task, error) {
	var response createTaskResponse
	request := createTaskRequest{AdminID: adminID, ProjectID: projectID, Task: name}
	if err := c.post(ctx, "/projectmanagement/projects/tasks/", request, &response); err != nil {
		return entry.Task{}, err
	}
	return response.Task, nil
}

// AssignTask assigns a task to an employee.
func (c *Client) AssignTask(ctx context.Context, adminID, taskID, employeeID entry.ID) (Assignment, error) {
	var response assignTaskResponse
	request := assignTaskRequest{AdminID: adminID, TaskID: taskID, EmployeeID: employeeID}
	if err := c.post(ctx, "/projectmanagement/projects/tasks/assign/", request, &response); err != nil {
		return Assignment{}, err
	}
	return Assignment{Message: response.Message, EmployeeName: response.Data.EmployeeName}, nil
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amonks/timeclock/entry"
)

type recordedRequest struct {
	method string
	path   string
	body   map[string]any
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorded := recordedRequest{method: r.Method, path: r.URL.Path}
		if r.Body != nil && r.ContentLength != 0 {
			_ = json.NewDecoder(r.Body).Decode(&recorded.body)
		}
		requests = append(requests, recorded)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return NewClient(server.URL), &requests
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestNewClientNormalizesAddress(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{addr: "127.0.0.1:8089", want: "http://127.0.0.1:8089"},
		{addr: "https://example.com/", want: "https://example.com"},
		{addr: " http://localhost:1/api// ", want: "http://localhost:1/api"},
	}
	for _, tc := range tests {
		if got := NewClient(tc.addr).BaseURL(); got != tc.want {
			t.Fatalf("NewClient(%q) = %q, want %q", tc.addr, got, tc.want)
		}
	}
}

func TestClockInSendsTaskAndDecodesEntry(t *testing.T) {
	client, requests := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"entry_id": 101, "task_id": "T1", "start_time": "2024-03-04T09:00:00", "end_time": null, "total_hours": null, "status": "Running"}`)
	})

	created, err := client.ClockIn(context.Background(), "42", entry.TaskRef{ID: "T1"})
	if err != nil {
		t.Fatalf("clock in: %v", err)
	}
	if created.ID != "101" || !created.Open() || created.Status != entry.StatusRunning {
		t.Fatalf("unexpected entry %+v", created)
	}

	got := (*requests)[0]
	if got.method != http.MethodPost || got.path != "/clockin/42/" {
		t.Fatalf("unexpected request %s %s", got.method, got.path)
	}
	if got.body["task_id"] != "T1" {
		t.Fatalf("unexpected body %v", got.body)
	}
	if _, ok := got.body["task_name"]; ok {
		t.Fatalf("task_name should be omitted, got %v", got.body)
	}
}

func TestClockOutSendsNumericEntryID(t *testing.T) {
	client, requests := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"entry_id": 101, "task_id": "T1", "start_time": "2024-03-04T09:00:00Z", "end_time": "2024-03-04T10:30:00Z", "total_hours": "1.50", "status": "completed", "comment": "done"}`)
	})

	closed, err := client.ClockOut(context.Background(), "42", "101", "done")
	if err != nil {
		t.Fatalf("clock out: %v", err)
	}
	if closed.Open() || closed.TotalHours == nil || *closed.TotalHours != 1.5 {
		t.Fatalf("unexpected entry %+v", closed)
	}

	got := (*requests)[0]
	if got.path != "/clockout/42/" {
		t.Fatalf("unexpected path %s", got.path)
	}
	if got.body["entry_id"] != float64(101) || got.body["comment"] != "done" {
		t.Fatalf("unexpected body %v", got.body)
	}
}

func TestClockOutSendsZeroPaddedEntryIDAsString(t *testing.T) {
	client, requests := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"entry_id": "007", "task_id": "T1", "start_time": "2024-03-04T09:00:00Z", "end_time": "2024-03-04T10:00:00Z", "status": "completed", "comment": "done"}`)
	})

	closed, err := client.ClockOut(context.Background(), "1", entry.ID("007"), "done")
	if err != nil {
		t.Fatalf("clock out: %v", err)
	}
	if closed.ID != "007" {
		t.Fatalf("unexpected entry %+v", closed)
	}
	if len(*requests) != 1 {
		t.Fatalf("expected one request, got %d", len(*requests))
	}
	if got := (*requests)[0].body["entry_id"]; got != "007" {
		t.Fatalf("expected entry_id sent as string, got %#v", got)
	}
}

func TestListEntriesAcceptsBothShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "wrapped", body: `{"entries": [{"entry_id": 1, "start_time": "2024-03-04T09:00:00Z"}]}`, want: 1},
		{name: "bare", body: `[{"entry_id": 1, "start_time": "2024-03-04T09:00:00Z"}, {"entry_id": 2, "start_time": "2024-03-04T10:00:00Z"}]`, want: 2},
		{name: "null", body: `null`, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, requests := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, tc.body)
			})
			entries, err := client.ListEntries(context.Background(), "42")
			if err != nil {
				t.Fatalf("list entries: %v", err)
			}
			if len(entries) != tc.want {
				t.Fatalf("expected %d entries, got %d", tc.want, len(entries))
			}
			if got := (*requests)[0]; got.method != http.MethodGet || got.path != "/user/42/" {
				t.Fatalf("unexpected request %s %s", got.method, got.path)
			}
		})
	}
}

func TestServiceErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "error key", status: http.StatusConflict, body: `{"error": "already clocked in"}`, wantMessage: "already clocked in"},
		{name: "message key", status: http.StatusBadRequest, body: `{"message": "comment is required"}`, wantMessage: "comment is required"},
		{name: "plain text", status: http.StatusInternalServerError, body: `oops`, wantMessage: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, tc.body)
			})
			_, err := client.ClockIn(context.Background(), "42", entry.TaskRef{Name: "Design"})
			var serviceErr *ServiceError
			if !errors.As(err, &serviceErr) {
				t.Fatalf("expected ServiceError, got %v", err)
			}
			if serviceErr.StatusCode != tc.status || serviceErr.Message != tc.wantMessage {
				t.Fatalf("unexpected error %+v", serviceErr)
			}
			if tc.wantMessage == "" && !strings.Contains(serviceErr.Error(), http.StatusText(tc.status)) {
				t.Fatalf("expected status text in %q", serviceErr.Error())
			}
		})
	}
}

func TestTimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)
	client = NewClient(client.BaseURL(), WithTimeout(50*time.Millisecond))

	_, err := client.ListEntries(context.Background(), "42")
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		t.Fatalf("timeout should not be a ServiceError: %v", err)
	}
}

func TestSignIn(t *testing.T) {
	client, requests := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"user_id": 7, "role": "admin", "email": "a@example.com"}`)
	})

	account, err := client.SignIn(context.Background(), "a@example.com", "secret")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if account.UserID != "7" || !account.IsAdmin() {
		t.Fatalf("unexpected account %+v", account)
	}
	if got := (*requests)[0]; got.path != "/signin/" || got.body["password"] != "secret" {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestSignInWithoutUserID(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"role": "employee"}`)
	})
	if _, err := client.SignIn(context.Background(), "a@example.com", "secret"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestAdminEndpoints(t *testing.T) {
	client, requests := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/":
			writeJSON(w, http.StatusOK, `[{"user_id": 3, "e_name": "Ada", "email": "ada@example.com"}]`)
		case "/admin/3/":
			writeJSON(w, http.StatusOK, `{"user_id": 3, "e_name": "Ada", "entries": [{"entry_id": 9, "start_time": "2024-03-04T09:00:00Z"}]}`)
		case "/projects/":
			writeJSON(w, http.StatusOK, `{"projects": [{"project_id": 1, "project_name": "Apollo"}]}`)
		case "/projects/create":
			writeJSON(w, http.StatusCreated, `{"success": true, "project": {"project_id": 2, "project_name": "Gemini"}}`)
		case "/projectmanagement/projects/2/tasks/":
			writeJSON(w, http.StatusOK, `{"tasks": [{"task_id": 5, "project_id": 2, "task": "Design"}]}`)
		case "/projectmanagement/projects/tasks/":
			writeJSON(w, http.StatusCreated, `{"message": "Task created", "task": {"task_id": 6, "project_id": 2, "task": "Build"}}`)
		case "/projectmanagement/projects/tasks/assign/":
			writeJSON(w, http.StatusOK, `{"message": "Task assigned", "data": {"emp_name": "Ada"}}`)
		default:
			writeJSON(w, http.StatusNotFound, `{"error": "not found"}`)
		}
	})
	ctx := context.Background()

	employees, err := client.ListEmployees(ctx, "7")
	if err != nil || len(employees) != 1 || employees[0].Name != "Ada" {
		t.Fatalf("list employees: %v %+v", err, employees)
	}
	if (*requests)[0].body["user_id"] != float64(7) {
		t.Fatalf("expected numeric admin id, got %v", (*requests)[0].body)
	}

	employee, err := client.Employee(ctx, "3")
	if err != nil || len(employee.Entries) != 1 {
		t.Fatalf("employee: %v %+v", err, employee)
	}

	projects, err := client.ListProjects(ctx)
	if err != nil || len(projects) != 1 || projects[0].ProjectID != "1" {
		t.Fatalf("list projects: %v %+v", err, projects)
	}

	project, err := client.CreateProject(ctx, "7", "Gemini")
	if err != nil || project.ProjectID != "2" {
		t.Fatalf("create project: %v %+v", err, project)
	}
	if (*requests)[3].body["projectName"] != "Gemini" {
		t.Fatalf("unexpected create body %v", (*requests)[3].body)
	}

	tasks, err := client.ListProjectTasks(ctx, project.ProjectID)
	if err != nil || len(tasks) != 1 || tasks[0].Name != "Design" {
		t.Fatalf("list tasks: %v %+v", err, tasks)
	}

	task, err := client.CreateTask(ctx, "7", project.ProjectID, "Build")
	if err != nil || task.TaskID != "6" {
		t.Fatalf("create task: %v %+v", err, task)
	}

	assignment, err := client.AssignTask(ctx, "7", task.TaskID, "3")
	if err != nil || assignment.EmployeeName != "Ada" {
		t.Fatalf("assign task: %v %+v", err, assignment)
	}
	if (*requests)[6].body["emp_id"] != float64(3) {
		t.Fatalf("unexpected assign body %v", (*requests)[6].body)
	}
}

func TestCreateProjectFailure(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success": false}`)
	})
	if _, err := client.CreateProject(context.Background(), "7", "Gemini"); err == nil {
		t.Fatalf("expected failure")
	}
}

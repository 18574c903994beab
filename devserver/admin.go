package devserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/amonks/timeclock/entry"
)

type adminRequest struct {
	UserID entry.ID `json:"user_id"`
}

type projectsResponse struct {
	Projects []entry.Project `json:"projects"`
}

type createProjectRequest struct {
	Name    string   `json:"projectName"`
	AdminID entry.ID `json:"admin_id"`
}

type createProjectResponse struct {
	Success bool          `json:"success"`
	Project entry.Project `json:"project"`
}

type tasksResponse struct {
	Tasks []entry.Task `json:"tasks"`
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

type assignTaskData struct {
	EmployeeName string `json:"emp_name"`
}

type assignTaskResponse struct {
	Message string         `json:"message"`
	Data    assignTaskData `json:"data"`
}

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload adminRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	employees := []entry.Employee{}
	err := s.store.View(func(db *Database) error {
		if _, err := requireAdmin(db, payload.UserID); err != nil {
			return err
		}
		for _, user := range db.Users {
			if user.Role == entry.RoleEmployee {
				employees = append(employees, db.employee(user))
			}
		}
		return nil
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (s *Server) handleEmployee(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	userID := entry.ID(r.PathValue("uid"))

	var employee entry.Employee
	err := s.store.View(func(db *Database) error {
		user, ok := db.user(userID)
		if !ok {
			return statusError(http.StatusNotFound, "user %s not found", userID)
		}
		employee = db.employee(*user)
		return nil
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	projects := []entry.Project{}
	err := s.store.View(func(db *Database) error {
		projects = append(projects, db.Projects...)
		return nil
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectsResponse{Projects: projects})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload createProjectRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		s.writeError(w, r, http.StatusBadRequest, errors.New("project name is required"))
		return
	}

	var created entry.Project
	err := s.store.Update(func(db *Database) error {
		admin, err := requireAdmin(db, payload.AdminID)
		if err != nil {
			return err
		}
		for _, project := range db.Projects {
			if strings.EqualFold(project.Name, name) {
				return statusError(http.StatusConflict, "project %q already exists", name)
			}
		}
		created = entry.Project{ProjectID: nextID(&db.NextProjectID), Name: name, AdminEmail: admin.Email}
		db.Projects = append(db.Projects, created)
		return nil
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createProjectResponse{Success: true, Project: created})
}

func (s *Server) handleListProjectTasks(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	projectID := entry.ID(r.PathValue("pid"))

	tasks := []entry.Task{}
	err := s.store.View(func(db *Database) error {
		if _, ok := db.project(projectID); !ok {
			return statusError(http.StatusNotFound, "project %s not found", projectID)
		}
		for _, task := range db.Tasks {
			if task.ProjectID == projectID {
				tasks = append(tasks, task)
			}
		}
		return nil
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasksResponse{Tasks: tasks})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload createTaskRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	name := strings.TrimSpace(payload.Task)
	if name == "" {
		s.writeError(w, r, http.StatusBadRequest, errors.New("task is required"))
		return
	}

	var created entry.Task
	err := s.store.Update(func(db *Database) error {
		if _, err := requireAdmin(db, payload.AdminID); err != nil {
			return err
		}
		if _, ok := db.project(payload.ProjectID); !ok {
			return statusError(http.StatusNotFound, "project %s not found", payload.ProjectID)
		}
		created = entry.Task{TaskID: nextID(&db.NextTaskID), ProjectID: payload.ProjectID, Name: name}
		db.Tasks = append(db.Tasks, created)
		return nil
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createTaskResponse{Message: "Task created successfully", Task: created})
}

func (s *Server) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload assignTaskRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	var employeeName string
	err := s.store.Update(func(db *Database) error {
		if _, err := requireAdmin(db, payload.AdminID); err != nil {
			return err
		}
		task, ok := db.task(payload.TaskID)
		if !ok {
			return statusError(http.StatusNotFound, "task %s not found", payload.TaskID)
		}
		employee, ok := db.user(payload.EmployeeID)
		if !ok {
			return statusError(http.StatusNotFound, "employee %s not found", payload.EmployeeID)
		}
		task.AssignedTo = employee.ID.String()
		employeeName = employee.Name
		return nil
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignTaskResponse{
		Message: "Task assigned successfully",
		Data:    assignTaskData{EmployeeName: employeeName},
	})
}

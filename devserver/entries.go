package devserver

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/amonks/timeclock/entry"
)

type entriesResponse struct {
	Entries []entry.Entry `json:"entries"`
}

type assignedTasksResponse struct {
	Tasks []entry.AssignedTask `json:"tasks"`
}

type clockInRequest struct {
	TaskID   entry.ID `json:"task_id"`
	TaskName string   `json:"task_name"`
}

type clockOutRequest struct {
	EntryID entry.ID `json:"entry_id"`
	Comment string   `json:"comment"`
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	userID := entry.ID(r.PathValue("uid"))

	var entries []entry.Entry
	err := s.store.View(func(db *Database) error {
		if _, ok := db.user(userID); !ok {
			return statusError(http.StatusNotFound, "user %s not found", userID)
		}
		entries = append([]entry.Entry{}, db.Entries[userID.String()]...)
		return nil
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime.Before(entries[j].StartTime)
	})
	writeJSON(w, http.StatusOK, entriesResponse{Entries: entries})
}

func (s *Server) handleAssignedTasks(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	userID := entry.ID(r.PathValue("uid"))

	var tasks []entry.AssignedTask
	err := s.store.View(func(db *Database) error {
		if _, ok := db.user(userID); !ok {
			return statusError(http.StatusNotFound, "user %s not found", userID)
		}
		tasks = db.assignedTasks(userID)
		return nil
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignedTasksResponse{Tasks: tasks})
}

func (s *Server) handleClockIn(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	userID := entry.ID(r.PathValue("uid"))
	var payload clockInRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	payload.TaskName = strings.TrimSpace(payload.TaskName)
	if payload.TaskID.IsZero() && payload.TaskName == "" {
		s.writeError(w, r, http.StatusBadRequest, errors.New("task_id or task_name is required"))
		return
	}

	var created entry.Entry
	err := s.store.Update(func(db *Database) error {
		if _, ok := db.user(userID); !ok {
			return statusError(http.StatusNotFound, "user %s not found", userID)
		}
		taskName := payload.TaskName
		if !payload.TaskID.IsZero() {
			task, ok := db.task(payload.TaskID)
			if !ok {
				return statusError(http.StatusNotFound, "task %s not found", payload.TaskID)
			}
			taskName = task.Name
		}
		if open := db.openEntries(userID); len(open) > 0 && !s.allowConcurrent {
			running := db.Entries[userID.String()][open[0]]
			return statusError(http.StatusConflict, "entry %s is already running", running.ID)
		}

		created = entry.Entry{
			ID:        nextID(&db.NextEntryID),
			TaskID:    payload.TaskID.String(),
			TaskName:  taskName,
			StartTime: s.now().UTC(),
			Status:    entry.StatusRunning,
		}
		db.Entries[userID.String()] = append(db.Entries[userID.String()], created)
		return nil
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleClockOut(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	userID := entry.ID(r.PathValue("uid"))
	var payload clockOutRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	payload.Comment = strings.TrimSpace(payload.Comment)
	if payload.EntryID.IsZero() {
		s.writeError(w, r, http.StatusBadRequest, errors.New("entry_id is required"))
		return
	}
	if payload.Comment == "" {
		s.writeError(w, r, http.StatusBadRequest, errors.New("comment is required"))
		return
	}

	var closed entry.Entry
	err := s.store.Update(func(db *Database) error {
		if _, ok := db.user(userID); !ok {
			return statusError(http.StatusNotFound, "user %s not found", userID)
		}
		entries := db.Entries[userID.String()]
		for i := range entries {
			if entries[i].ID != payload.EntryID {
				continue
			}
			if !entries[i].Open() {
				return statusError(http.StatusConflict, "entry %s is already completed", payload.EntryID)
			}
			end := s.now().UTC()
			if end.Before(entries[i].StartTime) {
				end = entries[i].StartTime
			}
			hours := entry.Hours(end.Sub(entries[i].StartTime))
			entries[i].EndTime = &end
			entries[i].TotalHours = &hours
			entries[i].Status = entry.StatusCompleted
			entries[i].Comment = payload.Comment
			closed = entries[i]
			return nil
		}
		return statusError(http.StatusNotFound, "entry %s not found", payload.EntryID)
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, closed)
}

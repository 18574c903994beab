// Package devserver is a reference implementation of the task service for
// local use and tests. It persists to a single JSON file.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"time"

	"github.com/amonks/timeclock/internal/state"
	"github.com/brimstone/logger"
	"golang.org/x/crypto/bcrypt"
)

var log = logger.New()

const shutdownTimeout = 5 * time.Second

// Options configures a dev server.
type Options struct {
	StateDir string
	// AllowConcurrentClockIn lets a user open a second entry while one is
	// running, to reproduce the multiple-open-entries anomaly.
	AllowConcurrentClockIn bool
	// PasswordCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	PasswordCost int
	Now          func() time.Time
}

// Server handles task service requests.
type Server struct {
	store           *state.Store[Database]
	allowConcurrent bool
	passwordCost    int
	now             func() time.Time
}

// NewServer creates a server backed by StateDir.
func NewServer(opts Options) (*Server, error) {
	if strings.TrimSpace(opts.StateDir) == "" {
		return nil, fmt.Errorf("state dir is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cost := opts.PasswordCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("password cost %d out of range", cost)
	}
	return &Server{
		store:           state.NewStore[Database](opts.StateDir, DatabaseFile),
		allowConcurrent: opts.AllowConcurrentClockIn,
		passwordCost:    cost,
		now:             now,
	}, nil
}

// Handler returns the HTTP handler for the service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/signin/{$}", s.handleSignIn)
	mux.HandleFunc("/signup/{$}", s.handleSignUp)
	mux.HandleFunc("/user/{uid}/{$}", s.handleListEntries)
	mux.HandleFunc("/user/{uid}/tasks/{$}", s.handleAssignedTasks)
	mux.HandleFunc("/clockin/{uid}/{$}", s.handleClockIn)
	mux.HandleFunc("/clockout/{uid}/{$}", s.handleClockOut)
	mux.HandleFunc("/admin/{$}", s.handleListEmployees)
	mux.HandleFunc("/admin/{uid}/{$}", s.handleEmployee)
	mux.HandleFunc("/projects/{$}", s.handleListProjects)
	mux.HandleFunc("/projects/create", s.handleCreateProject)
	mux.HandleFunc("/projectmanagement/projects/{pid}/tasks/{$}", s.handleListProjectTasks)
	mux.HandleFunc("/projectmanagement/projects/tasks/{$}", s.handleCreateTask)
	mux.HandleFunc("/projectmanagement/projects/tasks/assign/{$}", s.handleAssignTask)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("no route for %s", r.URL.Path))
	})
	return s.recoverHandler(mux)
}

// Serve runs the server on addr until interrupted.
func (s *Server) Serve(addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.ListenAndServe()
	}()
	log.Println("task service listening on", addr)

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	select {
	case err := <-listenErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Println("server stopped:", err)
			return err
		}
		return nil
	case <-interrupts:
		log.Println("interrupt received, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		shutdownErr := server.Shutdown(shutdownCtx)
		cancel()
		listenErr := <-listenErrs
		if errors.Is(listenErr, http.ErrServerClosed) {
			listenErr = nil
		}
		return errors.Join(shutdownErr, listenErr)
	}
}

func (s *Server) recoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseTracker{ResponseWriter: w}
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Println(fmt.Sprintf("panic handling request %s %s: %v\n%s", r.Method, r.URL.Path, recovered, debug.Stack()))
				if writer.wroteHeader {
					return
				}
				writeJSON(writer, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(writer, r)
	})
}

// httpError carries a status code out of a store update.
type httpError struct {
	status int
	err    error
}

func (e *httpError) Error() string {
	return e.err.Error()
}

func (e *httpError) Unwrap() error {
	return e.err
}

func statusError(status int, format string, args ...any) error {
	return &httpError{status: status, err: fmt.Errorf(format, args...)}
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var statusErr *httpError
	if errors.As(err, &statusErr) {
		s.writeError(w, r, statusErr.status, statusErr.err)
		return
	}
	s.writeError(w, r, http.StatusInternalServerError, err)
}

func (s *Server) requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	s.writeError(w, r, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	return false
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	log.Debug("request failed",
		log.Field("method", r.Method),
		log.Field("path", r.URL.Path),
		log.Field("status", status),
		log.Field("error", err.Error()),
	)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type responseTracker struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *responseTracker) WriteHeader(status int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseTracker) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(data)
}

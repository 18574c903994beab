package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/amonks/timeclock/entry"
	"golang.org/x/crypto/bcrypt"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	EmployeeID  string     `json:"employee_id"`
	Name        string     `json:"e_name"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	Designation string     `json:"designation"`
	Role        entry.Role `json:"role"`
}

type signUpResponse struct {
	Message string   `json:"message"`
	UserID  entry.ID `json:"user_id"`
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload signInRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	var account entry.Account
	err := s.store.View(func(db *Database) error {
		user, ok := db.userByEmail(strings.TrimSpace(payload.Email))
		if !ok {
			return statusError(http.StatusUnauthorized, "invalid email or password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
			return statusError(http.StatusUnauthorized, "invalid email or password")
		}
		account = entry.Account{UserID: user.ID, Role: user.Role, Email: user.Email, Name: user.Name}
		return nil
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload signUpRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := validateSignUp(&payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), s.passwordCost)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, fmt.Errorf("hash password: %w", err))
		return
	}

	var created User
	err = s.store.Update(func(db *Database) error {
		if _, exists := db.userByEmail(payload.Email); exists {
			return statusError(http.StatusConflict, "email %s is already registered", payload.Email)
		}
		created = User{
			ID:           nextID(&db.NextUserID),
			EmployeeID:   payload.EmployeeID,
			Name:         payload.Name,
			Email:        payload.Email,
			PasswordHash: string(hash),
			Designation:  payload.Designation,
			Role:         payload.Role,
			CreatedAt:    s.now(),
		}
		db.Users = append(db.Users, created)
		return nil
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, signUpResponse{Message: "User created successfully", UserID: created.ID})
}

func validateSignUp(payload *signUpRequest) error {
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.TrimSpace(payload.Email)
	payload.EmployeeID = strings.TrimSpace(payload.EmployeeID)
	payload.Designation = strings.TrimSpace(payload.Designation)

	if payload.Name == "" {
		return errors.New("name is required")
	}
	if _, err := mail.ParseAddress(payload.Email); err != nil {
		return fmt.Errorf("invalid email %q", payload.Email)
	}
	if len(payload.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	role, err := entry.ParseRole(string(payload.Role))
	if err != nil {
		return err
	}
	payload.Role = role
	return nil
}

// requireAdmin loads an admin user or fails with 403.
func requireAdmin(db *Database, id entry.ID) (*User, error) {
	if id.IsZero() {
		return nil, statusError(http.StatusBadRequest, "admin id is required")
	}
	user, ok := db.user(id)
	if !ok {
		return nil, statusError(http.StatusNotFound, "user %s not found", id)
	}
	if user.Role != entry.RoleAdmin {
		return nil, statusError(http.StatusForbidden, "user %s is not an admin", id)
	}
	return user, nil
}

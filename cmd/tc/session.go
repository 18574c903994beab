package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/amonks/timeclock/api"
	"github.com/amonks/timeclock/entry"
	"github.com/amonks/timeclock/internal/config"
	"github.com/amonks/timeclock/internal/paths"
	"github.com/amonks/timeclock/internal/state"
	"github.com/amonks/timeclock/tracker"
)

// ErrSignedOut indicates a command that needs a saved account.
var ErrSignedOut = errors.New("not signed in; run tc login")

// ErrNotAdmin indicates an admin command run by an employee.
var ErrNotAdmin = errors.New("this command requires an admin account")

func accountStore() *state.Store[entry.Account] {
	return state.NewStore[entry.Account](paths.DefaultStateDir(), paths.AccountFile)
}

func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return config.Load(cwd)
}

func newClient(cfg *config.Config) (*api.Client, error) {
	timeout, err := cfg.APITimeout()
	if err != nil {
		return nil, err
	}
	return api.NewClient(cfg.APIURL(), api.WithTimeout(timeout)), nil
}

func loadAccount() (entry.Account, error) {
	store := accountStore()
	exists, err := store.Exists()
	if err != nil {
		return entry.Account{}, err
	}
	if !exists {
		return entry.Account{}, &tracker.ValidationError{Err: ErrSignedOut}
	}
	account, err := store.Load()
	if err != nil {
		return entry.Account{}, err
	}
	if account.UserID.IsZero() {
		return entry.Account{}, &tracker.ValidationError{Err: ErrSignedOut}
	}
	return *account, nil
}

func loadAdmin() (entry.Account, error) {
	account, err := loadAccount()
	if err != nil {
		return entry.Account{}, err
	}
	if !account.IsAdmin() {
		return entry.Account{}, &tracker.ValidationError{Err: ErrNotAdmin}
	}
	return account, nil
}

// session bundles what the employee commands need.
type session struct {
	cfg     *config.Config
	client  *api.Client
	account entry.Account
	tracker *tracker.Tracker
	loc     *time.Location
}

func openSession() (*session, error) {
	account, err := loadAccount()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	opts := tracker.Options{}
	if verbose {
		opts.Logger = tracker.NewConsoleLogger(os.Stderr)
	}
	t, err := tracker.New(account.UserID.String(), client, opts)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, client: client, account: account, tracker: t, loc: loc}, nil
}

// refresh loads entries and tasks. Several open entries are reported on
// stderr but are not fatal.
func (s *session) refresh(ctx context.Context) (tracker.Snapshot, error) {
	snap, err := s.tracker.Refresh(ctx)
	var inconsistent *tracker.InconsistencyError
	if errors.As(err, &inconsistent) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", inconsistent)
		return snap, nil
	}
	return snap, err
}

func (s *session) Close() {
	s.tracker.Close()
}

func adminContext() (*api.Client, entry.Account, *config.Config, error) {
	account, err := loadAdmin()
	if err != nil {
		return nil, entry.Account{}, nil, err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, entry.Account{}, nil, err
	}
	client, err := newClient(cfg)
	if err != nil {
		return nil, entry.Account{}, nil, err
	}
	return client, account, cfg, nil
}

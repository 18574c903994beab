// Package state persists a JSON document on disk behind an exclusive file
// lock, so concurrent processes can read-modify-write it safely.
package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// Initializer is implemented by documents that need their zero value filled
// in after loading, such as nil maps.
type Initializer interface {
	Init()
}

// Store manages one JSON file with locking.
type Store[T any] struct {
	dir  string
	name string
}

// NewStore creates a store for dir/name. The lock file sits beside it.
func NewStore[T any](dir, name string) *Store[T] {
	return &Store[T]{dir: dir, name: name}
}

// Path returns the path to the document.
func (s *Store[T]) Path() string {
	return filepath.Join(s.dir, s.name)
}

func (s *Store[T]) lockPath() string {
	return filepath.Join(s.dir, s.name+".lock")
}

// Exists reports whether the document has been written.
func (s *Store[T]) Exists() (bool, error) {
	_, err := os.Stat(s.Path())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Load reads the document. A missing file yields the initialized zero value.
func (s *Store[T]) Load() (*T, error) {
	var doc T
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		initialize(&doc)
		return &doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	initialize(&doc)
	return &doc, nil
}

// Save writes the document atomically through a temp file.
func (s *Store[T]) Save(doc *T) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if existing, err := os.ReadFile(s.Path()); err == nil {
		if bytes.Equal(existing, data) {
			return nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read state file: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.dir, s.name+".tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	name := tmpFile.Name()
	_, err = tmpFile.Write(data)
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("write temp state file: %w", err)
	}

	if err := os.Rename(name, s.Path()); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename state file: %w", err)
	}
	return nil
}

// Update reads, modifies and writes the document while holding the lock.
// Nothing is written when fn returns an error.
func (s *Store[T]) Update(fn func(doc *T) error) error {
	return s.withLock(func() error {
		doc, err := s.Load()
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		return s.Save(doc)
	})
}

// View reads the document while holding the lock.
func (s *Store[T]) View(fn func(doc *T) error) error {
	return s.withLock(func() error {
		doc, err := s.Load()
		if err != nil {
			return err
		}
		return fn(doc)
	})
}

// Remove deletes the document. A missing file is not an error.
func (s *Store[T]) Remove() error {
	return s.withLock(func() error {
		if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove state file: %w", err)
		}
		return nil
	})
}

func (s *Store[T]) withLock(fn func() error) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	lockFile, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	return fn()
}

func initialize[T any](doc *T) {
	if initializer, ok := any(doc).(Initializer); ok {
		initializer.Init()
	}
}

package state

import (
	"errors"
	"os"
	"sync"
	"testing"
	"time"
)

type testDoc struct {
	Counter int               `json:"counter"`
	Labels  map[string]string `json:"labels"`
}

func (d *testDoc) Init() {
	if d.Labels == nil {
		d.Labels = make(map[string]string)
	}
}

func TestStore_LoadEmpty(t *testing.T) {
	store := NewStore[testDoc](t.TempDir(), "doc.json")

	doc, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load empty state: %v", err)
	}
	if doc.Labels == nil {
		t.Fatal("expected initialized labels")
	}
	exists, err := store.Exists()
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("load should not create the file")
	}
}

func TestStore_SaveLoad(t *testing.T) {
	store := NewStore[testDoc](t.TempDir(), "doc.json")

	if err := store.Save(&testDoc{Counter: 3, Labels: map[string]string{"a": "b"}}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if loaded.Counter != 3 || loaded.Labels["a"] != "b" {
		t.Errorf("unexpected document %+v", loaded)
	}
}

func TestStore_SaveNoChange(t *testing.T) {
	store := NewStore[testDoc](t.TempDir(), "doc.json")
	doc := &testDoc{Counter: 1}

	if err := store.Save(doc); err != nil {
		t.Fatalf("failed to save initial state: %v", err)
	}

	oldTime := time.Unix(1, 0)
	if err := os.Chtimes(store.Path(), oldTime, oldTime); err != nil {
		t.Fatalf("failed to set mod time: %v", err)
	}

	if err := store.Save(doc); err != nil {
		t.Fatalf("failed to save identical state: %v", err)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("failed to stat state file: %v", err)
	}
	if !info.ModTime().Equal(oldTime) {
		t.Errorf("expected mod time to stay %v, got %v", oldTime, info.ModTime())
	}
}

func TestStore_UpdateErrorWritesNothing(t *testing.T) {
	store := NewStore[testDoc](t.TempDir(), "doc.json")
	boom := errors.New("boom")

	err := store.Update(func(doc *testDoc) error {
		doc.Counter = 99
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if exists, _ := store.Exists(); exists {
		t.Fatal("failed update should not write")
	}
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	store := NewStore[testDoc](t.TempDir(), "doc.json")

	var wg sync.WaitGroup
	numGoroutines := 10
	incrementsPerGoroutine := 10

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < incrementsPerGoroutine; j++ {
				err := store.Update(func(doc *testDoc) error {
					doc.Counter++
					return nil
				})
				if err != nil {
					t.Errorf("concurrent update failed: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	var counter int
	if err := store.View(func(doc *testDoc) error {
		counter = doc.Counter
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	if counter != numGoroutines*incrementsPerGoroutine {
		t.Errorf("expected %d, got %d", numGoroutines*incrementsPerGoroutine, counter)
	}
}

func TestStore_Remove(t *testing.T) {
	store := NewStore[testDoc](t.TempDir(), "doc.json")
	if err := store.Save(&testDoc{Counter: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Remove(); err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if exists, _ := store.Exists(); exists {
		t.Fatal("expected file removed")
	}
}

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// newTestStore creates a store in a fresh temp directory
func newTestStore(t *testing.T) (*JSONStore, string) {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "todo.json")

	store, err := NewJSONStore(dbPath, nil)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store, dbPath
}

func TestLoadMissingFile(t *testing.T) {
	store, _ := newTestStore(t)

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("Missing file should not be an error: %v", err)
	}
	if len(snap.Tasks) != 0 {
		t.Errorf("Expected no tasks, got %d", len(snap.Tasks))
	}
	if snap.NextID != 1 {
		t.Errorf("Expected next id 1, got %d", snap.NextID)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
	}{
		{"empty", Snapshot{NextID: 1, Tasks: []Task{}}},
		{"empty after deletes", Snapshot{NextID: 7, Tasks: []Task{}}},
		{"mixed", Snapshot{NextID: 4, Tasks: []Task{
			{ID: 1, Description: "buy milk", Completed: true},
			{ID: 3, Description: "walk the dog"},
		}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, _ := newTestStore(t)

			if err := store.Save(tc.snap); err != nil {
				t.Fatalf("Failed to save: %v", err)
			}

			got, err := store.Load()
			if err != nil {
				t.Fatalf("Failed to load: %v", err)
			}
			if diff := cmp.Diff(tc.snap, got); diff != "" {
				t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveOverwrites(t *testing.T) {
	store, dbPath := newTestStore(t)

	store.Save(Snapshot{NextID: 2, Tasks: []Task{{ID: 1, Description: "first"}}})
	store.Save(Snapshot{NextID: 3, Tasks: []Task{{ID: 2, Description: "second"}}})

	data, err := os.ReadFile(dbPath)
	if err != nil {
		t.Fatalf("Failed to read data file: %v", err)
	}
	if strings.Contains(string(data), "first") {
		t.Errorf("Old content should be overwritten, got: %s", data)
	}

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(dbPath))
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the data file, got %d entries", len(entries))
	}
}

func TestSaveCreatesParentDirs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "todo.json")
	store, err := NewJSONStore(dbPath, nil)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := store.Save(Snapshot{NextID: 1}); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("Data file should exist: %v", err)
	}
}

func TestSaveFailure(t *testing.T) {
	tmpDir := t.TempDir()
	// Parent path is a regular file, so the directory cannot be created
	blocker := filepath.Join(tmpDir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write blocker: %v", err)
	}

	store, err := NewJSONStore(filepath.Join(blocker, "todo.json"), nil)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	err = store.Save(Snapshot{NextID: 1})
	if !errors.Is(err, ErrPersistence) {
		t.Errorf("Expected ErrPersistence, got %v", err)
	}
}

func TestLoadInvalidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"not json", "{not json", "decode"},
		{"missing tasks", `{"next_id": 1}`, "invalid document"},
		{"negative id", `{"tasks": [{"id": -1, "description": "x", "completed": false}]}`, "invalid document"},
		{"string completed", `{"tasks": [{"id": 1, "description": "x", "completed": "yes"}]}`, "invalid document"},
		{"id at top of range", `{"tasks": [
			{"id": 1, "description": "a", "completed": false},
			{"id": 18446744073709551615, "description": "b", "completed": false}
		]}`, "task id out of range"},
		{"zero next id", `{"next_id": 0, "tasks": []}`, "invalid document"},
		{"duplicate ids", `{"tasks": [
			{"id": 1, "description": "a", "completed": false},
			{"id": 1, "description": "b", "completed": true}
		]}`, "duplicate task id"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, dbPath := newTestStore(t)
			if err := os.WriteFile(dbPath, []byte(tc.content), 0644); err != nil {
				t.Fatalf("Failed to write fixture: %v", err)
			}

			_, err := store.Load()
			if !errors.Is(err, ErrPersistence) {
				t.Fatalf("Expected ErrPersistence, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.errText) {
				t.Errorf("Expected %q in error, got: %v", tc.errText, err)
			}
		})
	}
}

func TestLoadWithoutNextID(t *testing.T) {
	store, dbPath := newTestStore(t)
	content := `{"tasks": [{"id": 5, "description": "legacy", "completed": false}]}`
	if err := os.WriteFile(dbPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	r := RegistryFromSnapshot(snap)
	if id, err := r.Add("next"); err != nil || id != 6 {
		t.Errorf("Expected id 6 after legacy load, got %d (%v)", id, err)
	}
}

func TestNewJSONStoreEmptyPath(t *testing.T) {
	if _, err := NewJSONStore("", nil); !errors.Is(err, ErrPersistence) {
		t.Errorf("Expected ErrPersistence for empty path, got %v", err)
	}
}

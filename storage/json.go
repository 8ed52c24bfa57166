package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// snapshotSchema describes the on-disk document
const snapshotSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["tasks"],
  "properties": {
    "next_id": {"type": "integer", "minimum": 1},
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "description", "completed"],
        "properties": {
          "id": {"type": "integer", "minimum": 1},
          "description": {"type": "string"},
          "completed": {"type": "boolean"}
        }
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("todo-snapshot.schema.json", snapshotSchema)

// JSONStore implements Store using a JSON file
type JSONStore struct {
	filename string
	logger   *log.Logger
	mu       sync.Mutex
}

// NewJSONStore creates a store backed by filename. The file is not touched
// until Load or Save is called.
func NewJSONStore(filename string, logger *log.Logger) (*JSONStore, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: empty data file path", ErrPersistence)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &JSONStore{
		filename: filename,
		logger:   logger,
	}, nil
}

// Path returns the backing file path
func (s *JSONStore) Path() string {
	return s.filename
}

// Load reads and validates the stored snapshot. A missing file yields an
// empty snapshot.
func (s *JSONStore) Load() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filename)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("no data file, starting empty", "path", s.filename)
		return Snapshot{NextID: 1, Tasks: []Task{}}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: read %s: %w", ErrPersistence, s.filename, err)
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s: %w", ErrPersistence, s.filename, err)
	}

	s.logger.Debug("loaded tasks", "path", s.filename, "tasks", len(snap.Tasks), "next_id", snap.NextID)
	return snap, nil
}

func decodeSnapshot(data []byte) (Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return Snapshot{}, fmt.Errorf("invalid document: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	if snap.Tasks == nil {
		snap.Tasks = []Task{}
	}

	seen := make(map[uint64]bool, len(snap.Tasks))
	for _, t := range snap.Tasks {
		if t.ID == exhaustedID {
			return Snapshot{}, fmt.Errorf("task id out of range: %d", t.ID)
		}
		if seen[t.ID] {
			return Snapshot{}, fmt.Errorf("duplicate task id: %d", t.ID)
		}
		seen[t.ID] = true
	}

	return snap, nil
}

// Save writes the snapshot to a temporary file and renames it over the
// data file, so a failed write leaves the previous content intact.
func (s *JSONStore) Save(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Tasks == nil {
		snap.Tasks = []Task{}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersistence, err)
	}

	if err := s.writeAtomic(data); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrPersistence, s.filename, err)
	}

	s.logger.Debug("saved tasks", "path", s.filename, "tasks", len(snap.Tasks))
	return nil
}

func (s *JSONStore) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.filename)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, s.filename); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Close closes the store
func (s *JSONStore) Close() error {
	// Nothing is held open between calls
	return nil
}

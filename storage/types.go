package storage

import "errors"

var (
	ErrNotFound     = errors.New("task not found")
	ErrPersistence  = errors.New("persistence failure")
	ErrIDsExhausted = errors.New("no task ids left")
)

// Task is a single todo item
type Task struct {
	ID          uint64 `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Snapshot is the persisted form of a registry: tasks in display order plus
// the next id the allocator will hand out.
type Snapshot struct {
	NextID uint64 `json:"next_id"`
	Tasks  []Task `json:"tasks"`
}

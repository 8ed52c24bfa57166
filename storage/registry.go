package storage

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// exhaustedID is the counter value once every id has been handed out.
// It is never assigned to a task.
const exhaustedID = math.MaxUint64

// Registry owns the ordered task list and the id allocator
type Registry struct {
	tasks  []*Task
	nextID atomic.Uint64
	mu     sync.RWMutex
}

// NewRegistry creates an empty registry whose first id is 1
func NewRegistry() *Registry {
	r := &Registry{tasks: []*Task{}}
	r.nextID.Store(1)
	return r
}

// RegistryFromSnapshot rebuilds a registry from persisted state.
// The allocator resumes past both the saved counter and the highest stored id,
// so ids of deleted tasks are not handed out again after a restart. A stored
// id at the top of the range leaves the allocator exhausted instead of
// wrapping around.
func RegistryFromSnapshot(snap Snapshot) *Registry {
	r := &Registry{tasks: make([]*Task, 0, len(snap.Tasks))}

	next := snap.NextID
	if next == 0 {
		next = 1
	}
	for _, t := range snap.Tasks {
		task := t
		r.tasks = append(r.tasks, &task)
		switch {
		case t.ID == exhaustedID:
			next = exhaustedID
		case t.ID >= next:
			next = t.ID + 1
		}
	}
	r.nextID.Store(next)

	return r
}

// Add appends a new incomplete task and returns its id.
// It fails with ErrIDsExhausted once the allocator reaches the top of the range.
func (r *Registry) Add(description string) (uint64, error) {
	id, err := r.allocate()
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = append(r.tasks, &Task{
		ID:          id,
		Description: description,
	})
	return id, nil
}

// allocate takes the next id from the counter without ever wrapping it
func (r *Registry) allocate() (uint64, error) {
	for {
		id := r.nextID.Load()
		if id == exhaustedID {
			return 0, ErrIDsExhausted
		}
		if r.nextID.CompareAndSwap(id, id+1) {
			return id, nil
		}
	}
}

// Remove deletes a task, keeping the order of the rest
func (r *Registry) Remove(id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("%w: %d", ErrNotFound, id)
}

// find returns the stored task for in-place mutation. Callers hold r.mu.
func (r *Registry) find(id uint64) *Task {
	for _, t := range r.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Get returns a copy of the task with the given id
func (r *Registry) Get(id uint64) (Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t := r.find(id); t != nil {
		return *t, true
	}
	return Task{}, false
}

// UpdateDescription overwrites a task's description
func (r *Registry) UpdateDescription(id uint64, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.find(id)
	if t == nil {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	t.Description = description
	return nil
}

// MarkCompleted marks a task as done. Completing a done task is not an error.
func (r *Registry) MarkCompleted(id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.find(id)
	if t == nil {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	t.Completed = true
	return nil
}

// List returns a copy of all tasks in display order
func (r *Registry) List() []Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]Task, len(r.tasks))
	for i, t := range r.tasks {
		tasks[i] = *t
	}
	return tasks
}

// Len returns the number of tasks
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

// NextID reports the id the next Add will assign
func (r *Registry) NextID() uint64 {
	return r.nextID.Load()
}

// Snapshot captures the registry for persistence
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]Task, len(r.tasks))
	for i, t := range r.tasks {
		tasks[i] = *t
	}
	return Snapshot{
		NextID: r.nextID.Load(),
		Tasks:  tasks,
	}
}

package storage

// Store defines the interface for durable registry storage.
// Implementations never retain the snapshot passed to Save.
type Store interface {
	// Load returns the persisted snapshot, or an empty one if nothing was saved yet
	Load() (Snapshot, error)
	// Save overwrites the persisted snapshot
	Save(snap Snapshot) error

	// Lifecycle
	Close() error
}

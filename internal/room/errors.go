package room

// StorageError wraps a store failure on a critical write path. Debounced
// writes never raise it; their failures are retried in the background.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return "storage: " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// BroadcastError wraps a publish failure. Always critical: a room whose
// updates stop fanning out silently diverges.
type BroadcastError struct {
	Err error
}

func (e *BroadcastError) Error() string { return "broadcast: " + e.Err.Error() }
func (e *BroadcastError) Unwrap() error { return e.Err }

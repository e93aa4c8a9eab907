package snapshot

import (
	"context"
	"os"
	"path/filepath"

	"mbb-tracker/internal/errors"
)

// Slot is a durable key-value slot holding the serialized active-timer set.
// Implementations must make Write atomic enough that a reader never observes
// a torn payload; Restore tolerates corruption regardless.
type Slot interface {
	// Write replaces the slot contents with payload.
	Write(ctx context.Context, payload []byte) error
	// Read returns the slot contents. ok is false when the slot has never
	// been written.
	Read(ctx context.Context) (payload []byte, ok bool, err error)
}

// FileSlot stores the snapshot in a local file, written via temp-file rename
// so a crash mid-write leaves the previous snapshot intact.
type FileSlot struct {
	path string
}

// NewFileSlot creates a file-backed slot at path.
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

// Write replaces the snapshot file contents.
func (s *FileSlot) Write(_ context.Context, payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.NewSnapshotError("create snapshot directory", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return errors.NewSnapshotError("write snapshot", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return errors.NewSnapshotError("commit snapshot", err)
	}
	return nil
}

// Read returns the snapshot file contents.
func (s *FileSlot) Read(_ context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.NewSnapshotError("read snapshot", err)
	}
	return data, true, nil
}

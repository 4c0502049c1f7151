// Package dataset holds the session's record collection as an immutable
// snapshot that is replaced wholesale on every upload.
package dataset

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/KaramelBytes/cropinsights/internal/records"
	"github.com/google/uuid"
)

// ErrEmpty is returned when no dataset has been loaded yet.
var ErrEmpty = errors.New("no dataset loaded")

// Snapshot is one uploaded dataset. Callers must treat Records as read-only.
type Snapshot struct {
	ID       string               `json:"id"`
	Source   string               `json:"source"`
	LoadedAt time.Time            `json:"loaded_at"`
	RawRows  int                  `json:"raw_rows"`
	Records  []records.CropRecord `json:"-"`
}

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// NewSnapshot normalizes rows into a fresh snapshot with a new id.
func NewSnapshot(source string, rows []records.RawRow) *Snapshot {
	return &Snapshot{
		ID:       uuid.NewString(),
		Source:   source,
		LoadedAt: time.Now(),
		RawRows:  len(rows),
		Records:  records.Normalize(rows),
	}
}

// Store publishes the current snapshot. Replace is a single atomic swap, so
// readers observe either the old collection or the new one.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the active snapshot or ErrEmpty.
func (s *Store) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrEmpty
	}
	return snap, nil
}

// Replace normalizes rows and installs them as the active snapshot.
func (s *Store) Replace(source string, rows []records.RawRow) *Snapshot {
	snap := NewSnapshot(source, rows)
	s.current.Store(snap)
	return snap
}

// Clear drops the active snapshot.
func (s *Store) Clear() {
	s.current.Store(nil)
}

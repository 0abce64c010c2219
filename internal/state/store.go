package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/prefcenter/internal/logstore"
)

// Snapshot is the latest view of the log directory seen by the follower.
type Snapshot struct {
	Entries             []logstore.Entry
	HasEntries          bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive read failures
}

// IsFailing returns true when the log directory has been unreadable for
// multiple polls.
func (s Snapshot) IsFailing() bool {
	return s.ConsecutiveFailures >= 2
}

// Latest returns the newest entry, if any.
func (s Snapshot) Latest() (logstore.Entry, bool) {
	if len(s.Entries) == 0 {
		return logstore.Entry{}, false
	}
	return s.Entries[len(s.Entries)-1], true
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored entries. When err is non-nil the previous entries
// are kept but the error is recorded for visibility.
func (s *Store) Update(entries []logstore.Entry, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Entries = cloneEntries(entries)
	s.snapshot.HasEntries = len(entries) > 0
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Entries = cloneEntries(s.snapshot.Entries)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneEntries(items []logstore.Entry) []logstore.Entry {
	if len(items) == 0 {
		return nil
	}
	dup := make([]logstore.Entry, len(items))
	copy(dup, items)
	return dup
}

package requestlog

import (
	"sync"
	"time"

	"github.com/waspceptor/waspceptor/internal/id"
)

// MemoryStore is a mutex-guarded bounded buffer of entries.
// Entries are held oldest-first internally and returned newest-first.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	now      func() time.Time
}

// NewMemoryStore creates a store holding at most capacity entries.
// A non-positive capacity selects DefaultCapacity.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// Append records an entry, evicting the oldest ones past capacity.
func (s *MemoryStore) Append(entry Entry) Entry {
	entry = entry.clone()
	if entry.ID == "" {
		entry.ID = id.Sortable()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	if over := len(s.entries) - s.capacity; over > 0 {
		// Shift in place so the backing array does not grow without bound.
		n := copy(s.entries, s.entries[over:])
		clear(s.entries[n:])
		s.entries = s.entries[:n]
	}
	return entry
}

// Get retrieves an entry by ID.
func (s *MemoryStore) Get(entryID string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].ID == entryID {
			return s.entries[i], true
		}
	}
	return Entry{}, false
}

// List returns up to limit entries, newest first.
func (s *MemoryStore) List(limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = max(0, min(limit, s.capacity, len(s.entries)))
	result := make([]Entry, 0, limit)
	for i := len(s.entries) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, s.entries[i])
	}
	return result
}

// Clear removes all entries.
func (s *MemoryStore) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	s.entries = make([]Entry, 0, s.capacity)
	return n
}

// RemoveByEndpoint removes all entries recorded against endpointID.
func (s *MemoryStore) RemoveByEndpoint(endpointID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.EndpointID != endpointID {
			kept = append(kept, e)
		}
	}
	removed := len(s.entries) - len(kept)
	clear(s.entries[len(kept):])
	s.entries = kept
	return removed
}

// Count returns the number of stored entries.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Capacity returns the maximum number of stored entries.
func (s *MemoryStore) Capacity() int {
	return s.capacity
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

package requestlog

// DefaultCapacity is the number of entries kept before the oldest are evicted.
const DefaultCapacity = 1000

// DefaultListLimit is the number of entries returned when a caller does not
// ask for a specific amount.
const DefaultListLimit = 200

// Logger is the minimal sink the dispatcher writes to.
type Logger interface {
	// Append stores the entry, assigning ID and Timestamp when unset,
	// and returns the stored value.
	Append(entry Entry) Entry
}

// Store is the full request history interface used by the admin surface.
type Store interface {
	Logger

	// Get retrieves an entry by ID.
	Get(id string) (Entry, bool)

	// List returns up to limit entries, newest first. The limit is clamped
	// to [0, Capacity()].
	List(limit int) []Entry

	// Clear removes every entry and returns how many were dropped.
	Clear() int

	// RemoveByEndpoint removes every entry referencing endpointID and
	// returns how many were dropped.
	RemoveByEndpoint(endpointID string) int

	// Count returns the number of stored entries.
	Count() int

	// Capacity returns the maximum number of stored entries.
	Capacity() int
}

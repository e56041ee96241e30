package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/waspceptor/waspceptor/internal/id"
	"github.com/waspceptor/waspceptor/pkg/endpoint"
	"github.com/waspceptor/waspceptor/pkg/logging"
)

// ErrNotFound is returned when no definition has the requested ID.
var ErrNotFound = errors.New("endpoint not found")

// Cascader removes request history belonging to a deleted endpoint.
type Cascader interface {
	RemoveByEndpoint(endpointID string) int
}

// Option configures a Registry.
type Option func(*Registry)

// WithCascade sets the request log that Delete cascades to.
func WithCascade(c Cascader) Option {
	return func(r *Registry) {
		r.cascade = c
	}
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// Registry stores endpoint definitions in creation order.
type Registry struct {
	mu      sync.RWMutex
	defs    []endpoint.Definition
	cascade Cascader
	log     *slog.Logger
	now     func() time.Time
	newID   func() string
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		log:   logging.Nop(),
		now:   time.Now,
		newID: id.UUID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create validates the draft, applies defaults, assigns an ID and creation
// time, and appends the definition. It is matchable as soon as Create returns.
func (r *Registry) Create(draft endpoint.Draft) (endpoint.Definition, error) {
	def, err := draft.Build(r.newID(), r.now().UTC())
	if err != nil {
		return endpoint.Definition{}, err
	}

	r.mu.Lock()
	r.defs = append(r.defs, def)
	r.mu.Unlock()

	r.log.Debug("endpoint created", "id", def.ID, "method", def.Method, "path", def.Path)
	return def.Clone(), nil
}

// Update merges the fields present in patch into the definition with the
// given ID. ID and CreatedAt are preserved.
func (r *Registry) Update(endpointID string, patch endpoint.Patch) (endpoint.Definition, error) {
	if err := patch.Validate(); err != nil {
		return endpoint.Definition{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(endpointID)
	if i < 0 {
		return endpoint.Definition{}, notFound(endpointID)
	}
	r.defs[i] = patch.Apply(r.defs[i])

	r.log.Debug("endpoint updated", "id", endpointID)
	return r.defs[i].Clone(), nil
}

// Toggle flips IsActive on the definition with the given ID.
func (r *Registry) Toggle(endpointID string) (endpoint.Definition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(endpointID)
	if i < 0 {
		return endpoint.Definition{}, notFound(endpointID)
	}
	r.defs[i].IsActive = !r.defs[i].IsActive

	r.log.Debug("endpoint toggled", "id", endpointID, "active", r.defs[i].IsActive)
	return r.defs[i].Clone(), nil
}

// Delete removes the definition and every request log entry recorded
// against it. It returns the number of log entries removed.
func (r *Registry) Delete(endpointID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(endpointID)
	if i < 0 {
		return 0, notFound(endpointID)
	}
	r.defs = append(r.defs[:i], r.defs[i+1:]...)

	// Lock order: registry, then log.
	removed := 0
	if r.cascade != nil {
		removed = r.cascade.RemoveByEndpoint(endpointID)
	}

	r.log.Debug("endpoint deleted", "id", endpointID, "logsRemoved", removed)
	return removed, nil
}

// Get returns a copy of the definition with the given ID.
func (r *Registry) Get(endpointID string) (endpoint.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexLocked(endpointID)
	if i < 0 {
		return endpoint.Definition{}, notFound(endpointID)
	}
	return r.defs[i].Clone(), nil
}

// List returns copies of all definitions in creation order.
func (r *Registry) List() []endpoint.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]endpoint.Definition, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.Clone()
	}
	return out
}

// Match returns the first active definition, in creation order, whose
// method and path equal the given ones after normalization.
func (r *Registry) Match(method, path string) (endpoint.Definition, bool) {
	method = endpoint.NormalizeMethod(method)
	path = endpoint.NormalizePath(path)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.defs {
		if d.Matches(method, path) {
			return d.Clone(), true
		}
	}
	return endpoint.Definition{}, false
}

// WithEndpoint runs fn while holding the read lock, but only if the
// definition still exists. It reports whether fn ran. Delete cannot
// interleave with fn, so fn may safely record state keyed by the ID.
func (r *Registry) WithEndpoint(endpointID string, fn func(endpoint.Definition)) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexLocked(endpointID)
	if i < 0 {
		return false
	}
	fn(r.defs[i].Clone())
	return true
}

// Count returns the number of definitions and how many of them are active.
func (r *Registry) Count() (total, active int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.defs {
		if d.IsActive {
			active++
		}
	}
	return len(r.defs), active
}

func (r *Registry) indexLocked(endpointID string) int {
	for i := range r.defs {
		if r.defs[i].ID == endpointID {
			return i
		}
	}
	return -1
}

func notFound(endpointID string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, endpointID)
}

package admin

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/waspceptor/waspceptor/pkg/endpoint"
	"github.com/waspceptor/waspceptor/pkg/logging"
	"github.com/waspceptor/waspceptor/pkg/metrics"
	"github.com/waspceptor/waspceptor/pkg/requestlog"
)

// DefaultMaxBodyBytes bounds admin request bodies, imports included.
const DefaultMaxBodyBytes int64 = 2 << 20

// Registry is the endpoint registry as seen by the admin API.
type Registry interface {
	Create(draft endpoint.Draft) (endpoint.Definition, error)
	Update(endpointID string, patch endpoint.Patch) (endpoint.Definition, error)
	Toggle(endpointID string) (endpoint.Definition, error)
	Delete(endpointID string) (int, error)
	Get(endpointID string) (endpoint.Definition, error)
	List() []endpoint.Definition
	Count() (total, active int)
}

// API serves the admin endpoints.
type API struct {
	registry  Registry
	logs      requestlog.Store
	metrics   *metrics.Metrics
	log       *slog.Logger
	maxBody   int64
	rateLimit int
	now       func() time.Time
}

// New creates an admin API over the given registry and request log.
func New(reg Registry, logs requestlog.Store, opts ...Option) *API {
	a := &API{
		registry: reg,
		logs:     logs,
		log:      logging.Nop(),
		maxBody:  DefaultMaxBodyBytes,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router returns the admin routes, relative to the mount point.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	if a.rateLimit > 0 {
		r.Use(RateLimit(a.rateLimit, time.Minute))
	}
	if a.metrics != nil {
		r.Use(a.instrument)
	}

	r.Route("/endpoints", func(r chi.Router) {
		r.Get("/", a.handleListEndpoints)
		r.Post("/", a.handleCreateEndpoint)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", a.handleGetEndpoint)
			r.Put("/", a.handleUpdateEndpoint)
			r.Patch("/", a.handleUpdateEndpoint)
			r.Delete("/", a.handleDeleteEndpoint)
			r.Post("/toggle", a.handleToggleEndpoint)
		})
	})

	r.Route("/logs", func(r chi.Router) {
		r.Get("/", a.handleListLogs)
		r.Delete("/", a.handleClearLogs)
		r.Get("/{id}", a.handleGetLog)
	})

	r.Get("/stats", a.handleStats)
	r.Get("/export", a.handleExport)
	r.Post("/import", a.handleImport)

	return r
}

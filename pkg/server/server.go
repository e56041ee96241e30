package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/waspceptor/waspceptor/pkg/admin"
	"github.com/waspceptor/waspceptor/pkg/engine"
	"github.com/waspceptor/waspceptor/pkg/httputil"
	"github.com/waspceptor/waspceptor/pkg/logging"
	"github.com/waspceptor/waspceptor/pkg/metrics"
	"github.com/waspceptor/waspceptor/pkg/portability"
	"github.com/waspceptor/waspceptor/pkg/registry"
	"github.com/waspceptor/waspceptor/pkg/requestlog"
)

// ErrAlreadyRunning is returned by Start on a running server.
var ErrAlreadyRunning = errors.New("server is already running")

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// Server is the waspceptor HTTP server.
type Server struct {
	cfg     Config
	log     *slog.Logger
	logs    *requestlog.MemoryStore
	reg     *registry.Registry
	metrics *metrics.Metrics
	handler http.Handler

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	done       chan error
	startTime  time.Time
}

// New builds a server and its routes. Nothing listens until Start.
func New(cfg Config, opts ...Option) *Server {
	s := &Server{
		cfg: cfg,
		log: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logs = requestlog.NewMemoryStore(cfg.MaxLogEntries)
	s.reg = registry.New(
		registry.WithCascade(s.logs),
		registry.WithLogger(logging.Component(s.log, "registry")),
	)
	s.metrics = metrics.New()
	s.metrics.TrackEndpoints(s.reg.Count)
	s.metrics.TrackRequestLog(s.logs.Count)

	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	dispatcher := engine.NewDispatcher(s.reg, s.logs,
		engine.WithLogger(logging.Component(s.log, "dispatcher")),
		engine.WithRecorder(s.metrics),
	)
	mock := engine.NewHandler(dispatcher,
		engine.WithMaxBodyBytes(s.cfg.MaxBodyBytes),
		engine.WithHandlerLogger(logging.Component(s.log, "mock")),
	)

	adminOpts := []admin.Option{
		admin.WithLogger(logging.Component(s.log, "admin")),
		admin.WithMetrics(s.metrics),
		admin.WithRateLimit(s.cfg.AdminRateLimit),
	}
	if s.cfg.MaxBodyBytes > 0 {
		adminOpts = append(adminOpts, admin.WithMaxBodyBytes(s.cfg.MaxBodyBytes))
	}
	api := admin.New(s.reg, s.logs, adminOpts...)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(admin.AccessLog(logging.Component(s.log, "http")))
	r.Use(middleware.Recoverer)
	r.Use(admin.CORS(s.cfg.corsConfig()))

	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Mount("/admin", api.Router())
	r.Handle(engine.DefaultPrefix, mock)
	r.Handle(engine.DefaultPrefix+"/*", mock)

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, map[string]bool{"ok": true})
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Registry returns the endpoint registry.
func (s *Server) Registry() *registry.Registry {
	return s.reg
}

// RequestLog returns the request log.
func (s *Server) RequestLog() *requestlog.MemoryStore {
	return s.logs
}

// Metrics returns the metrics collectors.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// Seed imports the endpoints of a snapshot file. The format is detected
// from the file name and content.
func (s *Server) Seed(path string) (portability.ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return portability.ImportResult{}, fmt.Errorf("reading seed file: %w", err)
	}
	backup, err := portability.Decode(data, portability.DetectFormat(data, path))
	if err != nil {
		return portability.ImportResult{}, fmt.Errorf("parsing seed file %s: %w", path, err)
	}

	result := portability.Import(s.reg, backup)
	for _, f := range result.Failures {
		s.log.Warn("seed endpoint skipped", "index", f.Index, "name", f.Name, "field", f.Field, "error", f.Message)
	}
	s.log.Info("seeded endpoints", "file", path, "imported", result.Imported, "failed", result.Failed)
	return result, nil
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		return ErrAlreadyRunning
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}
	s.done = make(chan error, 1)
	s.startTime = time.Now()

	srv, done := s.httpServer, s.done
	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			s.log.Error("HTTP server error", "error", err)
		}
		done <- err
	}()

	s.log.Info("server started", "addr", ln.Addr().String())
	return nil
}

// Addr returns the listen address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Uptime returns how long the server has been running.
func (s *Server) Uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpServer == nil {
		return 0
	}
	return time.Since(s.startTime)
}

// Stop gracefully shuts the server down, waiting for in-flight requests
// (delayed mocks included) until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv, done := s.httpServer, s.done
	s.httpServer, s.listener, s.done = nil, nil, nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return <-done
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	select {
	case <-ctx.Done():
	case err := <-done:
		// Serve failed on its own; report it.
		return err
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// Option functions for configuring API.

package admin

import (
	"log/slog"
	"time"

	"github.com/waspceptor/waspceptor/pkg/metrics"
)

// Option configures an API.
type Option func(*API)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.log = log
		}
	}
}

// WithMetrics records admin request counts in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *API) {
		a.metrics = m
	}
}

// WithMaxBodyBytes sets the request body limit.
func WithMaxBodyBytes(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxBody = n
		}
	}
}

// WithRateLimit limits each client IP to n requests per minute.
// Zero disables rate limiting.
func WithRateLimit(n int) Option {
	return func(a *API) {
		if n >= 0 {
			a.rateLimit = n
		}
	}
}

// WithClock overrides the time source used for stats and exports.
func WithClock(now func() time.Time) Option {
	return func(a *API) {
		if now != nil {
			a.now = now
		}
	}
}

package server

import (
	"time"

	"github.com/waspceptor/waspceptor/pkg/admin"
	"github.com/waspceptor/waspceptor/pkg/engine"
	"github.com/waspceptor/waspceptor/pkg/requestlog"
)

// Config holds server settings.
type Config struct {
	// Host is the bind address; empty means all interfaces.
	Host string

	// Port is the listen port; 0 picks a free one.
	Port int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// MaxBodyBytes bounds mock and admin request bodies.
	MaxBodyBytes int64

	// MaxLogEntries is the request log capacity.
	MaxLogEntries int

	// CORSOrigins lists allowed origins; empty or "*" allows any.
	CORSOrigins []string

	// AdminRateLimit is the admin request budget per client IP per minute.
	// Zero disables it.
	AdminRateLimit int
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		Port:            3000,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxBodyBytes:    engine.DefaultMaxBodyBytes,
		MaxLogEntries:   requestlog.DefaultCapacity,
		CORSOrigins:     []string{"*"},
	}
}

func (c Config) corsConfig() admin.CORSConfig {
	cors := admin.DefaultCORSConfig()
	if len(c.CORSOrigins) > 0 {
		cors.AllowedOrigins = c.CORSOrigins
	}
	return cors
}

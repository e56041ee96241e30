package cliconfig

import "strconv"

// DefaultPort is the default HTTP port for mock traffic and the admin API.
const DefaultPort = 3000

// DefaultHost is the default bind address (all interfaces).
const DefaultHost = ""

// DefaultReadTimeout is the default read timeout in seconds.
const DefaultReadTimeout = 30

// DefaultWriteTimeout is the default write timeout in seconds. It has to
// cover the longest configured endpoint delay.
const DefaultWriteTimeout = 120

// DefaultShutdownTimeout is how long in-flight requests get on shutdown, in seconds.
const DefaultShutdownTimeout = 10

// DefaultMaxLogEntries is the default maximum request log entries.
const DefaultMaxLogEntries = 1000

// DefaultMaxBodyBytes is the default request body limit.
const DefaultMaxBodyBytes int64 = 2 << 20

// DefaultAdminRateLimit is the default admin request budget per client IP
// per minute. Zero disables rate limiting.
const DefaultAdminRateLimit = 0

// DefaultAdminURL returns the default admin API URL based on the port.
func DefaultAdminURL(port int) string {
	if port == 0 {
		port = DefaultPort
	}
	return "http://localhost:" + strconv.Itoa(port) + "/admin"
}

// NewDefault creates a new CLIConfig with default values.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{
		Port:            DefaultPort,
		Host:            DefaultHost,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		MaxBodyBytes:    DefaultMaxBodyBytes,
		MaxLogEntries:   DefaultMaxLogEntries,
		AdminRateLimit:  DefaultAdminRateLimit,
		CORSOrigins:     []string{"*"},
		LogLevel:        "info",
		LogFormat:       "text",
		Sources:         make(map[string]string),
	}
	cfg.AdminURL = DefaultAdminURL(cfg.Port)

	// Mark all as default source
	for _, key := range configKeys {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}

// configKeys lists every YAML key of CLIConfig.
var configKeys = []string{
	"port", "host", "readTimeout", "writeTimeout", "shutdownTimeout",
	"maxBodyBytes", "seedFile", "adminUrl", "adminRateLimit", "corsOrigins",
	"maxLogEntries", "logLevel", "logFormat",
}

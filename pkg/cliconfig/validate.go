package cliconfig

import (
	"errors"
	"fmt"

	"github.com/waspceptor/waspceptor/pkg/logging"
)

// Limits enforced by Validate.
const (
	MaxTimeoutSeconds = 3600
	MaxLogEntriesCap  = 100000
)

// Validate checks that every value is in range. All problems are reported.
func (c *CLIConfig) Validate() error {
	var errs []error

	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range (0-65535)", c.Port))
	}
	if c.ReadTimeout < 0 || c.ReadTimeout > MaxTimeoutSeconds {
		errs = append(errs, fmt.Errorf("readTimeout %d is out of range (0-%d)", c.ReadTimeout, MaxTimeoutSeconds))
	}
	if c.WriteTimeout < 0 || c.WriteTimeout > MaxTimeoutSeconds {
		errs = append(errs, fmt.Errorf("writeTimeout %d is out of range (0-%d)", c.WriteTimeout, MaxTimeoutSeconds))
	}
	if c.ShutdownTimeout < 0 || c.ShutdownTimeout > MaxTimeoutSeconds {
		errs = append(errs, fmt.Errorf("shutdownTimeout %d is out of range (0-%d)", c.ShutdownTimeout, MaxTimeoutSeconds))
	}
	if c.MaxLogEntries < 1 || c.MaxLogEntries > MaxLogEntriesCap {
		errs = append(errs, fmt.Errorf("maxLogEntries %d is out of range (1-%d)", c.MaxLogEntries, MaxLogEntriesCap))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("maxBodyBytes must be positive, got %d", c.MaxBodyBytes))
	}
	if c.AdminRateLimit < 0 {
		errs = append(errs, fmt.Errorf("adminRateLimit %d must not be negative", c.AdminRateLimit))
	}
	if !logging.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("logLevel %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if !logging.ValidFormat(c.LogFormat) {
		errs = append(errs, fmt.Errorf("logFormat %q is not one of text, json", c.LogFormat))
	}

	return errors.Join(errs...)
}

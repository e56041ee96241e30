package cliconfig

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables read by LoadEnvConfig.
const (
	EnvPrefix         = "WASPCEPTOR_"
	EnvPort           = EnvPrefix + "PORT"
	EnvHost           = EnvPrefix + "HOST"
	EnvAdminURL       = EnvPrefix + "ADMIN_URL"
	EnvMaxLogEntries  = EnvPrefix + "MAX_LOG_ENTRIES"
	EnvMaxBodyBytes   = EnvPrefix + "MAX_BODY_BYTES"
	EnvReadTimeout    = EnvPrefix + "READ_TIMEOUT"
	EnvWriteTimeout   = EnvPrefix + "WRITE_TIMEOUT"
	EnvLogLevel       = EnvPrefix + "LOG_LEVEL"
	EnvLogFormat      = EnvPrefix + "LOG_FORMAT"
	EnvCORSOrigins    = EnvPrefix + "CORS_ORIGINS"
	EnvAdminRateLimit = EnvPrefix + "ADMIN_RATE_LIMIT"
	EnvSeedFile       = EnvPrefix + "SEED_FILE"

	// EnvPlainPort is the conventional PORT variable set by PaaS platforms.
	// WASPCEPTOR_PORT wins when both are set.
	EnvPlainPort = "PORT"
)

// LoadEnvConfig applies environment variables to cfg.
func LoadEnvConfig(cfg *CLIConfig) error {
	return loadEnv(cfg, os.LookupEnv)
}

func loadEnv(cfg *CLIConfig, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(name)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}
	setInt := func(name, key string, dst *int) error {
		v, ok := get(name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Path: name, Message: "invalid integer " + strconv.Quote(v)}
		}
		*dst = n
		cfg.SetSource(key, SourceEnv)
		return nil
	}
	setString := func(name, key string, dst *string) {
		if v, ok := get(name); ok {
			*dst = v
			cfg.SetSource(key, SourceEnv)
		}
	}

	if _, ok := get(EnvPort); ok {
		if err := setInt(EnvPort, "port", &cfg.Port); err != nil {
			return err
		}
	} else if err := setInt(EnvPlainPort, "port", &cfg.Port); err != nil {
		return err
	}
	for _, f := range []struct {
		name, key string
		dst       *int
	}{
		{EnvMaxLogEntries, "maxLogEntries", &cfg.MaxLogEntries},
		{EnvReadTimeout, "readTimeout", &cfg.ReadTimeout},
		{EnvWriteTimeout, "writeTimeout", &cfg.WriteTimeout},
		{EnvAdminRateLimit, "adminRateLimit", &cfg.AdminRateLimit},
	} {
		if err := setInt(f.name, f.key, f.dst); err != nil {
			return err
		}
	}

	if v, ok := get(EnvMaxBodyBytes); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return &ConfigError{Path: EnvMaxBodyBytes, Message: "invalid integer " + strconv.Quote(v)}
		}
		cfg.MaxBodyBytes = n
		cfg.SetSource("maxBodyBytes", SourceEnv)
	}

	setString(EnvHost, "host", &cfg.Host)
	setString(EnvAdminURL, "adminUrl", &cfg.AdminURL)
	setString(EnvLogLevel, "logLevel", &cfg.LogLevel)
	setString(EnvLogFormat, "logFormat", &cfg.LogFormat)
	setString(EnvSeedFile, "seedFile", &cfg.SeedFile)

	if v, ok := get(EnvCORSOrigins); ok {
		cfg.CORSOrigins = SplitList(v)
		cfg.SetSource("corsOrigins", SourceEnv)
	}
	return nil
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

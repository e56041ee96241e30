package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// Non-zero values from source are applied, as are zero values whose key
// appears in source.SetFields.
func MergeConfig(target, source *CLIConfig, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.Port != 0 {
		target.Port = source.Port
		target.Sources["port"] = sourceType
	}
	if isSet(source, "host", source.Host != "") {
		target.Host = source.Host
		target.Sources["host"] = sourceType
	}
	if source.ReadTimeout != 0 {
		target.ReadTimeout = source.ReadTimeout
		target.Sources["readTimeout"] = sourceType
	}
	if source.WriteTimeout != 0 {
		target.WriteTimeout = source.WriteTimeout
		target.Sources["writeTimeout"] = sourceType
	}
	if source.ShutdownTimeout != 0 {
		target.ShutdownTimeout = source.ShutdownTimeout
		target.Sources["shutdownTimeout"] = sourceType
	}
	if source.MaxBodyBytes != 0 {
		target.MaxBodyBytes = source.MaxBodyBytes
		target.Sources["maxBodyBytes"] = sourceType
	}
	if source.SeedFile != "" {
		target.SeedFile = source.SeedFile
		target.Sources["seedFile"] = sourceType
	}
	if source.AdminURL != "" {
		target.AdminURL = source.AdminURL
		target.Sources["adminUrl"] = sourceType
	} else if source.Port != 0 && target.Sources["adminUrl"] == SourceDefault {
		// Keep the derived admin URL in step with the port.
		target.AdminURL = DefaultAdminURL(source.Port)
	}
	if isSet(source, "adminRateLimit", source.AdminRateLimit != 0) {
		target.AdminRateLimit = source.AdminRateLimit
		target.Sources["adminRateLimit"] = sourceType
	}
	if isSet(source, "corsOrigins", len(source.CORSOrigins) > 0) {
		target.CORSOrigins = source.CORSOrigins
		target.Sources["corsOrigins"] = sourceType
	}
	if source.MaxLogEntries != 0 {
		target.MaxLogEntries = source.MaxLogEntries
		target.Sources["maxLogEntries"] = sourceType
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		target.Sources["logLevel"] = sourceType
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		target.Sources["logFormat"] = sourceType
	}
}

// isSet reports whether a field identified by its YAML key should be merged.
// File-loaded configs carry SetFields, so an explicit zero counts; otherwise
// only non-zero values do.
func isSet(cfg *CLIConfig, yamlKey string, nonZero bool) bool {
	if cfg.SetFields != nil {
		return cfg.SetFields[yamlKey]
	}
	return nonZero
}

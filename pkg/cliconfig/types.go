// Package cliconfig provides configuration types and loading for the waspceptor CLI.
package cliconfig

// CLIConfig represents the complete configuration for the waspceptor CLI.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Local config file (.waspceptorrc.yaml in current directory)
// 4. Global config file ($XDG_CONFIG_HOME/waspceptor/config.yaml)
// 5. Default values (lowest priority)
type CLIConfig struct {
	// Server settings
	Port            int    `yaml:"port" json:"port"`
	Host            string `yaml:"host" json:"host"`
	ReadTimeout     int    `yaml:"readTimeout" json:"readTimeout"`
	WriteTimeout    int    `yaml:"writeTimeout" json:"writeTimeout"`
	ShutdownTimeout int    `yaml:"shutdownTimeout" json:"shutdownTimeout"`
	MaxBodyBytes    int64  `yaml:"maxBodyBytes" json:"maxBodyBytes"`
	SeedFile        string `yaml:"seedFile,omitempty" json:"seedFile,omitempty"`

	// Admin API settings
	AdminURL       string   `yaml:"adminUrl" json:"adminUrl"`
	AdminRateLimit int      `yaml:"adminRateLimit" json:"adminRateLimit"`
	CORSOrigins    []string `yaml:"corsOrigins,omitempty" json:"corsOrigins,omitempty"`

	// Request log settings
	MaxLogEntries int `yaml:"maxLogEntries" json:"maxLogEntries"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`

	// Source tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records the YAML keys present in a loaded file, so that an
	// explicit zero (adminRateLimit: 0) can override a lower layer.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFlag    = "flag"
)

// SetSource records that key was set from source.
func (c *CLIConfig) SetSource(key, source string) {
	if c.Sources == nil {
		c.Sources = make(map[string]string)
	}
	c.Sources[key] = source
}

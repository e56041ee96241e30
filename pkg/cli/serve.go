package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/waspceptor/waspceptor/pkg/cli/internal/output"
	"github.com/waspceptor/waspceptor/pkg/cliconfig"
	"github.com/waspceptor/waspceptor/pkg/logging"
	"github.com/waspceptor/waspceptor/pkg/server"
)

// serveFlags holds the values bound to serve's flags. Only flags the user
// changed override the loaded configuration.
type serveFlags struct {
	port            int
	host            string
	seedFile        string
	readTimeout     int
	writeTimeout    int
	shutdownTimeout int
	maxLogEntries   int
	maxBodyBytes    int64
	adminRateLimit  int
	corsOrigins     []string
	logLevel        string
	logFormat       string
}

func newServeCommand() *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the mock server (foreground)",
		Long: `Start the mock server. Mock endpoints are served under /api, the admin API
under /admin, Prometheus metrics at /metrics and a liveness probe at /health.

The server stops gracefully on SIGINT or SIGTERM, letting delayed responses
finish within the shutdown timeout.`,
		Example: `  # Start with defaults (port 3000)
  waspceptor serve

  # Start on another port with endpoints from a backup file
  waspceptor serve --port 8080 --seed backup.json

  # JSON logs, admin API limited to 120 requests per minute per client
  waspceptor serve --log-format json --admin-rate-limit 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliconfig.LoadAll()
			if err != nil {
				return err
			}
			applyServeFlags(cmd, f, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runServe(cmd, cfg)
		},
	}

	f.register(cmd)
	return cmd
}

// register binds the flags to cmd.
func (f *serveFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVarP(&f.port, "port", "p", cliconfig.DefaultPort, "HTTP server port")
	flags.StringVar(&f.host, "host", cliconfig.DefaultHost, "Bind address (default: all interfaces)")
	flags.StringVar(&f.seedFile, "seed", "", "Import endpoints from a backup file (JSON or YAML) at startup")
	flags.IntVar(&f.readTimeout, "read-timeout", cliconfig.DefaultReadTimeout, "Read timeout in seconds")
	flags.IntVar(&f.writeTimeout, "write-timeout", cliconfig.DefaultWriteTimeout, "Write timeout in seconds (must exceed the longest delay)")
	flags.IntVar(&f.shutdownTimeout, "shutdown-timeout", cliconfig.DefaultShutdownTimeout, "Graceful shutdown timeout in seconds")
	flags.IntVar(&f.maxLogEntries, "max-log-entries", cliconfig.DefaultMaxLogEntries, "Maximum request log entries")
	flags.Int64Var(&f.maxBodyBytes, "max-body-bytes", cliconfig.DefaultMaxBodyBytes, "Maximum request body size in bytes")
	flags.IntVar(&f.adminRateLimit, "admin-rate-limit", cliconfig.DefaultAdminRateLimit, "Admin requests per minute per client IP (0 = unlimited)")
	flags.StringSliceVar(&f.corsOrigins, "cors-origins", []string{"*"}, "Allowed CORS origins")
	flags.StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&f.logFormat, "log-format", "text", "Log format (text, json)")
}

// applyServeFlags copies changed flags over cfg.
func applyServeFlags(cmd *cobra.Command, f *serveFlags, cfg *cliconfig.CLIConfig) {
	flags := cmd.Flags()
	set := func(name, key string, apply func()) {
		if flags.Changed(name) {
			apply()
			cfg.SetSource(key, cliconfig.SourceFlag)
		}
	}

	set("port", "port", func() {
		cfg.Port = f.port
		if cfg.Sources["adminUrl"] == cliconfig.SourceDefault {
			cfg.AdminURL = cliconfig.DefaultAdminURL(f.port)
		}
	})
	set("host", "host", func() { cfg.Host = f.host })
	set("seed", "seedFile", func() { cfg.SeedFile = f.seedFile })
	set("read-timeout", "readTimeout", func() { cfg.ReadTimeout = f.readTimeout })
	set("write-timeout", "writeTimeout", func() { cfg.WriteTimeout = f.writeTimeout })
	set("shutdown-timeout", "shutdownTimeout", func() { cfg.ShutdownTimeout = f.shutdownTimeout })
	set("max-log-entries", "maxLogEntries", func() { cfg.MaxLogEntries = f.maxLogEntries })
	set("max-body-bytes", "maxBodyBytes", func() { cfg.MaxBodyBytes = f.maxBodyBytes })
	set("admin-rate-limit", "adminRateLimit", func() { cfg.AdminRateLimit = f.adminRateLimit })
	set("cors-origins", "corsOrigins", func() { cfg.CORSOrigins = f.corsOrigins })
	set("log-level", "logLevel", func() { cfg.LogLevel = f.logLevel })
	set("log-format", "logFormat", func() { cfg.LogFormat = f.logFormat })
}

// serverConfig converts CLI configuration to server configuration.
func serverConfig(cfg *cliconfig.CLIConfig) server.Config {
	return server.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		ReadTimeout:     time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:    time.Duration(cfg.WriteTimeout) * time.Second,
		ShutdownTimeout: time.Duration(cfg.ShutdownTimeout) * time.Second,
		MaxBodyBytes:    cfg.MaxBodyBytes,
		MaxLogEntries:   cfg.MaxLogEntries,
		CORSOrigins:     cfg.CORSOrigins,
		AdminRateLimit:  cfg.AdminRateLimit,
	}
}

func runServe(cmd *cobra.Command, cfg *cliconfig.CLIConfig) error {
	log := logging.FromStrings(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	srv := server.New(serverConfig(cfg), server.WithLogger(log))

	if cfg.SeedFile != "" {
		result, err := srv.Seed(cfg.SeedFile)
		if err != nil {
			return err
		}
		if result.Failed > 0 {
			output.Warn(cmd.ErrOrStderr(), "%d of %d seed endpoints were skipped", result.Failed, result.Imported+result.Failed)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "waspceptor %s listening on port %d\n", Version, cfg.Port)
	fmt.Fprintf(out, "  Mock API:  http://localhost:%d/api\n", cfg.Port)
	fmt.Fprintf(out, "  Admin API: %s\n", cfg.AdminURL)

	if err := srv.Run(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Server stopped")
	return nil
}

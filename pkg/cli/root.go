package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/waspceptor/waspceptor/pkg/cli/internal/output"
	"github.com/waspceptor/waspceptor/pkg/cliconfig"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootOptions holds the persistent flags shared by all subcommands.
type rootOptions struct {
	adminURL   string
	jsonOutput bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "waspceptor",
		Short: "waspceptor is a local HTTP mock server",
		Long: `waspceptor serves configurable mock HTTP endpoints under /api and records
every matched request. Endpoints and the request log are managed through the
admin API under /admin, or with the commands below.

Configuration can be provided via flags, environment variables (WASPCEPTOR_*),
.waspceptorrc.yaml in the current directory, or
$XDG_CONFIG_HOME/waspceptor/config.yaml.`,
		// No Run function here means 'waspceptor' with no args will print help text by default.
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
	}

	cmd.PersistentFlags().StringVar(&opts.adminURL, "admin-url", "", "Admin API base URL (default: http://localhost:3000/admin)")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output command results in JSON format")

	cmd.AddCommand(
		newServeCommand(),
		newEndpointsCommand(opts),
		newLogsCommand(opts),
		newStatsCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newVersionCommand(opts),
	)
	return cmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// client resolves the admin URL (flag > env > config files > default) and
// returns a client for it.
func (o *rootOptions) client() (AdminClient, error) {
	if o.adminURL != "" {
		return NewAdminClient(o.adminURL), nil
	}
	cfg, err := cliconfig.LoadAll()
	if err != nil {
		return nil, err
	}
	return NewAdminClient(cfg.AdminURL), nil
}

// printResult outputs a single operation result.
//
// Contract: when --json is active, ONLY the JSON encoding of data is written
// to w. Human-readable prose must go to stderr or be omitted entirely.
// textFn is called only in text mode.
func (o *rootOptions) printResult(w io.Writer, data any, textFn func()) error {
	if o.jsonOutput {
		return output.JSON(w, data)
	}
	textFn()
	return nil
}

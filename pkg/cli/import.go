package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/waspceptor/waspceptor/pkg/cli/internal/output"
	"github.com/waspceptor/waspceptor/pkg/portability"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Recreate endpoints from a backup file",
		Long: `Recreate the endpoints of a backup file on a running server. Endpoints get
new IDs; request log entries in the file are ignored. Use "-" to read stdin.`,
		Example: `  waspceptor import backup.json
  cat endpoints.yaml | waspceptor import - --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			f := portability.ParseFormat(format)
			if format != "" && !f.IsValid() {
				return fmt.Errorf("unsupported format %q: use json or yaml", format)
			}
			if !f.IsValid() {
				f = portability.DetectFormat(data, args[0])
			}

			client, err := opts.client()
			if err != nil {
				return err
			}
			result, err := client.Import(data, f)
			if err != nil {
				return commandError(err, "", "")
			}

			w := cmd.OutOrStdout()
			return opts.printResult(w, result, func() {
				fmt.Fprintf(w, "Imported %d endpoint(s)", result.Imported)
				if result.Failed > 0 {
					fmt.Fprintf(w, ", %d failed", result.Failed)
				}
				fmt.Fprintln(w)
				for _, fail := range result.Failures {
					output.Warn(cmd.ErrOrStderr(), "endpoint #%d %q: %s", fail.Index, fail.Name, fail.Message)
				}
				if result.SkippedLogs > 0 {
					fmt.Fprintf(w, "Ignored %d request log entries\n", result.SkippedLogs)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format: json or yaml (default: detect)")
	return cmd
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

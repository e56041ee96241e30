package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/waspceptor/waspceptor/pkg/portability"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		outFile string
		format  string
		noLogs  bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export endpoints and the request log as a backup",
		Long: `Export endpoints and the request log as a backup file that "waspceptor import"
and "waspceptor serve --seed" accept. The format defaults to the output file's
extension, then JSON.`,
		Example: `  waspceptor export -o backup.json
  waspceptor export --format yaml --no-logs > endpoints.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exportFormat(format, outFile)
			if err != nil {
				return err
			}

			client, err := opts.client()
			if err != nil {
				return err
			}
			data, err := client.Export(f, !noLogs)
			if err != nil {
				return commandError(err, "", "")
			}

			if outFile == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outFile, data, 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", outFile, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", outFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: json or yaml")
	cmd.Flags().BoolVar(&noLogs, "no-logs", false, "Leave the request log out")
	return cmd
}

// exportFormat resolves --format, falling back to the output file's
// extension and then JSON.
func exportFormat(flag, outFile string) (portability.Format, error) {
	if flag != "" {
		f := portability.ParseFormat(flag)
		if !f.IsValid() {
			return f, fmt.Errorf("unsupported format %q: use json or yaml", flag)
		}
		return f, nil
	}
	if outFile != "" {
		if f := portability.DetectFormat(nil, outFile); f.IsValid() {
			return f, nil
		}
	}
	return portability.FormatJSON, nil
}

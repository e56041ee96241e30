package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waspceptor/waspceptor/pkg/cli/internal/output"
	"github.com/waspceptor/waspceptor/pkg/requestlog"
)

func newLogsCommand(opts *rootOptions) *cobra.Command {
	var (
		limit      int
		endpointID string
		clearLogs  bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show or clear the request log",
		Long: `Show recorded requests, newest first. Only requests that matched an
endpoint are recorded; the server keeps the most recent entries up to its
configured capacity.`,
		Example: `  waspceptor logs
  waspceptor logs --limit 20 --endpoint 3f2a...
  waspceptor logs --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if clearLogs {
				if err := client.ClearLogs(); err != nil {
					return commandError(err, "", "")
				}
				return opts.printResult(w, map[string]bool{"cleared": true}, func() {
					fmt.Fprintln(w, "Request log cleared")
				})
			}

			entries, err := client.ListLogs(limit, endpointID)
			if err != nil {
				return commandError(err, "", "")
			}
			return opts.printResult(w, entries, func() { printEntries(cmd, entries) })
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", requestlog.DefaultListLimit, "Maximum entries to show")
	cmd.Flags().StringVarP(&endpointID, "endpoint", "e", "", "Only show entries for this endpoint ID")
	cmd.Flags().BoolVar(&clearLogs, "clear", false, "Delete all entries")
	cmd.MarkFlagsMutuallyExclusive("clear", "limit")
	cmd.MarkFlagsMutuallyExclusive("clear", "endpoint")
	return cmd
}

func printEntries(cmd *cobra.Command, entries []requestlog.Entry) {
	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No requests recorded")
		return
	}
	tw := output.Table(w)
	fmt.Fprintln(tw, "TIME\tMETHOD\tPATH\tSTATUS\tDURATION\tENDPOINT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			e.Timestamp.Local().Format("15:04:05.000"), e.Method, e.Path, e.ResponseStatus, formatMs(e.ResponseTime), e.EndpointID)
	}
	_ = tw.Flush()
}

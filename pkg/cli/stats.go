package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waspceptor/waspceptor/pkg/cli/internal/output"
)

func newStatsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show endpoint and request counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			stats, err := client.Stats()
			if err != nil {
				return commandError(err, "", "")
			}

			w := cmd.OutOrStdout()
			return opts.printResult(w, stats, func() {
				tw := output.Table(w)
				fmt.Fprintf(tw, "Endpoints:\t%d (%d active)\n", stats.TotalEndpoints, stats.ActiveEndpoints)
				fmt.Fprintf(tw, "Requests:\t%d\n", stats.TotalRequests)
				fmt.Fprintf(tw, "Last 24h:\t%d\n", stats.RecentRequests)
				fmt.Fprintf(tw, "Avg response:\t%s\n", formatMs(stats.AvgResponseTime))
				_ = tw.Flush()
			})
		},
	}
}

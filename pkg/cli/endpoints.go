package cli

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/waspceptor/waspceptor/pkg/cli/internal/output"
	"github.com/waspceptor/waspceptor/pkg/cli/internal/parse"
	"github.com/waspceptor/waspceptor/pkg/endpoint"
)

func newEndpointsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "endpoints",
		Aliases: []string{"endpoint", "ep"},
		Short:   "Manage mock endpoints on a running server",
	}
	cmd.AddCommand(
		newEndpointsListCommand(opts),
		newEndpointsGetCommand(opts),
		newEndpointsAddCommand(opts),
		newEndpointsUpdateCommand(opts),
		newEndpointsToggleCommand(opts),
		newEndpointsDeleteCommand(opts),
	)
	return cmd
}

func newEndpointsListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List endpoints in creation order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			defs, err := client.ListEndpoints()
			if err != nil {
				return commandError(err, "", "")
			}

			w := cmd.OutOrStdout()
			return opts.printResult(w, defs, func() {
				if len(defs) == 0 {
					fmt.Fprintln(w, "No endpoints configured")
					return
				}
				tw := output.Table(w)
				fmt.Fprintln(tw, "ID\tNAME\tMETHOD\tPATH\tSTATUS\tDELAY\tACTIVE")
				for _, d := range defs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%dms\t%t\n",
						d.ID, output.Truncate(d.Name, 30), d.Method, d.Path, d.StatusCode, d.DelayMs, d.IsActive)
				}
				_ = tw.Flush()
			})
		},
	}
}

func newEndpointsGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <endpoint-id>",
		Short: "Show one endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			def, err := client.GetEndpoint(args[0])
			if err != nil {
				return commandError(err, "endpoint", args[0])
			}
			w := cmd.OutOrStdout()
			return opts.printResult(w, def, func() { printDefinition(w, def) })
		},
	}
}

func printDefinition(w io.Writer, d endpoint.Definition) {
	tw := output.Table(w)
	fmt.Fprintf(tw, "ID:\t%s\n", d.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", d.Name)
	fmt.Fprintf(tw, "Route:\t%s %s\n", d.Method, d.Path)
	fmt.Fprintf(tw, "Status:\t%d\n", d.StatusCode)
	fmt.Fprintf(tw, "Content-Type:\t%s\n", d.ContentType)
	fmt.Fprintf(tw, "Delay:\t%dms\n", d.DelayMs)
	fmt.Fprintf(tw, "Active:\t%t\n", d.IsActive)
	fmt.Fprintf(tw, "Created:\t%s\n", d.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	for _, name := range slices.Sorted(maps.Keys(d.Headers)) {
		fmt.Fprintf(tw, "Header:\t%s: %s\n", name, d.Headers[name])
	}
	_ = tw.Flush()
	if d.ResponseBody != "" {
		fmt.Fprintf(w, "\n%s\n", d.ResponseBody)
	}
}

// definitionFlags are shared by add and update.
type definitionFlags struct {
	name        string
	method      string
	path        string
	status      int
	headers     []string
	body        string
	bodyFile    string
	contentType string
	delay       int
}

func (f *definitionFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.name, "name", "n", "", "Display name")
	flags.StringVarP(&f.method, "method", "m", "GET", "HTTP method (GET, POST, PUT, DELETE, PATCH)")
	flags.StringVar(&f.path, "path", "", "Path, relative to /api (e.g., /users)")
	flags.IntVarP(&f.status, "status", "s", 200, "Response status code")
	flags.StringArrayVarP(&f.headers, "header", "H", nil, `Response header "Name: value" (repeatable)`)
	flags.StringVarP(&f.body, "body", "b", "", "Response body")
	flags.StringVar(&f.bodyFile, "body-file", "", "Read the response body from a file")
	flags.StringVar(&f.contentType, "content-type", endpoint.ContentTypeJSON, "Response content type")
	flags.IntVar(&f.delay, "delay", 0, "Response delay in milliseconds")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")
}

// responseBody returns the body from --body or --body-file, and whether either was set.
func (f *definitionFlags) responseBody(cmd *cobra.Command) (string, bool, error) {
	switch {
	case cmd.Flags().Changed("body-file"):
		data, err := os.ReadFile(f.bodyFile)
		if err != nil {
			return "", false, fmt.Errorf("reading body file: %w", err)
		}
		return string(data), true, nil
	case cmd.Flags().Changed("body"):
		return f.body, true, nil
	}
	return "", false, nil
}

func newEndpointsAddCommand(opts *rootOptions) *cobra.Command {
	f := &definitionFlags{}
	var inactive bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an endpoint",
		Example: `  waspceptor endpoints add --name Users --path /users --body '[{"id":1}]'
  waspceptor endpoints add -n "Slow order" -m POST --path /orders -s 201 --delay 1500 \
      -H "Location: /orders/1"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			headers, err := parse.Headers(f.headers)
			if err != nil {
				return err
			}
			draft := endpoint.Draft{
				Name:        f.name,
				Method:      f.method,
				Path:        f.path,
				Headers:     headers,
				ContentType: f.contentType,
			}
			if cmd.Flags().Changed("status") {
				draft.StatusCode = &f.status
			}
			if cmd.Flags().Changed("delay") {
				draft.DelayMs = &f.delay
			}
			if inactive {
				active := false
				draft.IsActive = &active
			}
			body, ok, err := f.responseBody(cmd)
			if err != nil {
				return err
			}
			if ok {
				draft.ResponseBody = &body
			}

			client, err := opts.client()
			if err != nil {
				return err
			}
			def, err := client.CreateEndpoint(draft)
			if err != nil {
				return commandError(err, "", "")
			}

			w := cmd.OutOrStdout()
			return opts.printResult(w, def, func() {
				fmt.Fprintf(w, "Created endpoint %s: %s %s\n", def.ID, def.Method, def.Path)
			})
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Create the endpoint disabled")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func newEndpointsUpdateCommand(opts *rootOptions) *cobra.Command {
	f := &definitionFlags{}
	var active bool

	cmd := &cobra.Command{
		Use:     "update <endpoint-id>",
		Short:   "Change fields of an endpoint; unspecified fields are kept",
		Example: `  waspceptor endpoints update 3f2a... --status 503 --delay 0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := buildPatch(cmd, f, &active)
			if err != nil {
				return err
			}

			client, err := opts.client()
			if err != nil {
				return err
			}
			def, err := client.UpdateEndpoint(args[0], patch)
			if err != nil {
				return commandError(err, "endpoint", args[0])
			}

			w := cmd.OutOrStdout()
			return opts.printResult(w, def, func() {
				fmt.Fprintf(w, "Updated endpoint %s: %s %s\n", def.ID, def.Method, def.Path)
			})
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&active, "active", true, "Enable or disable the endpoint")
	return cmd
}

var errEmptyPatch = errors.New("nothing to update: pass at least one field flag")

// buildPatch turns the changed flags into a patch.
func buildPatch(cmd *cobra.Command, f *definitionFlags, active *bool) (endpoint.Patch, error) {
	var patch endpoint.Patch
	changed := cmd.Flags().Changed

	if changed("name") {
		patch.Name = &f.name
	}
	if changed("method") {
		patch.Method = &f.method
	}
	if changed("path") {
		patch.Path = &f.path
	}
	if changed("status") {
		patch.StatusCode = &f.status
	}
	if changed("header") {
		headers, err := parse.Headers(f.headers)
		if err != nil {
			return patch, err
		}
		patch.Headers = headers
	}
	if changed("content-type") {
		patch.ContentType = &f.contentType
	}
	if changed("delay") {
		patch.DelayMs = &f.delay
	}
	if changed("active") {
		patch.IsActive = active
	}
	body, ok, err := f.responseBody(cmd)
	if err != nil {
		return patch, err
	}
	if ok {
		patch.ResponseBody = &body
	}

	if patch.IsEmpty() {
		return patch, errEmptyPatch
	}
	return patch, nil
}

func newEndpointsToggleCommand(opts *rootOptions) *cobra.Command {
	var active bool

	cmd := &cobra.Command{
		Use:   "toggle <endpoint-id>",
		Short: "Flip whether an endpoint is active",
		Long: `Flip whether an endpoint is active. With --active=true or --active=false
the state is set instead of flipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var want *bool
			if cmd.Flags().Changed("active") {
				want = &active
			}

			client, err := opts.client()
			if err != nil {
				return err
			}
			def, err := client.ToggleEndpoint(args[0], want)
			if err != nil {
				return commandError(err, "endpoint", args[0])
			}

			w := cmd.OutOrStdout()
			return opts.printResult(w, def, func() {
				state := "inactive"
				if def.IsActive {
					state = "active"
				}
				fmt.Fprintf(w, "Endpoint %s is now %s\n", def.ID, state)
			})
		},
	}
	cmd.Flags().BoolVar(&active, "active", true, "Set the state instead of flipping it")
	return cmd
}

func newEndpointsDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <endpoint-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an endpoint and its request log entries",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			if err := client.DeleteEndpoint(args[0]); err != nil {
				return commandError(err, "endpoint", args[0])
			}

			w := cmd.OutOrStdout()
			return opts.printResult(w, map[string]string{"deleted": args[0]}, func() {
				fmt.Fprintf(w, "Deleted endpoint: %s\n", args[0])
			})
		},
	}
}

// formatMs renders a millisecond count for tables.
func formatMs(ms int64) string {
	return strconv.FormatInt(ms, 10) + "ms"
}

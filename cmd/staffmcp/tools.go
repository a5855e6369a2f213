package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/staffmcp/staffmcp/internal/agent"
	"github.com/staffmcp/staffmcp/internal/mcp"
	"github.com/staffmcp/staffmcp/internal/mcpclient"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Discover and invoke tools on a running server",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tools the server currently advertises",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		client := mcpclient.New(cfg.ServerURL, cfg.ToolTimeoutDuration())
		descriptors, err := client.ListTools(context.Background())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tENDPOINT\tPARAMETERS\tDESCRIPTION")
		for _, d := range descriptors {
			params := make([]string, 0, len(d.InputSchema))
			for _, p := range d.Params() {
				params = append(params, p+":"+string(d.InputSchema[p]))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, d.Endpoint, strings.Join(params, ","), d.Description)
		}
		return w.Flush()
	},
}

var toolsCallCmd = &cobra.Command{
	Use:   "call <name> [key=value...]",
	Short: "Invoke a tool by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()
		client := mcpclient.New(cfg.ServerURL, cfg.ToolTimeoutDuration())

		descriptors, err := client.ListTools(ctx)
		if err != nil {
			return err
		}
		var schema map[string]mcp.ParamType
		for _, d := range descriptors {
			if d.Name == args[0] {
				schema = d.InputSchema
			}
		}

		toolArgs, err := parseToolArgs(schema, args[1:])
		if err != nil {
			return err
		}

		raw, err := agent.NewDispatcher(client).Dispatch(ctx, args[0], toolArgs)
		if err != nil {
			return err
		}

		var out bytes.Buffer
		if err := json.Indent(&out, raw, "", "  "); err != nil {
			return err
		}
		fmt.Println(out.String())
		return nil
	},
}

func init() {
	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsCallCmd)
}

// parseToolArgs turns key=value pairs into typed arguments. Keys the schema
// does not declare are passed as strings so the dispatcher can reject them.
func parseToolArgs(schema map[string]mcp.ParamType, pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q is not key=value", pair)
		}
		typ, declared := schema[key]
		if !declared {
			out[key] = value
			continue
		}
		v, err := mcp.ParseArgument(typ, value)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

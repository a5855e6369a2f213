package agent

import (
	"context"
	"encoding/json"

	"github.com/staffmcp/staffmcp/internal/mcp"
)

// ToolClient reaches the tool server. *mcpclient.Client implements it.
type ToolClient interface {
	ListTools(ctx context.Context) ([]mcp.ToolDescriptor, error)
	Invoke(ctx context.Context, d mcp.ToolDescriptor, args map[string]any) (json.RawMessage, error)
}

// Dispatcher resolves tool names against a fresh discovery on every call.
type Dispatcher struct {
	client ToolClient
}

func NewDispatcher(client ToolClient) *Dispatcher {
	return &Dispatcher{client: client}
}

// Tools returns the tool server's current descriptors.
func (d *Dispatcher) Tools(ctx context.Context) ([]mcp.ToolDescriptor, error) {
	return d.client.ListTools(ctx)
}

// Dispatch invokes the tool named name with args and returns its JSON result.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (json.RawMessage, error) {
	tools, err := d.client.ListTools(ctx)
	if err != nil {
		return nil, err
	}

	for _, t := range tools {
		if t.Name != name {
			continue
		}
		if err := mcp.ValidateArguments(t, args); err != nil {
			return nil, err
		}
		return d.client.Invoke(ctx, t, args)
	}
	return nil, mcp.UnknownTool(name)
}

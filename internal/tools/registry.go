package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/staffmcp/staffmcp/internal/mcp"
)

// Registry keeps the ordered set of tools. Names and endpoints are unique.
// Mutation replaces the internal slice, so a List taken before a Register or
// Unregister is never affected by it.
type Registry struct {
	mu    sync.RWMutex
	tools []Tool
}

// NewRegistry builds a registry from tools, failing on the first invalid one.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends a tool when neither its name nor its endpoint is in use.
func (r *Registry) Register(t Tool) error {
	if err := t.Check(); err != nil {
		return err
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %s: handler is nil", t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.tools {
		if existing.Name == t.Name {
			return fmt.Errorf("tool %s already registered", t.Name)
		}
		if existing.Endpoint == t.Endpoint {
			return fmt.Errorf("tool %s: endpoint %s already served by %s", t.Name, t.Endpoint, existing.Name)
		}
	}

	next := make([]Tool, len(r.tools), len(r.tools)+1)
	copy(next, r.tools)
	t.ToolDescriptor = t.Clone()
	r.tools = append(next, t)
	return nil
}

// Unregister removes the named tool and reports whether it was present.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.tools {
		if t.Name == name {
			next := make([]Tool, 0, len(r.tools)-1)
			next = append(next, r.tools[:i]...)
			r.tools = append(next, r.tools[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the descriptors in registration order.
func (r *Registry) List() []mcp.ToolDescriptor {
	r.mu.RLock()
	tools := r.tools
	r.mu.RUnlock()

	out := make([]mcp.ToolDescriptor, len(tools))
	for i, t := range tools {
		out[i] = t.Clone()
	}
	return out
}

// Lookup finds a tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	return r.find(func(t Tool) bool { return t.Name == name })
}

// LookupEndpoint finds the tool served at path.
func (r *Registry) LookupEndpoint(path string) (Tool, bool) {
	return r.find(func(t Tool) bool { return t.Endpoint == path })
}

// Invoke validates args against the named tool's schema and runs its handler.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return nil, mcp.UnknownTool(name)
	}
	return t.Invoke(ctx, args)
}

// Invoke validates args and runs the handler. Nothing is queried when
// validation fails.
func (t Tool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	if err := mcp.ValidateArguments(t.ToolDescriptor, args); err != nil {
		return nil, err
	}
	return t.Handler(ctx, args)
}

func (r *Registry) find(match func(Tool) bool) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tools {
		if match(t) {
			return t, true
		}
	}
	return Tool{}, false
}

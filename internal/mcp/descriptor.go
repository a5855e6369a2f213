// Package mcp holds the tool protocol types shared by the tool server and its
// clients: descriptors, declared parameter types, argument validation and the
// typed error taxonomy.
package mcp

import (
	"fmt"
	"slices"
	"strings"
)

// DiscoveryPath is where the tool server publishes its registry.
const DiscoveryPath = "/mcp/tools"

// ParamType is the declared primitive type of a tool parameter
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
)

// Valid reports whether t is one of the supported primitive types.
func (t ParamType) Valid() bool {
	switch t {
	case ParamString, ParamInteger, ParamNumber, ParamBoolean:
		return true
	}
	return false
}

// ToolDescriptor describes one invocable tool as returned by discovery.
type ToolDescriptor struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Endpoint    string               `json:"endpoint"`
	InputSchema map[string]ParamType `json:"input_schema"`
}

// Params returns the declared parameter names in sorted order.
func (d ToolDescriptor) Params() []string {
	keys := make([]string, 0, len(d.InputSchema))
	for k := range d.InputSchema {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Check returns an error if the descriptor cannot be advertised or invoked.
func (d ToolDescriptor) Check() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("tool name is empty")
	}
	if !strings.HasPrefix(d.Endpoint, "/") {
		return fmt.Errorf("tool %s: endpoint %q must be an absolute path", d.Name, d.Endpoint)
	}
	for k, t := range d.InputSchema {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("tool %s: empty parameter name", d.Name)
		}
		if !t.Valid() {
			return fmt.Errorf("tool %s: parameter %s has unsupported type %q", d.Name, k, t)
		}
	}
	return nil
}

// Clone returns a deep copy, so callers can never alias registry state.
func (d ToolDescriptor) Clone() ToolDescriptor {
	c := d
	c.InputSchema = make(map[string]ParamType, len(d.InputSchema))
	for k, v := range d.InputSchema {
		c.InputSchema[k] = v
	}
	return c
}

package agent

import "github.com/staffmcp/staffmcp/internal/mcp"

// FunctionSpec is a tool as presented to the reasoning service.
type FunctionSpec struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Parameters  ParametersSchema `json:"parameters"`
}

// ParametersSchema is the JSON-schema object describing a function's arguments.
type ParametersSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required"`
}

type PropertySchema struct {
	Type mcp.ParamType `json:"type"`
}

// ToFunctionSpec converts a discovered descriptor. Every declared parameter
// is required and keeps its declared type. A malformed descriptor is a
// ToolExecutionFailed error naming the tool.
func ToFunctionSpec(d mcp.ToolDescriptor) (FunctionSpec, error) {
	if err := d.Check(); err != nil {
		return FunctionSpec{}, &mcp.Error{
			Kind:    mcp.KindToolExecutionFailed,
			Tool:    d.Name,
			Message: "malformed tool descriptor",
			Err:     err,
		}
	}

	params := d.Params()
	props := make(map[string]PropertySchema, len(params))
	for _, p := range params {
		props[p] = PropertySchema{Type: d.InputSchema[p]}
	}

	return FunctionSpec{
		Name:        d.Name,
		Description: d.Description,
		Parameters: ParametersSchema{
			Type:       "object",
			Properties: props,
			Required:   params,
		},
	}, nil
}

// ToFunctionSpecs converts descriptors in order, stopping at the first error.
func ToFunctionSpecs(ds []mcp.ToolDescriptor) ([]FunctionSpec, error) {
	out := make([]FunctionSpec, 0, len(ds))
	for _, d := range ds {
		spec, err := ToFunctionSpec(d)
		if err != nil {
			return nil, err
		}
		out = append(out, spec)
	}
	return out, nil
}

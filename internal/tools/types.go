// Package tools defines the tool registry served by discovery and the employee
// tools registered in it.
package tools

import (
	"context"

	"github.com/staffmcp/staffmcp/internal/mcp"
)

// ToolName is the canonical name of a registered tool.
type ToolName string

const (
	ToolEmployeeByName        ToolName = "get_employee_by_name"
	ToolEmployeesByLocation   ToolName = "get_employees_by_location"
	ToolDirectReports         ToolName = "get_direct_reports"
	ToolEmployeesByDepartment ToolName = "get_employees_by_department"
)

// Endpoint returns the invocation path for a tool name.
func Endpoint(name ToolName) string {
	return "/tools/" + string(name)
}

// Handler executes a tool against arguments already validated against the
// tool's input schema. The returned value is encoded as JSON.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Tool pairs a descriptor with the handler that serves it.
type Tool struct {
	mcp.ToolDescriptor
	Handler Handler
}

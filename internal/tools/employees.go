package tools

import (
	"context"
	"fmt"

	"github.com/staffmcp/staffmcp/internal/mcp"
	"github.com/staffmcp/staffmcp/internal/models"
	"github.com/staffmcp/staffmcp/internal/store"
)

// EmployeeByNameTool returns details for the first employee with a first name
func EmployeeByNameTool(s store.Store) Tool {
	return Tool{
		ToolDescriptor: mcp.ToolDescriptor{
			Name:        string(ToolEmployeeByName),
			Description: "Get employee details by first name",
			Endpoint:    Endpoint(ToolEmployeeByName),
			InputSchema: map[string]mcp.ParamType{"first_name": mcp.ParamString},
		},
		Handler: func(ctx context.Context, input map[string]any) (any, error) {
			firstName, _ := input["first_name"].(string)

			e, err := s.EmployeeByFirstName(ctx, firstName)
			if err != nil {
				return nil, fmt.Errorf("employee by name: %w", err)
			}
			if e == nil {
				return models.NotFound{
					Found:   false,
					Message: "employee not found",
					Query:   map[string]string{"first_name": firstName},
				}, nil
			}
			return models.NewDetail(*e), nil
		},
	}
}

// EmployeesByLocationTool lists all employees in a location
func EmployeesByLocationTool(s store.Store) Tool {
	return Tool{
		ToolDescriptor: mcp.ToolDescriptor{
			Name:        string(ToolEmployeesByLocation),
			Description: "List all employees in a specific location",
			Endpoint:    Endpoint(ToolEmployeesByLocation),
			InputSchema: map[string]mcp.ParamType{"location": mcp.ParamString},
		},
		Handler: func(ctx context.Context, input map[string]any) (any, error) {
			location, _ := input["location"].(string)
			emps, err := s.EmployeesByLocation(ctx, location)
			if err != nil {
				return nil, fmt.Errorf("employees by location: %w", err)
			}
			return models.NewSummaries(emps), nil
		},
	}
}

// DirectReportsTool lists employees reporting to a manager
func DirectReportsTool(s store.Store) Tool {
	return Tool{
		ToolDescriptor: mcp.ToolDescriptor{
			Name:        string(ToolDirectReports),
			Description: "Get employees reporting to a manager, identified by the manager's employee ID (e.g. EMP-1002)",
			Endpoint:    Endpoint(ToolDirectReports),
			InputSchema: map[string]mcp.ParamType{"manager_employee_id": mcp.ParamString},
		},
		Handler: func(ctx context.Context, input map[string]any) (any, error) {
			managerID, _ := input["manager_employee_id"].(string)
			emps, err := s.DirectReports(ctx, managerID)
			if err != nil {
				return nil, fmt.Errorf("direct reports: %w", err)
			}
			return models.NewSummaries(emps), nil
		},
	}
}

// EmployeesByDepartmentTool lists employees in a department by its name
func EmployeesByDepartmentTool(s store.Store) Tool {
	return Tool{
		ToolDescriptor: mcp.ToolDescriptor{
			Name:        string(ToolEmployeesByDepartment),
			Description: "List all employees in a department (e.g. Engineering, Finance, Human Resources)",
			Endpoint:    Endpoint(ToolEmployeesByDepartment),
			InputSchema: map[string]mcp.ParamType{"department": mcp.ParamString},
		},
		Handler: func(ctx context.Context, input map[string]any) (any, error) {
			department, _ := input["department"].(string)
			emps, err := s.EmployeesByDepartment(ctx, department)
			if err != nil {
				return nil, fmt.Errorf("employees by department: %w", err)
			}
			return models.NewSummaries(emps), nil
		},
	}
}

// EmployeeTools returns the employee tool set in its published order.
func EmployeeTools(s store.Store) []Tool {
	return []Tool{
		EmployeeByNameTool(s),
		EmployeesByLocationTool(s),
		DirectReportsTool(s),
		EmployeesByDepartmentTool(s),
	}
}

// NewEmployeeRegistry builds the registry served by the tool server.
func NewEmployeeRegistry(s store.Store) (*Registry, error) {
	return NewRegistry(EmployeeTools(s)...)
}

// Package store is the relational data collaborator queried by tool handlers.
// Every lookup is an exact match on a single key.
package store

import (
	"context"

	"github.com/staffmcp/staffmcp/internal/models"
)

// Store is read-mostly and safe for concurrent use.
type Store interface {
	// EmployeeByFirstName returns the first matching employee, or nil when none exists.
	EmployeeByFirstName(ctx context.Context, firstName string) (*models.Employee, error)
	EmployeesByLocation(ctx context.Context, location string) ([]models.Employee, error)
	DirectReports(ctx context.Context, managerEmployeeID string) ([]models.Employee, error)
	EmployeesByDepartment(ctx context.Context, department string) ([]models.Employee, error)
	TestConnection(ctx context.Context) error
	Close()
}

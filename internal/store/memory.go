package store

import (
	"context"

	"github.com/staffmcp/staffmcp/internal/models"
)

// MemoryStore serves a fixed data set from process memory. It is immutable
// after construction, so no locking is needed.
type MemoryStore struct {
	departments []models.Department
	employees   []models.Employee
}

// NewMemoryStore copies the given rows into a new store.
func NewMemoryStore(departments []models.Department, employees []models.Employee) *MemoryStore {
	return &MemoryStore{
		departments: append([]models.Department(nil), departments...),
		employees:   append([]models.Employee(nil), employees...),
	}
}

// NewSeededMemoryStore returns a store holding the reference data set.
func NewSeededMemoryStore() *MemoryStore {
	return NewMemoryStore(SeedDepartments, SeedEmployees)
}

func (s *MemoryStore) EmployeeByFirstName(ctx context.Context, firstName string) (*models.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, e := range s.employees {
		if e.FirstName == firstName {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) EmployeesByLocation(ctx context.Context, location string) ([]models.Employee, error) {
	return s.filter(ctx, func(e models.Employee) bool { return e.Location == location })
}

func (s *MemoryStore) DirectReports(ctx context.Context, managerEmployeeID string) ([]models.Employee, error) {
	return s.filter(ctx, func(e models.Employee) bool {
		return e.ManagerEmployeeID != nil && *e.ManagerEmployeeID == managerEmployeeID
	})
}

func (s *MemoryStore) EmployeesByDepartment(ctx context.Context, department string) ([]models.Employee, error) {
	deptID := -1
	for _, d := range s.departments {
		if d.Name == department {
			deptID = d.ID
			break
		}
	}
	return s.filter(ctx, func(e models.Employee) bool { return e.DepartmentID == deptID })
}

func (s *MemoryStore) TestConnection(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close() {}

func (s *MemoryStore) filter(ctx context.Context, keep func(models.Employee) bool) ([]models.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []models.Employee{}
	for _, e := range s.employees {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

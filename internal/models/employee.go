package models

// Department is a row of the departments table
type Department struct {
	ID         int    `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	CostCenter string `json:"cost_center" db:"cost_center"`
}

// Employee is a row of the employees table
type Employee struct {
	ID                int     `json:"id" db:"id"`
	EmployeeID        string  `json:"employee_id" db:"employee_id"`
	FirstName         string  `json:"first_name" db:"first_name"`
	LastName          string  `json:"last_name" db:"last_name"`
	Email             string  `json:"email" db:"email"`
	JobTitle          string  `json:"job_title" db:"job_title"`
	DepartmentID      int     `json:"department_id" db:"department_id"`
	ManagerEmployeeID *string `json:"manager_employee_id,omitempty" db:"manager_employee_id"`
	HireDate          string  `json:"hire_date" db:"hire_date"`
	EmploymentType    string  `json:"employment_type" db:"employment_type"`
	Status            string  `json:"status" db:"status"`
	BaseSalary        int64   `json:"base_salary" db:"base_salary"`
	Location          string  `json:"location" db:"location"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// EmployeeDetail is returned by get_employee_by_name
type EmployeeDetail struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	JobTitle   string `json:"job_title"`
	BaseSalary int64  `json:"base_salary"`
	Location   string `json:"location"`
	Status     string `json:"status"`
}

// EmployeeSummary is one item of the list-returning tools
type EmployeeSummary struct {
	Name     string `json:"name"`
	JobTitle string `json:"job_title"`
}

// NotFound is a successful tool result carrying a negative finding.
type NotFound struct {
	Found   bool              `json:"found"`
	Message string            `json:"message"`
	Query   map[string]string `json:"query,omitempty"`
}

func NewDetail(e Employee) EmployeeDetail {
	return EmployeeDetail{
		EmployeeID: e.EmployeeID,
		Name:       e.FullName(),
		JobTitle:   e.JobTitle,
		BaseSalary: e.BaseSalary,
		Location:   e.Location,
		Status:     e.Status,
	}
}

func NewSummaries(emps []Employee) []EmployeeSummary {
	out := make([]EmployeeSummary, 0, len(emps))
	for _, e := range emps {
		out = append(out, EmployeeSummary{Name: e.FullName(), JobTitle: e.JobTitle})
	}
	return out
}

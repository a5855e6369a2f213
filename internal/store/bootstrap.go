package store

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS departments (
	id          INTEGER PRIMARY KEY,
	name        TEXT NOT NULL,
	cost_center TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS employees (
	id                  SERIAL PRIMARY KEY,
	employee_id         TEXT UNIQUE NOT NULL,
	first_name          TEXT NOT NULL,
	last_name           TEXT NOT NULL,
	email               TEXT NOT NULL,
	job_title           TEXT NOT NULL,
	department_id       INTEGER NOT NULL REFERENCES departments(id),
	manager_employee_id TEXT,
	hire_date           TEXT NOT NULL,
	employment_type     TEXT NOT NULL,
	status              TEXT NOT NULL,
	base_salary         BIGINT NOT NULL,
	location            TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS employees_location_idx ON employees (location);
CREATE INDEX IF NOT EXISTS employees_manager_idx ON employees (manager_employee_id);
`

// Bootstrap creates the schema and inserts the reference data set. It is
// idempotent: rows that already exist are left untouched.
func (s *PostgresStore) Bootstrap(ctx context.Context) (int64, error) {
	var inserted int64
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, schemaDDL); err != nil {
			return errors.Wrap(err, "create schema")
		}

		for _, d := range SeedDepartments {
			if _, err := tx.Exec(ctx,
				`INSERT INTO departments (id, name, cost_center) VALUES ($1, $2, $3)
				ON CONFLICT (id) DO NOTHING`,
				d.ID, d.Name, d.CostCenter); err != nil {
				return errors.Wrapf(err, "insert department %d", d.ID)
			}
		}

		for _, e := range SeedEmployees {
			tag, err := tx.Exec(ctx,
				`INSERT INTO employees (
					employee_id, first_name, last_name, email,
					job_title, department_id, manager_employee_id,
					hire_date, employment_type, status,
					base_salary, location
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
				ON CONFLICT (employee_id) DO NOTHING`,
				e.EmployeeID, e.FirstName, e.LastName, e.Email,
				e.JobTitle, e.DepartmentID, e.ManagerEmployeeID,
				e.HireDate, e.EmploymentType, e.Status,
				e.BaseSalary, e.Location)
			if err != nil {
				return errors.Wrapf(err, "insert employee %s", e.EmployeeID)
			}
			inserted += tag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().
		Int("departments", len(SeedDepartments)).
		Int64("employees_inserted", inserted).
		Msg("employee database bootstrapped")
	return inserted, nil
}

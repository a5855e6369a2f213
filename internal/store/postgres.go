package store

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/staffmcp/staffmcp/internal/models"
)

const employeeColumns = `id, employee_id, first_name, last_name, email, job_title,
	department_id, manager_employee_id, hire_date, employment_type, status,
	base_salary, location`

// PostgresStore queries the employees database through a pgx pool. Each call
// acquires its own connection and releases it on every exit path.
type PostgresStore struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// NewPostgresStore connects to databaseURL and verifies connectivity.
func NewPostgresStore(ctx context.Context, databaseURL string, maxConns int32, queryTimeout time.Duration) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database url")
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "pgxpool.NewWithConfig")
	}

	s := &PostgresStore{pool: pool, queryTimeout: queryTimeout}
	if err := s.TestConnection(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

// TestConnection verifies database connectivity
func (s *PostgresStore) TestConnection(ctx context.Context) error {
	return errors.Wrap(s.pool.Ping(ctx), "ping")
}

func (s *PostgresStore) EmployeeByFirstName(ctx context.Context, firstName string) (*models.Employee, error) {
	var found *models.Employee
	err := s.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+employeeColumns+` FROM employees WHERE first_name = $1 ORDER BY id LIMIT 1`,
			firstName)
		if err != nil {
			return err
		}
		e, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Employee])
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		found = &e
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "employee by first name %q", firstName)
	}
	return found, nil
}

func (s *PostgresStore) EmployeesByLocation(ctx context.Context, location string) ([]models.Employee, error) {
	emps, err := s.list(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE location = $1 ORDER BY id`, location)
	return emps, errors.Wrapf(err, "employees by location %q", location)
}

func (s *PostgresStore) DirectReports(ctx context.Context, managerEmployeeID string) ([]models.Employee, error) {
	emps, err := s.list(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE manager_employee_id = $1 ORDER BY id`, managerEmployeeID)
	return emps, errors.Wrapf(err, "direct reports of %q", managerEmployeeID)
}

func (s *PostgresStore) EmployeesByDepartment(ctx context.Context, department string) ([]models.Employee, error) {
	emps, err := s.list(ctx,
		`SELECT e.id, e.employee_id, e.first_name, e.last_name, e.email, e.job_title,
			e.department_id, e.manager_employee_id, e.hire_date, e.employment_type, e.status,
			e.base_salary, e.location
		FROM employees e JOIN departments d ON d.id = e.department_id
		WHERE d.name = $1 ORDER BY e.id`, department)
	return emps, errors.Wrapf(err, "employees by department %q", department)
}

func (s *PostgresStore) list(ctx context.Context, sql string, arg string) ([]models.Employee, error) {
	var out []models.Employee
	err := s.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, sql, arg)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[models.Employee])
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Employee{}
	}
	return out, nil
}

// withConn scopes one pooled connection to fn.
func (s *PostgresStore) withConn(ctx context.Context, fn func(context.Context, *pgxpool.Conn) error) error {
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	start := time.Now()
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return errors.Wrap(err, "acquire connection")
	}
	defer conn.Release()

	err = fn(ctx, conn)
	log.Debug().
		Dur("duration", time.Since(start)).
		Bool("success", err == nil).
		Msg("store query")
	return err
}

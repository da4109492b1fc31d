package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// SeedRole is a sample role. Department is the 1-based position of its
// department in SeedData.Departments.
type SeedRole struct {
	Title      string
	Salary     decimal.Decimal
	Department int
}

// SeedEmployee is a sample employee. Role is the 1-based position of its role
// in SeedData.Roles. Sample employees have no manager.
type SeedEmployee struct {
	FirstName string
	LastName  string
	Role      int
}

// SeedData is the baseline that makes the tool usable without manual setup.
type SeedData struct {
	Departments []string
	Roles       []SeedRole
	Employees   []SeedEmployee
}

// DefaultSeed returns the sample departments, roles and employees.
func DefaultSeed() SeedData {
	return SeedData{
		Departments: []string{"Engineering", "HR", "Sales"},
		Roles: []SeedRole{
			{Title: "Software Engineer", Salary: decimal.NewFromInt(80000), Department: 1},
			{Title: "HR Manager", Salary: decimal.NewFromInt(60000), Department: 2},
			{Title: "Sales Representative", Salary: decimal.NewFromInt(50000), Department: 3},
		},
		Employees: []SeedEmployee{
			{FirstName: "John", LastName: "Doe", Role: 1},
			{FirstName: "Jane", LastName: "Smith", Role: 2},
			{FirstName: "Alice", LastName: "Johnson", Role: 3},
		},
	}
}

const (
	seedDepartmentSQL = `INSERT INTO department (name) VALUES ($1) ON CONFLICT DO NOTHING`

	// Parent rows are resolved by their unique value, not by a literal id.
	seedRoleSQL = `INSERT INTO role (title, salary, department_id)
		SELECT $1::text, $2::numeric, d.id FROM department d WHERE d.name = $3
		ON CONFLICT DO NOTHING`

	// employee has no unique column, so repeated runs are guarded by name.
	seedEmployeeSQL = `INSERT INTO employee (first_name, last_name, role_id, manager_id)
		SELECT $1::text, $2::text, r.id, NULL FROM role r WHERE r.title = $3
		AND NOT EXISTS (SELECT 1 FROM employee e WHERE e.first_name = $1 AND e.last_name = $2)`
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Seed inserts DefaultSeed. Rows that already exist are left alone, so the
// result is the same however many times it runs.
func (d *DB) Seed(ctx context.Context) error {
	return seed(ctx, d.DB, DefaultSeed())
}

func seed(ctx context.Context, db execer, data SeedData) error {
	if err := data.validate(); err != nil {
		return err
	}

	for _, name := range data.Departments {
		if _, err := db.ExecContext(ctx, seedDepartmentSQL, name); err != nil {
			return fmt.Errorf("failed to seed department %s: %w", name, err)
		}
	}

	for _, role := range data.Roles {
		dept := data.Departments[role.Department-1]
		if _, err := db.ExecContext(ctx, seedRoleSQL, role.Title, role.Salary, dept); err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role.Title, err)
		}
	}

	for _, emp := range data.Employees {
		title := data.Roles[emp.Role-1].Title
		if _, err := db.ExecContext(ctx, seedEmployeeSQL, emp.FirstName, emp.LastName, title); err != nil {
			return fmt.Errorf("failed to seed employee %s %s: %w", emp.FirstName, emp.LastName, err)
		}
	}

	return nil
}

// validate checks that every positional reference points inside its parent list.
func (s SeedData) validate() error {
	for _, role := range s.Roles {
		if role.Department < 1 || role.Department > len(s.Departments) {
			return fmt.Errorf("seed role %s references department #%d of %d", role.Title, role.Department, len(s.Departments))
		}
	}
	for _, emp := range s.Employees {
		if emp.Role < 1 || emp.Role > len(s.Roles) {
			return fmt.Errorf("seed employee %s %s references role #%d of %d", emp.FirstName, emp.LastName, emp.Role, len(s.Roles))
		}
	}
	return nil
}

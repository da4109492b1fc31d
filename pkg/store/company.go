package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

var (
	selectDepartments = Statement{
		Name: "select_departments",
		SQL:  `SELECT id, name FROM department ORDER BY id`,
	}

	selectRoles = Statement{
		Name: "select_roles",
		SQL: `SELECT role.id, role.title, department.name AS department, role.salary
			FROM role
			INNER JOIN department ON role.department_id = department.id
			ORDER BY role.id`,
	}

	// Left joins keep employees whose role or department cannot be resolved.
	// CONCAT of two NULLs is '', hence the NULLIF for employees without a manager.
	selectEmployees = Statement{
		Name: "select_employees",
		SQL: `SELECT employee.id, employee.first_name, employee.last_name, role.title,
				department.name AS department, role.salary,
				NULLIF(CONCAT(manager.first_name, ' ', manager.last_name), ' ') AS manager
			FROM employee
			LEFT JOIN role ON employee.role_id = role.id
			LEFT JOIN department ON role.department_id = department.id
			LEFT JOIN employee manager ON employee.manager_id = manager.id
			ORDER BY employee.id`,
	}

	departmentNameTaken = Statement{
		Name: "department_name_taken",
		SQL:  `SELECT EXISTS (SELECT 1 FROM department WHERE name = $1)`,
	}

	departmentExists = Statement{
		Name: "department_exists",
		SQL:  `SELECT EXISTS (SELECT 1 FROM department WHERE id = $1)`,
	}

	roleExists = Statement{
		Name: "role_exists",
		SQL:  `SELECT EXISTS (SELECT 1 FROM role WHERE id = $1)`,
	}

	employeeExists = Statement{
		Name: "employee_exists",
		SQL:  `SELECT EXISTS (SELECT 1 FROM employee WHERE id = $1)`,
	}

	insertDepartment = Statement{
		Name: "insert_department",
		SQL:  `INSERT INTO department (name) VALUES ($1)`,
	}

	insertRole = Statement{
		Name: "insert_role",
		SQL:  `INSERT INTO role (title, salary, department_id) VALUES ($1, $2, $3)`,
	}

	insertEmployee = Statement{
		Name: "insert_employee",
		SQL:  `INSERT INTO employee (first_name, last_name, role_id, manager_id) VALUES ($1, $2, $3, $4)`,
	}

	updateEmployeeRole = Statement{
		Name: "update_employee_role",
		SQL:  `UPDATE employee SET role_id = $1 WHERE id = $2`,
	}
)

// NewRole holds the answers for a role insert. Numeric fields are text: the
// console has either validated and normalised them or, in permissive mode,
// leaves the coercion to PostgreSQL.
type NewRole struct {
	Title        string
	Salary       string
	DepartmentID string
}

// NewEmployee holds the answers for an employee insert. A nil ManagerID
// stores NULL.
type NewEmployee struct {
	FirstName string
	LastName  string
	RoleID    string
	ManagerID *string
}

// Company runs the department, role and employee statements.
type Company struct {
	gw *Gateway
}

// NewCompany creates the company statements over db.
func NewCompany(db *sqlx.DB, log zerolog.Logger) *Company {
	return &Company{gw: NewGateway(db, log)}
}

// ListDepartments returns every department.
func (c *Company) ListDepartments(ctx context.Context) (ResultSet, error) {
	return c.gw.Query(ctx, selectDepartments)
}

// ListRoles returns every role with its department name.
func (c *Company) ListRoles(ctx context.Context) (ResultSet, error) {
	return c.gw.Query(ctx, selectRoles)
}

// ListEmployees returns every employee with title, department, salary and manager name.
func (c *Company) ListEmployees(ctx context.Context) (ResultSet, error) {
	return c.gw.Query(ctx, selectEmployees)
}

// DepartmentNameTaken reports whether a department called name exists.
func (c *Company) DepartmentNameTaken(ctx context.Context, name string) (bool, error) {
	return c.gw.Exists(ctx, departmentNameTaken, name)
}

// DepartmentExists reports whether id identifies a department.
func (c *Company) DepartmentExists(ctx context.Context, id string) (bool, error) {
	return c.gw.Exists(ctx, departmentExists, id)
}

// RoleExists reports whether id identifies a role.
func (c *Company) RoleExists(ctx context.Context, id string) (bool, error) {
	return c.gw.Exists(ctx, roleExists, id)
}

// EmployeeExists reports whether id identifies an employee.
func (c *Company) EmployeeExists(ctx context.Context, id string) (bool, error) {
	return c.gw.Exists(ctx, employeeExists, id)
}

// AddDepartment inserts a department.
func (c *Company) AddDepartment(ctx context.Context, name string) error {
	_, err := c.gw.Exec(ctx, insertDepartment, name)
	return err
}

// AddRole inserts a role.
func (c *Company) AddRole(ctx context.Context, r NewRole) error {
	_, err := c.gw.Exec(ctx, insertRole, r.Title, r.Salary, r.DepartmentID)
	return err
}

// AddEmployee inserts an employee.
func (c *Company) AddEmployee(ctx context.Context, e NewEmployee) error {
	var manager any
	if e.ManagerID != nil {
		manager = *e.ManagerID
	}
	_, err := c.gw.Exec(ctx, insertEmployee, e.FirstName, e.LastName, e.RoleID, manager)
	return err
}

// UpdateEmployeeRole moves an employee to another role and returns the
// number of rows changed. Zero means no employee has that id.
func (c *Company) UpdateEmployeeRole(ctx context.Context, employeeID, roleID string) (int64, error) {
	return c.gw.Exec(ctx, updateEmployeeRole, roleID, employeeID)
}

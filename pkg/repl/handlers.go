package repl

import (
	"context"

	"github.com/soypete/employee-tracker/pkg/apperror"
	"github.com/soypete/employee-tracker/pkg/store"
)

// Menu entries. The text is shown verbatim.
const (
	ViewDepartments    = "View all departments"
	ViewRoles          = "View all roles"
	ViewEmployees      = "View all employees"
	AddDepartment      = "Add a department"
	AddRole            = "Add a role"
	AddEmployee        = "Add an employee"
	UpdateEmployeeRole = "Update an employee role"
	Exit               = "Exit"
)

// Pre-check failures.
var (
	errDepartmentMissing = apperror.New(apperror.CodeNotFound, "The department ID provided does not exist. Please try again.")
	errRoleMissing       = apperror.New(apperror.CodeNotFound, "The role ID provided does not exist. Please try again.")
	errManagerMissing    = apperror.New(apperror.CodeNotFound, "The manager ID provided does not exist. Please try again.")
)

type menuItem struct {
	label string
	run   func(ctx context.Context) (next, error)
}

func (c *Console) menu() []menuItem {
	return []menuItem{
		{ViewDepartments, c.viewDepartments},
		{ViewRoles, c.viewRoles},
		{ViewEmployees, c.viewEmployees},
		{AddDepartment, c.addDepartment},
		{AddRole, c.addRole},
		{AddEmployee, c.addEmployee},
		{UpdateEmployeeRole, c.updateEmployeeRole},
		{Exit, c.exit},
	}
}

func (c *Console) viewDepartments(ctx context.Context) (next, error) {
	return c.view(c.store.ListDepartments(ctx))
}

func (c *Console) viewRoles(ctx context.Context) (next, error) {
	return c.view(c.store.ListRoles(ctx))
}

func (c *Console) viewEmployees(ctx context.Context) (next, error) {
	return c.view(c.store.ListEmployees(ctx))
}

func (c *Console) view(rs store.ResultSet, err error) (next, error) {
	if err != nil {
		return showMenu, err
	}
	return showMenu, c.output.PrintTable(rs)
}

func (c *Console) addDepartment(ctx context.Context) (next, error) {
	answer, err := c.prompt.Input("What is the name of the department?", "")
	if err != nil {
		return showMenu, err
	}

	name, err := c.fields.name("Department name", answer)
	if err != nil {
		return showMenu, err
	}

	taken, err := c.store.DepartmentNameTaken(ctx, name)
	if err != nil {
		return showMenu, err
	}
	if taken {
		return showMenu, apperror.Newf(apperror.CodeConflict, "A department named %q already exists.", name)
	}

	if err := c.store.AddDepartment(ctx, name); err != nil {
		return showMenu, err
	}

	c.output.PrintSuccess("Department added successfully!\n")
	return showMenu, nil
}

func (c *Console) addRole(ctx context.Context) (next, error) {
	title, err := c.prompt.Input("What is the title of the role?", "")
	if err != nil {
		return showMenu, err
	}
	salary, err := c.prompt.Input("What is the salary of the role?", "")
	if err != nil {
		return showMenu, err
	}
	departmentID, err := c.prompt.Input("What is the department ID for the role?", "")
	if err != nil {
		return showMenu, err
	}

	role := store.NewRole{}
	if role.Title, err = c.fields.name("Role title", title); err != nil {
		return showMenu, err
	}
	if role.Salary, err = c.fields.salary(salary); err != nil {
		return showMenu, err
	}
	if role.DepartmentID, err = c.fields.id("Department ID", departmentID); err != nil {
		return showMenu, err
	}

	exists, err := c.store.DepartmentExists(ctx, role.DepartmentID)
	if err != nil {
		return showMenu, err
	}
	if !exists {
		return showMenu, errDepartmentMissing
	}

	if err := c.store.AddRole(ctx, role); err != nil {
		return showMenu, err
	}

	c.output.PrintSuccess("Role added successfully!\n")
	return showMenu, nil
}

func (c *Console) addEmployee(ctx context.Context) (next, error) {
	first, err := c.prompt.Input("What is the employee's first name?", "")
	if err != nil {
		return showMenu, err
	}
	last, err := c.prompt.Input("What is the employee's last name?", "")
	if err != nil {
		return showMenu, err
	}
	roleID, err := c.prompt.Input("What is the employee's role ID?", "")
	if err != nil {
		return showMenu, err
	}
	managerID, err := c.prompt.Input("What is the employee's manager ID? (Leave blank if none)", "")
	if err != nil {
		return showMenu, err
	}

	emp := store.NewEmployee{}
	if emp.FirstName, err = c.fields.name("First name", first); err != nil {
		return showMenu, err
	}
	if emp.LastName, err = c.fields.name("Last name", last); err != nil {
		return showMenu, err
	}
	if emp.RoleID, err = c.fields.id("Role ID", roleID); err != nil {
		return showMenu, err
	}
	if emp.ManagerID, err = c.fields.optionalID("Manager ID", managerID); err != nil {
		return showMenu, err
	}

	if err := c.requireRole(ctx, emp.RoleID); err != nil {
		return showMenu, err
	}
	if emp.ManagerID != nil {
		exists, err := c.store.EmployeeExists(ctx, *emp.ManagerID)
		if err != nil {
			return showMenu, err
		}
		if !exists {
			return showMenu, errManagerMissing
		}
	}

	if err := c.store.AddEmployee(ctx, emp); err != nil {
		return showMenu, err
	}

	c.output.PrintSuccess("Employee added successfully!\n")
	return showMenu, nil
}

func (c *Console) updateEmployeeRole(ctx context.Context) (next, error) {
	employeeID, err := c.prompt.Input("What is the ID of the employee whose role you want to update?", "")
	if err != nil {
		return showMenu, err
	}
	roleID, err := c.prompt.Input("What is the new role ID for the employee?", "")
	if err != nil {
		return showMenu, err
	}

	if employeeID, err = c.fields.id("Employee ID", employeeID); err != nil {
		return showMenu, err
	}
	if roleID, err = c.fields.id("Role ID", roleID); err != nil {
		return showMenu, err
	}

	if err := c.requireRole(ctx, roleID); err != nil {
		return showMenu, err
	}

	// The employee id is not pre-checked; an unknown id updates nothing.
	n, err := c.store.UpdateEmployeeRole(ctx, employeeID, roleID)
	if err != nil {
		return showMenu, err
	}

	c.output.PrintSuccess("Employee role updated successfully!\n")
	if n == 0 {
		c.output.PrintWarning("No employee matched ID %s; nothing was changed.\n", employeeID)
	}
	return showMenu, nil
}

func (c *Console) exit(context.Context) (next, error) {
	c.goodbye()
	return exitConsole, nil
}

func (c *Console) requireRole(ctx context.Context, id string) error {
	exists, err := c.store.RoleExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return errRoleMissing
	}
	return nil
}

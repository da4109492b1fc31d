package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockCompany(t *testing.T) (*Company, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewCompany(sqlx.NewDb(db, "postgres"), zerolog.Nop()), mock
}

func TestCompany_ListEmployeesProjection(t *testing.T) {
	c, mock := newMockCompany(t)

	cols := []string{"id", "first_name", "last_name", "title", "department", "salary", "manager"}
	mock.ExpectQuery(regexp.QuoteMeta(selectEmployees.SQL)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), "John", "Doe", "Software Engineer", "Engineering", []byte("80000"), nil).
			AddRow(int64(4), "Ann", "Lee", nil, nil, nil, []byte("John Doe")))

	rs, err := c.ListEmployees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cols, rs.Columns)
	require.Equal(t, 2, rs.Len())
	assert.Nil(t, rs.Rows[0]["manager"])
	assert.Equal(t, "John Doe", rs.Rows[1]["manager"])
	assert.Nil(t, rs.Rows[1]["title"], "employee without a role is still listed")
}

func TestCompany_EmployeeQueryUsesLeftJoins(t *testing.T) {
	assert.Contains(t, selectEmployees.SQL, "LEFT JOIN role ON employee.role_id = role.id")
	assert.Contains(t, selectEmployees.SQL, "LEFT JOIN department ON role.department_id = department.id")
	assert.Contains(t, selectEmployees.SQL, "LEFT JOIN employee manager ON employee.manager_id = manager.id")
	assert.Contains(t, selectRoles.SQL, "INNER JOIN department ON role.department_id = department.id")
}

func TestCompany_AddRole(t *testing.T) {
	c, mock := newMockCompany(t)

	mock.ExpectExec(regexp.QuoteMeta(insertRole.SQL)).
		WithArgs("Counsel", "95000.50", "4").
		WillReturnResult(sqlmock.NewResult(4, 1))

	err := c.AddRole(context.Background(), NewRole{Title: "Counsel", Salary: "95000.50", DepartmentID: "4"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompany_AddEmployeeWithoutManager(t *testing.T) {
	c, mock := newMockCompany(t)

	mock.ExpectExec(regexp.QuoteMeta(insertEmployee.SQL)).
		WithArgs("Ann", "Lee", "2", nil).
		WillReturnResult(sqlmock.NewResult(4, 1))

	err := c.AddEmployee(context.Background(), NewEmployee{FirstName: "Ann", LastName: "Lee", RoleID: "2"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompany_AddEmployeeWithManager(t *testing.T) {
	c, mock := newMockCompany(t)

	manager := "1"
	mock.ExpectExec(regexp.QuoteMeta(insertEmployee.SQL)).
		WithArgs("Ann", "Lee", "2", "1").
		WillReturnResult(sqlmock.NewResult(4, 1))

	err := c.AddEmployee(context.Background(), NewEmployee{FirstName: "Ann", LastName: "Lee", RoleID: "2", ManagerID: &manager})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompany_UpdateEmployeeRoleArgOrder(t *testing.T) {
	c, mock := newMockCompany(t)

	// SET role_id = $1 WHERE id = $2
	mock.ExpectExec(regexp.QuoteMeta(updateEmployeeRole.SQL)).
		WithArgs("3", "99").
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := c.UpdateEmployeeRole(context.Background(), "99", "3")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompany_PreChecks(t *testing.T) {
	c, mock := newMockCompany(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(departmentNameTaken.SQL)).WithArgs("HR").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(departmentExists.SQL)).WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(roleExists.SQL)).WithArgs("42").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta(employeeExists.SQL)).WithArgs("2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := c.DepartmentNameTaken(ctx, "HR")
	require.NoError(t, err)
	assert.True(t, taken)

	ok, err := c.DepartmentExists(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.RoleExists(ctx, "42")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.EmployeeExists(ctx, "2")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

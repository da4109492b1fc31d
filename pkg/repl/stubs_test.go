package repl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/soypete/employee-tracker/pkg/config"
	"github.com/soypete/employee-tracker/pkg/store"
)

type stubStore struct {
	listDepartmentsFn     func(ctx context.Context) (store.ResultSet, error)
	listRolesFn           func(ctx context.Context) (store.ResultSet, error)
	listEmployeesFn       func(ctx context.Context) (store.ResultSet, error)
	departmentNameTakenFn func(ctx context.Context, name string) (bool, error)
	departmentExistsFn    func(ctx context.Context, id string) (bool, error)
	roleExistsFn          func(ctx context.Context, id string) (bool, error)
	employeeExistsFn      func(ctx context.Context, id string) (bool, error)
	addDepartmentFn       func(ctx context.Context, name string) error
	addRoleFn             func(ctx context.Context, r store.NewRole) error
	addEmployeeFn         func(ctx context.Context, e store.NewEmployee) error
	updateEmployeeRoleFn  func(ctx context.Context, employeeID, roleID string) (int64, error)

	calls []string
}

func (s *stubStore) record(name string) { s.calls = append(s.calls, name) }

func (s *stubStore) ListDepartments(ctx context.Context) (store.ResultSet, error) {
	s.record("ListDepartments")
	if s.listDepartmentsFn == nil {
		return store.ResultSet{}, nil
	}
	return s.listDepartmentsFn(ctx)
}

func (s *stubStore) ListRoles(ctx context.Context) (store.ResultSet, error) {
	s.record("ListRoles")
	if s.listRolesFn == nil {
		return store.ResultSet{}, nil
	}
	return s.listRolesFn(ctx)
}

func (s *stubStore) ListEmployees(ctx context.Context) (store.ResultSet, error) {
	s.record("ListEmployees")
	if s.listEmployeesFn == nil {
		return store.ResultSet{}, nil
	}
	return s.listEmployeesFn(ctx)
}

func (s *stubStore) DepartmentNameTaken(ctx context.Context, name string) (bool, error) {
	s.record("DepartmentNameTaken")
	if s.departmentNameTakenFn == nil {
		return false, nil
	}
	return s.departmentNameTakenFn(ctx, name)
}

func (s *stubStore) DepartmentExists(ctx context.Context, id string) (bool, error) {
	s.record("DepartmentExists")
	if s.departmentExistsFn == nil {
		return true, nil
	}
	return s.departmentExistsFn(ctx, id)
}

func (s *stubStore) RoleExists(ctx context.Context, id string) (bool, error) {
	s.record("RoleExists")
	if s.roleExistsFn == nil {
		return true, nil
	}
	return s.roleExistsFn(ctx, id)
}

func (s *stubStore) EmployeeExists(ctx context.Context, id string) (bool, error) {
	s.record("EmployeeExists")
	if s.employeeExistsFn == nil {
		return true, nil
	}
	return s.employeeExistsFn(ctx, id)
}

func (s *stubStore) AddDepartment(ctx context.Context, name string) error {
	s.record("AddDepartment")
	if s.addDepartmentFn == nil {
		return nil
	}
	return s.addDepartmentFn(ctx, name)
}

func (s *stubStore) AddRole(ctx context.Context, r store.NewRole) error {
	s.record("AddRole")
	if s.addRoleFn == nil {
		return nil
	}
	return s.addRoleFn(ctx, r)
}

func (s *stubStore) AddEmployee(ctx context.Context, e store.NewEmployee) error {
	s.record("AddEmployee")
	if s.addEmployeeFn == nil {
		return nil
	}
	return s.addEmployeeFn(ctx, e)
}

func (s *stubStore) UpdateEmployeeRole(ctx context.Context, employeeID, roleID string) (int64, error) {
	s.record("UpdateEmployeeRole")
	if s.updateEmployeeRoleFn == nil {
		return 1, nil
	}
	return s.updateEmployeeRoleFn(ctx, employeeID, roleID)
}

// step is one scripted answer: a menu choice, a text answer, or an error.
type step struct {
	choice string
	text   string
	err    error
}

func choose(label string) step { return step{choice: label} }
func answer(text string) step { return step{text: text} }
func fail(err error) step { return step{err: err} }

// scriptedPrompter replays steps and returns io.EOF once they run out.
type scriptedPrompter struct {
	t        *testing.T
	steps    []step
	messages []string
}

func (p *scriptedPrompter) pop() (step, bool) {
	if len(p.steps) == 0 {
		return step{}, false
	}
	s := p.steps[0]
	p.steps = p.steps[1:]
	return s, true
}

func (p *scriptedPrompter) Select(message string, options []string) (int, error) {
	p.messages = append(p.messages, message)
	s, ok := p.pop()
	if !ok {
		return -1, io.EOF
	}
	if s.err != nil {
		return -1, s.err
	}
	for i, opt := range options {
		if opt == s.choice {
			return i, nil
		}
	}
	p.t.Fatalf("scripted choice %q is not a menu option", s.choice)
	return -1, nil
}

func (p *scriptedPrompter) Input(message, defaultValue string) (string, error) {
	p.messages = append(p.messages, message)
	s, ok := p.pop()
	if !ok {
		return "", io.EOF
	}
	if s.err != nil {
		return "", s.err
	}
	if s.choice != "" {
		p.t.Fatalf("expected a text answer for %q, got menu choice %q", message, s.choice)
	}
	if s.text == "" {
		return defaultValue, nil
	}
	return s.text, nil
}

type harness struct {
	console *Console
	store   *stubStore
	prompt  *scriptedPrompter
	out     *bytes.Buffer
}

func newHarness(t *testing.T, s *stubStore, mode config.ValidationMode, steps ...step) *harness {
	t.Helper()

	out := &bytes.Buffer{}
	output := NewOutput(true)
	output.SetWriter(out)

	prompt := &scriptedPrompter{t: t, steps: steps}
	console := NewConsole(s, prompt, output, Options{
		Validation: mode,
		Logger:     zerolog.Nop(),
	})

	return &harness{console: console, store: s, prompt: prompt, out: out}
}

func (h *harness) run(t *testing.T) error {
	t.Helper()
	return h.console.Run(context.Background())
}

func (h *harness) String() string {
	return fmt.Sprintf("output:\n%s\ncalls: %v", h.out.String(), h.store.calls)
}

// Package repl runs the interactive menu over the company store.
package repl

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/soypete/employee-tracker/pkg/apperror"
	"github.com/soypete/employee-tracker/pkg/config"
	"github.com/soypete/employee-tracker/pkg/store"
)

// MenuPrompt is the question shown above the main menu.
const MenuPrompt = "What would you like to do?"

// Store is the set of company statements the console needs.
type Store interface {
	ListDepartments(ctx context.Context) (store.ResultSet, error)
	ListRoles(ctx context.Context) (store.ResultSet, error)
	ListEmployees(ctx context.Context) (store.ResultSet, error)
	DepartmentNameTaken(ctx context.Context, name string) (bool, error)
	DepartmentExists(ctx context.Context, id string) (bool, error)
	RoleExists(ctx context.Context, id string) (bool, error)
	EmployeeExists(ctx context.Context, id string) (bool, error)
	AddDepartment(ctx context.Context, name string) error
	AddRole(ctx context.Context, r store.NewRole) error
	AddEmployee(ctx context.Context, e store.NewEmployee) error
	UpdateEmployeeRole(ctx context.Context, employeeID, roleID string) (int64, error)
}

// next tells the loop what to do after a handler returns.
type next int

const (
	showMenu next = iota
	exitConsole
)

// Options configures a Console.
type Options struct {
	Validation config.ValidationMode
	Logger     zerolog.Logger
	Session    *SessionLog
}

// Console is the menu loop
type Console struct {
	store   Store
	prompt  Prompter
	output  *Output
	fields  fieldParser
	log     zerolog.Logger
	session *SessionLog
	items   []menuItem
}

// NewConsole creates a console over s
func NewConsole(s Store, prompt Prompter, output *Output, opts Options) *Console {
	c := &Console{
		store:   s,
		prompt:  prompt,
		output:  output,
		fields:  fieldParser{mode: opts.Validation},
		log:     opts.Logger,
		session: opts.Session,
	}
	c.items = c.menu()
	return c
}

// MenuOptions returns the menu entries in display order.
func (c *Console) MenuOptions() []string {
	opts := make([]string, len(c.items))
	for i, item := range c.items {
		opts[i] = item.label
	}
	return opts
}

// Run shows the menu until the user exits. It returns nil on exit and the
// error that stopped it otherwise. Errors the user can fix are reported and
// the menu is shown again.
func (c *Console) Run(ctx context.Context) error {
	options := c.MenuOptions()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		idx, err := c.prompt.Select(MenuPrompt, options)
		if err != nil {
			if errors.Is(err, ErrCancelled) {
				continue
			}
			if errors.Is(err, io.EOF) {
				c.goodbye()
				return nil
			}
			return err
		}

		item := c.items[idx]
		c.log.Debug().Str("action", item.label).Msg("dispatch")

		step, err := item.run(ctx)
		c.session.Record(item.label, err)

		if err != nil {
			switch {
			case errors.Is(err, ErrCancelled):
				c.output.PrintWarning("Cancelled.\n")
				continue
			case errors.Is(err, io.EOF):
				c.goodbye()
				return nil
			case apperror.IsRecoverable(err):
				c.output.PrintError("Error: %s\n", apperror.Message(err))
				continue
			default:
				c.log.Error().Err(err).Str("action", item.label).Msg("action failed")
				return err
			}
		}

		if step == exitConsole {
			return nil
		}
	}
}

func (c *Console) goodbye() {
	c.output.PrintMessage("Goodbye!\n")
}

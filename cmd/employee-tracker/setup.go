package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soypete/employee-tracker/pkg/database"
)

func setupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the database, apply the schema and load sample data",
		Long: `Run the startup steps without opening the menu. Safe to repeat: an
existing database, schema or sample row is left as it is.`,
		Args: cobra.NoArgs,
		RunE: runSetup,
	}
}

func runSetup(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.closeLog()

	ctx, stop := signalContext(cmd)
	defer stop()

	db, err := provision(ctx, a)
	if err != nil {
		return err
	}
	return db.Close()
}

// provision ensures the database exists, connects, applies the schema and
// seeds it, printing a status line after each step. Any failure is fatal to
// the caller; on error no connection is left open.
func provision(ctx context.Context, a *app) (*database.DB, error) {
	name := a.cfg.Database.Name

	var created bool
	err := a.out.Spin("Checking database", func() (err error) {
		created, err = database.EnsureDatabase(ctx, a.cfg.Database, a.log)
		return err
	})
	if err != nil {
		return nil, err
	}
	if created {
		a.out.PrintSuccess("Database `%s` created successfully!\n", name)
	} else {
		a.out.PrintMessage("Database `%s` already exists.\n", name)
	}

	var db *database.DB
	err = a.out.Spin("Connecting", func() (err error) {
		db, err = database.Open(ctx, a.cfg.Database, a.log)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.out.PrintMessage("Connected to the %s database.\n", name)

	if err := a.out.Spin("Applying schema", func() error { return db.Migrate(ctx) }); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	a.out.PrintSuccess("Database initialized successfully!\n")

	if err := a.out.Spin("Loading sample data", func() error { return db.Seed(ctx) }); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to insert sample data: %w", err)
	}
	a.out.PrintSuccess("Sample data inserted successfully!\n")

	return db, nil
}

// employee-tracker is an interactive console for managing the departments,
// roles and employees of a company stored in PostgreSQL.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/soypete/employee-tracker/pkg/config"
	"github.com/soypete/employee-tracker/pkg/logging"
	"github.com/soypete/employee-tracker/pkg/repl"
	"github.com/soypete/employee-tracker/pkg/store"
)

var (
	// Global flags
	configFile string
	envFile    string
	noColor    bool
	debug      bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "employee-tracker",
		Short: "Manage departments, roles and employees",
		Long: `employee-tracker provisions the company database on first run, loads a
small set of sample rows, and then shows a menu for viewing and editing
departments, roles and employees.

Connection settings come from employee-tracker.yaml, a .env file or the
environment (DATABASE_URL, DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runConsole,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: employee-tracker.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file (default: .env if present)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log every statement at debug level")

	rootCmd.AddCommand(setupCmd())

	return rootCmd
}

// app holds what every command needs after startup.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	out      *repl.Output
	closeLog func() error
}

// loadApp resolves configuration in precedence order (defaults, file, .env,
// environment, flags) and builds the logger and output.
func loadApp() (*app, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}

	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if debug {
		cfg.Log.Level = zerolog.LevelDebugValue
	}
	if noColor {
		cfg.REPL.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("database", cfg.Database.Redacted()).
		Str("validation", string(cfg.Validation.Mode)).
		Msg("configuration loaded")

	return &app{
		cfg:      cfg,
		log:      log,
		out:      repl.NewOutput(cfg.REPL.NoColor),
		closeLog: closeLog,
	}, nil
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}

func runConsole(cmd *cobra.Command, args []string) error {
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
	defer func() {
		if err := db.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing database")
		}
	}()

	input, err := repl.NewInputHandler(a.cfg.REPL.HistoryFile, a.out.Writer())
	if err != nil {
		return err
	}
	defer input.Close()

	var session *repl.SessionLog
	if a.cfg.REPL.SessionLog {
		session, err = repl.NewSessionLog(a.cfg.REPL.SessionDir)
		if err != nil {
			return err
		}
		defer session.Close()
		a.log.Debug().Str("path", session.Path()).Msg("session log opened")
	}

	console := repl.NewConsole(store.NewCompany(db.DB, a.log), input, a.out, repl.Options{
		Validation: a.cfg.Validation.Mode,
		Logger:     a.log,
		Session:    session,
	})

	return console.Run(ctx)
}

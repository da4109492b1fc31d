// Package database provisions the company database: it creates the database
// when missing, applies the embedded schema and loads the sample rows.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/soypete/employee-tracker/pkg/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	driverName  = "postgres"
	pingTimeout = 5 * time.Second
)

// DB is the single store connection shared by the console for the process lifetime.
type DB struct {
	*sqlx.DB
	name     string
	log      zerolog.Logger
	mu       sync.Mutex
	migrated bool
	closed   bool
}

// queryExecer is the subset of *sql.DB used while provisioning.
type queryExecer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// EnsureDatabase connects to the maintenance database and creates cfg.Name if
// it does not exist. It reports whether the database was created. The
// maintenance connection is closed before returning, on every path.
func EnsureDatabase(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (created bool, err error) {
	admin, err := sql.Open(driverName, cfg.DSN(cfg.AdminName))
	if err != nil {
		return false, fmt.Errorf("failed to open maintenance database: %w", err)
	}
	defer func() {
		if cerr := admin.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("closing maintenance connection")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := admin.PingContext(pingCtx); err != nil {
		return false, fmt.Errorf("failed to connect to %s: %w", cfg.AdminName, err)
	}

	log.Debug().Str("database", cfg.Name).Msg("checking database exists")
	return ensureDatabase(ctx, admin, cfg.Name)
}

func ensureDatabase(ctx context.Context, admin queryExecer, name string) (bool, error) {
	var one int
	err := admin.QueryRowContext(ctx, "SELECT 1 FROM pg_database WHERE datname = $1", name).Scan(&one)
	switch {
	case err == nil:
		return false, nil
	case err != sql.ErrNoRows:
		return false, fmt.Errorf("failed to look up database %s: %w", name, err)
	}

	// CREATE DATABASE takes no bind parameters.
	if _, err := admin.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name)); err != nil {
		return false, fmt.Errorf("failed to create database %s: %w", name, err)
	}
	return true, nil
}

// Open connects to the target database. The pool is pinned to one
// connection so statements are never in flight concurrently.
func Open(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*DB, error) {
	db, err := sql.Open(driverName, cfg.DSN(cfg.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Debug().Str("dsn", cfg.Redacted()).Msg("connected")

	return New(db, cfg.Name, log), nil
}

// New wraps an open *sql.DB.
func New(db *sql.DB, name string, log zerolog.Logger) *DB {
	return &DB{
		DB:   sqlx.NewDb(db, driverName),
		name: name,
		log:  log,
	}
}

// Name returns the database name.
func (d *DB) Name() string {
	return d.name
}

// Migrate creates the department, role and employee tables if they do not
// exist. Running it again is a no-op.
func (d *DB) Migrate(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.migrated {
		return nil
	}

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{log: d.log})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, d.DB.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	d.migrated = true
	return nil
}

// Close releases the store connection. Calls after the first are no-ops.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.DB.Close()
}

// gooseLogger routes goose's progress lines into the diagnostic log.
type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables recognised by ApplyEnv.
const (
	EnvDatabaseURL    = "DATABASE_URL"
	EnvHost           = "DB_HOST"
	EnvPort           = "DB_PORT"
	EnvUser           = "DB_USER"
	EnvPassword       = "DB_PASSWORD"
	EnvName           = "DB_NAME"
	EnvAdminName      = "DB_ADMIN_NAME"
	EnvSSLMode        = "DB_SSLMODE"
	EnvValidationMode = "TRACKER_VALIDATION_MODE"
	EnvLogLevel       = "TRACKER_LOG_LEVEL"
)

// LoadEnvFile loads KEY=VALUE pairs into the process environment without
// overriding variables that are already set. An empty path means ".env",
// which may be absent.
func LoadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides configuration values from the environment.
// DATABASE_URL is applied first so the individual DB_* variables can refine it.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return strings.TrimSpace(v), true
	}

	if v, ok := get(EnvDatabaseURL); ok {
		if err := c.Database.applyURL(v); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDatabaseURL, err)
		}
	}

	if v, ok := get(EnvHost); ok {
		c.Database.Host = v
	}
	if v, ok := get(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %q is not a number", EnvPort, v)
		}
		c.Database.Port = port
	}
	if v, ok := get(EnvUser); ok {
		c.Database.User = v
	}
	if v, ok := lookup(EnvPassword); ok {
		c.Database.Password = v
	}
	if v, ok := get(EnvName); ok {
		c.Database.Name = v
	}
	if v, ok := get(EnvAdminName); ok {
		c.Database.AdminName = v
	}
	if v, ok := get(EnvSSLMode); ok {
		c.Database.SSLMode = v
	}
	if v, ok := get(EnvValidationMode); ok {
		c.Validation.Mode = ValidationMode(strings.ToLower(v))
	}
	if v, ok := get(EnvLogLevel); ok {
		c.Log.Level = strings.ToLower(v)
	}

	return nil
}

// applyURL copies the parts of a postgres:// URL into the config.
func (d *DatabaseConfig) applyURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	if host := u.Hostname(); host != "" {
		d.Host = host
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid port %q", p)
		}
		d.Port = port
	}
	if u.User != nil {
		d.User = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			d.Password = pw
		}
	}
	if name := strings.TrimPrefix(u.Path, "/"); name != "" {
		d.Name = name
	}
	if mode := u.Query().Get("sslmode"); mode != "" {
		d.SSLMode = mode
	}
	return nil
}

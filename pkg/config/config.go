package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory, then in $HOME with a leading dot.
const DefaultFileName = "employee-tracker.yaml"

// ValidationMode controls how free-text answers are checked before they reach the store.
type ValidationMode string

const (
	// ValidationStrict parses and range-checks every field at the prompt boundary.
	ValidationStrict ValidationMode = "strict"
	// ValidationPermissive passes raw text to the store and lets it coerce or reject.
	ValidationPermissive ValidationMode = "permissive"
)

// Config represents the employee-tracker configuration
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Validation ValidationConfig `yaml:"validation"`
	Log        LogConfig        `yaml:"log"`
	REPL       REPLConfig       `yaml:"repl"`
}

// DatabaseConfig holds the connection parameters for the company store
type DatabaseConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	Name      string `yaml:"name"`
	AdminName string `yaml:"admin_name"` // maintenance database used to create Name
	SSLMode   string `yaml:"ssl_mode"`
}

// ValidationConfig contains input validation settings
type ValidationConfig struct {
	Mode ValidationMode `yaml:"mode"`
}

// LogConfig contains diagnostic logging settings
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"` // empty means stderr
}

// REPLConfig contains interactive console settings
type REPLConfig struct {
	HistoryFile string `yaml:"history_file,omitempty"`
	SessionLog  bool   `yaml:"session_log"`
	SessionDir  string `yaml:"session_dir,omitempty"`
	NoColor     bool   `yaml:"no_color"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := validateDocument(data); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.setDefaults()

	return &config, nil
}

// LoadDefault loads employee-tracker.yaml from the current directory or
// .employee-tracker.yaml from home. With neither present the defaults are used.
func LoadDefault() (*Config, error) {
	if _, err := os.Stat(DefaultFileName); err == nil {
		return Load(DefaultFileName)
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homePath := filepath.Join(home, "."+DefaultFileName)
		if _, err := os.Stat(homePath); err == nil {
			return Load(homePath)
		}
	}

	return Default(), nil
}

// setDefaults sets default values for configuration
func (c *Config) setDefaults() {
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "postgres"
	}
	if c.Database.Password == "" {
		c.Database.Password = "postgres"
	}
	if c.Database.Name == "" {
		c.Database.Name = "company_db"
	}
	if c.Database.AdminName == "" {
		c.Database.AdminName = "postgres"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Validation.Mode == "" {
		c.Validation.Mode = ValidationStrict
	}

	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}

	if c.REPL.SessionDir == "" {
		c.REPL.SessionDir = filepath.Join(os.TempDir(), "employee-tracker-sessions")
	}
	if c.REPL.HistoryFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.REPL.HistoryFile = filepath.Join(home, ".employee_tracker_history")
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d (must be 1-65535)", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.AdminName == c.Database.Name {
		return fmt.Errorf("admin database must differ from the target database %q", c.Database.Name)
	}

	switch c.Validation.Mode {
	case ValidationStrict, ValidationPermissive:
	default:
		return fmt.Errorf("invalid validation mode: %s (must be 'strict' or 'permissive')", c.Validation.Mode)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	return nil
}

// DSN returns a lib/pq connection URL for the named database on the configured server.
func (d DatabaseConfig) DSN(database string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + database,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// Redacted returns the target DSN with the password masked, for logs.
func (d DatabaseConfig) Redacted() string {
	u, err := url.Parse(d.DSN(d.Name))
	if err != nil {
		return ""
	}
	return u.Redacted()
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tictot/internal/logging"
	"tictot/internal/repository/sqlite"
)

// Config holds all configuration options for tictot
type Config struct {
	Database    DatabaseConfig    `mapstructure:"database"`
	Session     SessionConfig     `mapstructure:"session"`
	Validation  ValidationConfig  `mapstructure:"validation"`
	Display     DisplayConfig     `mapstructure:"display"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Application ApplicationConfig `mapstructure:"application"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir         string        `mapstructure:"dir"`
	Filename    string        `mapstructure:"filename"`
	InMemory    bool          `mapstructure:"in_memory"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

// SessionConfig holds session behaviour
type SessionConfig struct {
	DefaultTask   string `mapstructure:"default_task"`
	StrictUpdates bool   `mapstructure:"strict_updates"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TaskNameMaxLength int `mapstructure:"task_name_max_length"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	RefreshRate int    `mapstructure:"refresh_rate"` // Hz
	ClockFormat string `mapstructure:"clock_format"`
	DateFormat  string `mapstructure:"date_format"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultDir is the data directory under the user's home.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".tictot"
	}
	return filepath.Join(homeDir, ".tictot")
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Dir:         DefaultDir(),
			Filename:    "tictot.db",
			InMemory:    false,
			BusyTimeout: 5 * time.Second,
		},
		Session: SessionConfig{
			DefaultTask:   "Default",
			StrictUpdates: false,
		},
		Validation: ValidationConfig{
			TaskNameMaxLength: 255,
		},
		Display: DisplayConfig{
			RefreshRate: 60,
			ClockFormat: "15:04",
			DateFormat:  "Mon, Jan 02",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
		Application: ApplicationConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	if c.Database.InMemory {
		return sqlite.InMemoryPath
	}
	return filepath.Join(expandHome(c.Database.Dir), c.Database.Filename)
}

// GetLogPath returns the log file, defaulting to tictot.log in the data directory
func (c *Config) GetLogPath() string {
	if c.Logging.File != "" {
		return expandHome(c.Logging.File)
	}
	return filepath.Join(expandHome(c.Database.Dir), "tictot.log")
}

// RefreshInterval is the display tick derived from the refresh rate
func (c *Config) RefreshInterval() time.Duration {
	if c.Display.RefreshRate <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(c.Display.RefreshRate)
}

// LoggingSettings converts the logging section for the logging package
func (c *Config) LoggingSettings() logging.Config {
	return logging.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		File:   c.GetLogPath(),
	}
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if !c.Database.InMemory {
		if c.Database.Dir == "" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
	}
	if c.Database.BusyTimeout < 0 {
		return &ConfigError{Field: "database.busy_timeout", Message: "busy timeout cannot be negative"}
	}

	if strings.TrimSpace(c.Session.DefaultTask) == "" {
		return &ConfigError{Field: "session.default_task", Message: "default task name cannot be empty"}
	}

	if c.Validation.TaskNameMaxLength < 1 {
		return &ConfigError{Field: "validation.task_name_max_length", Message: "task name maximum length must be at least 1"}
	}
	if len([]rune(strings.TrimSpace(c.Session.DefaultTask))) > c.Validation.TaskNameMaxLength {
		return &ConfigError{Field: "session.default_task", Message: "default task name exceeds the maximum task name length"}
	}

	if c.Display.RefreshRate < 1 || c.Display.RefreshRate > 120 {
		return &ConfigError{Field: "display.refresh_rate", Message: "refresh rate must be between 1 and 120"}
	}
	if c.Display.ClockFormat == "" {
		return &ConfigError{Field: "display.clock_format", Message: "clock format cannot be empty"}
	}
	if c.Display.DateFormat == "" {
		return &ConfigError{Field: "display.date_format", Message: "date format cannot be empty"}
	}

	if !logging.IsValidLevel(c.Logging.Level) {
		return &ConfigError{Field: "logging.level", Message: "level must be one of debug, info, warn, error"}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "format must be text or json"}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// YAML renders the effective configuration. Durations are written in
// time.ParseDuration form so the output can be used as a config file.
func (c *Config) YAML() ([]byte, error) {
	doc := map[string]interface{}{
		"database": map[string]interface{}{
			"dir":          c.Database.Dir,
			"filename":     c.Database.Filename,
			"in_memory":    c.Database.InMemory,
			"busy_timeout": c.Database.BusyTimeout.String(),
		},
		"session": map[string]interface{}{
			"default_task":   c.Session.DefaultTask,
			"strict_updates": c.Session.StrictUpdates,
		},
		"validation": map[string]interface{}{
			"task_name_max_length": c.Validation.TaskNameMaxLength,
		},
		"display": map[string]interface{}{
			"refresh_rate": c.Display.RefreshRate,
			"clock_format": c.Display.ClockFormat,
			"date_format":  c.Display.DateFormat,
		},
		"logging": map[string]interface{}{
			"level":  c.Logging.Level,
			"format": c.Logging.Format,
			"file":   c.GetLogPath(),
		},
		"application": map[string]interface{}{
			"timeout": c.Application.Timeout.String(),
		},
	}
	return yaml.Marshal(doc)
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

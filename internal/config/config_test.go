package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"tictot/internal/repository/sqlite"
)

func TestNewConfig_IsValid(t *testing.T) {
	cfg := NewConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, filepath.Join(DefaultDir(), "tictot.db"), cfg.GetDatabasePath())
	assert.Equal(t, filepath.Join(DefaultDir(), "tictot.log"), cfg.GetLogPath())
	assert.Equal(t, time.Second/60, cfg.RefreshInterval())
}

func TestConfig_GetDatabasePath_InMemory(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.InMemory = true
	cfg.Database.Dir = ""

	assert.Equal(t, sqlite.InMemoryPath, cfg.GetDatabasePath())
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"empty dir", func(c *Config) { c.Database.Dir = "" }, "database.dir"},
		{"empty filename", func(c *Config) { c.Database.Filename = "" }, "database.filename"},
		{"negative busy timeout", func(c *Config) { c.Database.BusyTimeout = -time.Second }, "database.busy_timeout"},
		{"blank default task", func(c *Config) { c.Session.DefaultTask = " " }, "session.default_task"},
		{"default task too long", func(c *Config) { c.Validation.TaskNameMaxLength = 3 }, "session.default_task"},
		{"zero max length", func(c *Config) { c.Validation.TaskNameMaxLength = 0 }, "validation.task_name_max_length"},
		{"refresh rate too high", func(c *Config) { c.Display.RefreshRate = 500 }, "display.refresh_rate"},
		{"empty clock format", func(c *Config) { c.Display.ClockFormat = "" }, "display.clock_format"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"zero timeout", func(c *Config) { c.Application.Timeout = 0 }, "application.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestConfig_YAML(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.Dir = "/data/tictot"

	out, err := cfg.YAML()
	require.NoError(t, err)

	var doc map[string]map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, "/data/tictot", doc["database"]["dir"])
	assert.Equal(t, "5s", doc["database"]["busy_timeout"])
	assert.Equal(t, "/data/tictot/tictot.log", doc["logging"]["file"])
	assert.Equal(t, 60, doc["display"]["refresh_rate"])
}

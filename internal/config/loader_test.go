package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TICTOT_DATABASE_DIR", dir)

	cfg, err := NewLoader().Load()

	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Database.Dir)
	assert.Equal(t, "tictot.db", cfg.Database.Filename)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
	assert.Equal(t, "Default", cfg.Session.DefaultTask)
	assert.Equal(t, 60, cfg.Display.RefreshRate)
}

func TestLoader_EnvOverrides(t *testing.T) {
	t.Setenv("TICTOT_DATABASE_DIR", t.TempDir())

	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(*Config) interface{}
		want   interface{}
	}{
		{"in memory", "TICTOT_DATABASE_IN_MEMORY", "true", func(c *Config) interface{} { return c.Database.InMemory }, true},
		{"busy timeout", "TICTOT_DATABASE_BUSY_TIMEOUT", "250ms", func(c *Config) interface{} { return c.Database.BusyTimeout }, 250 * time.Millisecond},
		{"strict updates", "TICTOT_SESSION_STRICT_UPDATES", "1", func(c *Config) interface{} { return c.Session.StrictUpdates }, true},
		{"default task", "TICTOT_SESSION_DEFAULT_TASK", "Inbox", func(c *Config) interface{} { return c.Session.DefaultTask }, "Inbox"},
		{"refresh rate", "TICTOT_DISPLAY_REFRESH_RATE", "30", func(c *Config) interface{} { return c.Display.RefreshRate }, 30},
		{"log format", "TICTOT_LOGGING_FORMAT", "json", func(c *Config) interface{} { return c.Logging.Format }, "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := NewLoader().Load()

			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.field(cfg))
		})
	}
}

func TestLoader_ConfigFileInDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TICTOT_DATABASE_DIR", dir)
	content := "session:\n  default_task: Admin\ndisplay:\n  refresh_rate: 10\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	loader := NewLoader()
	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, "Admin", cfg.Session.DefaultTask)
	assert.Equal(t, 10, cfg.Display.RefreshRate)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), loader.ConfigFileUsed())
}

func TestLoader_EnvBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TICTOT_DATABASE_DIR", dir)
	t.Setenv("TICTOT_SESSION_DEFAULT_TASK", "FromEnv")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("session:\n  default_task: FromFile\n"), 0644))

	cfg, err := NewLoader().Load()

	require.NoError(t, err)
	assert.Equal(t, "FromEnv", cfg.Session.DefaultTask)
}

func TestLoader_ExplicitConfigFileMissing(t *testing.T) {
	loader := NewLoader()
	loader.SetConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := loader.Load()

	assert.Error(t, err)
}

func TestLoader_FlagOverride(t *testing.T) {
	t.Setenv("TICTOT_DATABASE_DIR", t.TempDir())
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("in-memory", false, "")
	require.NoError(t, flags.Parse([]string{"--in-memory"}))

	loader := NewLoader()
	require.NoError(t, loader.BindFlag("database.in_memory", flags.Lookup("in-memory")))
	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.True(t, cfg.Database.InMemory)
	assert.Error(t, loader.BindFlag("database.dir", nil))
}

func TestLoader_InvalidValueFailsValidation(t *testing.T) {
	t.Setenv("TICTOT_DATABASE_DIR", t.TempDir())
	t.Setenv("TICTOT_LOGGING_LEVEL", "chatty")

	_, err := NewLoader().Load()

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "logging.level", cfgErr.Field)
}

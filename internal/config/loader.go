package config

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TICTOT_DATABASE_DIR.
const EnvPrefix = "TICTOT"

// Loader handles loading configuration from multiple sources
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader creates a loader with defaults registered
func NewLoader() *Loader {
	v := viper.New()
	registerDefaults(v, NewConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

func registerDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("database.dir", d.Database.Dir)
	v.SetDefault("database.filename", d.Database.Filename)
	v.SetDefault("database.in_memory", d.Database.InMemory)
	v.SetDefault("database.busy_timeout", d.Database.BusyTimeout)
	v.SetDefault("session.default_task", d.Session.DefaultTask)
	v.SetDefault("session.strict_updates", d.Session.StrictUpdates)
	v.SetDefault("validation.task_name_max_length", d.Validation.TaskNameMaxLength)
	v.SetDefault("display.refresh_rate", d.Display.RefreshRate)
	v.SetDefault("display.clock_format", d.Display.ClockFormat)
	v.SetDefault("display.date_format", d.Display.DateFormat)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("application.timeout", d.Application.Timeout)
}

// SetConfigFile uses path instead of config.yaml in the data directory.
// A missing explicit file is an error; a missing default file is not.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// BindFlag lets a command line flag override key when the flag is set
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag to bind for %s", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load applies the cascade: defaults, config file, environment, flags.
// The result is validated.
func (l *Loader) Load() (*Config, error) {
	if err := l.readConfigFile(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFileUsed returns the config file that was read, if any
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) readConfigFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", l.configFile, err)
		}
		return nil
	}

	l.v.SetConfigName("config")
	l.v.SetConfigType("yaml")
	l.v.AddConfigPath(expandHome(l.v.GetString("database.dir")))

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if stderrors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}

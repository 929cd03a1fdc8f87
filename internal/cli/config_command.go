package cli

import (
	"fmt"
	"io"

	"tictot/internal/config"
)

// ConfigCommand prints the effective configuration as YAML
type ConfigCommand struct {
	config   *config.Config
	fileUsed string
	out      io.Writer
}

// NewConfigCommand creates a new config command handler
func NewConfigCommand(cfg *config.Config, fileUsed string, out io.Writer) *ConfigCommand {
	return &ConfigCommand{config: cfg, fileUsed: fileUsed, out: out}
}

// Execute runs the config command
func (c *ConfigCommand) Execute() error {
	data, err := c.config.YAML()
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	if c.fileUsed != "" {
		fmt.Fprintf(c.out, "# config file: %s\n", c.fileUsed)
	}
	_, err = c.out.Write(data)
	return err
}

package config

import (
	"fmt"
	"slices"
	"strings"
)

var (
	logLevels     = []string{"debug", "info", "warn", "error"}
	logFormats    = []string{"console", "json"}
	exportFormats = []string{"csv", "json", "jsonl", "xlsx"}
	storeDrivers  = []string{"sqlite", "postgres"}
	tableStyles   = []string{"default", "light", "rounded", "bold", "double"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := oneOf("log.level", c.Log.Level, logLevels); err != nil {
		return err
	}
	if err := oneOf("log.format", c.Log.Format, logFormats); err != nil {
		return err
	}
	if err := oneOf("export.format", c.Export.Format, exportFormats); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	return oneOf("display.style", c.Display.Style, tableStyles)
}

func (c *Config) validateStore() error {
	if err := oneOf("store.driver", c.Store.Driver, storeDrivers); err != nil {
		return err
	}
	if c.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required for driver %s (or set %s)", c.Store.Driver, dsnEnv)
	}
	if c.Store.PageSize < 0 {
		return fmt.Errorf("store.page_size must be positive, got %d", c.Store.PageSize)
	}
	return nil
}

func oneOf(key, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%s: unsupported value %q (want one of %s)", key, value, strings.Join(allowed, ", "))
}

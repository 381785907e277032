package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeLog()
	if err := c.normalizeExport(); err != nil {
		return err
	}
	if err := c.normalizeStore(); err != nil {
		return err
	}
	c.Display.Style = lower(c.Display.Style)
	return nil
}

func (c *Config) normalizeLog() {
	c.Log.Level = lower(c.Log.Level)
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	c.Log.Format = lower(c.Log.Format)
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
}

func (c *Config) normalizeExport() error {
	c.Export.Format = strings.TrimPrefix(lower(c.Export.Format), ".")
	if c.Export.Format == "" {
		c.Export.Format = defaultExportFmt
	}

	cols := c.Export.Columns[:0]
	for _, col := range c.Export.Columns {
		if col = strings.TrimSpace(col); col != "" {
			cols = append(cols, col)
		}
	}
	c.Export.Columns = cols

	var err error
	if c.Export.OutputDir, err = expandPath(strings.TrimSpace(c.Export.OutputDir)); err != nil {
		return fmt.Errorf("export.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStore() error {
	c.Store.Driver = lower(c.Store.Driver)
	switch c.Store.Driver {
	case "":
		c.Store.Driver = defaultStoreDriver
	case "pgx", "postgresql":
		c.Store.Driver = "postgres"
	}

	c.Store.DSN = strings.TrimSpace(c.Store.DSN)
	if c.Store.DSN == "" {
		c.Store.DSN = strings.TrimSpace(os.Getenv(dsnEnv))
	}
	if c.Store.DSN == "" && c.Store.Driver == defaultStoreDriver {
		c.Store.DSN = defaultSQLitePath
	}
	if c.Store.Driver == defaultStoreDriver {
		var err error
		if c.Store.DSN, err = expandPath(c.Store.DSN); err != nil {
			return fmt.Errorf("store.dsn: %w", err)
		}
	}

	if c.Store.PageSize == 0 {
		c.Store.PageSize = defaultPageSize
	}
	return nil
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

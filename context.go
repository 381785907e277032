package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhtools/mhwork/internal/config"
	"github.com/mhtools/mhwork/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	config *config.Config
	app    *App
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

// ensureApp loads the configuration and builds the App on first use.
func (c *commandContext) ensureApp(out, errOut io.Writer) (*App, error) {
	if c.app != nil {
		return c.app, nil
	}

	var path string
	if c.configFlag != nil {
		path = strings.TrimSpace(*c.configFlag)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: errOut,
	})
	if err != nil {
		return nil, err
	}

	c.config = cfg
	c.app = NewApp(cfg, logger, out)
	return c.app, nil
}

func (c *commandContext) close() error {
	if c.app == nil {
		return nil
	}
	return c.app.Close()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

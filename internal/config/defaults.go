package config

const (
	defaultConfigPath  = "~/.config/mhwork/config.toml"
	projectConfigName  = "mhwork.toml"
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"
	defaultExportFmt   = "csv"
	defaultStoreDriver = "sqlite"
	defaultSQLitePath  = "~/.local/share/mhwork/worklists.db"
	defaultPageSize    = 100
	defaultTableStyle  = "rounded"

	// dsnEnv overrides store.dsn when the file leaves it empty.
	dsnEnv = "MHWORK_STORE_DSN"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Log: Log{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Export: Export{
			Format: defaultExportFmt,
		},
		Store: Store{
			Driver:   defaultStoreDriver,
			PageSize: defaultPageSize,
		},
		Display: Display{
			Style: defaultTableStyle,
		},
	}
}

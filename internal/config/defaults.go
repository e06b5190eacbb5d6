package config

const (
	defaultConfigPath           = "~/.config/pizzahunt/config.toml"
	defaultStateDir             = "~/.local/share/pizzahunt"
	defaultLogDir               = "~/.local/share/pizzahunt/logs"
	defaultServerBind           = "127.0.0.1:3001"
	defaultCatalogFile          = "pizza-hunt.db"
	defaultOfflineStoreFile     = "pizza_hunt.db"
	defaultAPIURL               = "http://127.0.0.1:3001"
	defaultClientRequestTimeout = 30
	defaultProbeInterval        = 15
	defaultProbeTimeout         = 3
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		Client: Client{
			APIURL:         defaultAPIURL,
			RequestTimeout: defaultClientRequestTimeout,
		},
		Offline: Offline{
			ExclusiveFlush: true,
			Netlink:        true,
			ProbeInterval:  defaultProbeInterval,
			ProbeTimeout:   defaultProbeTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			FlushCompleted: true,
			RecordQueued:   true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

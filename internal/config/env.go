package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/caarlos0/env/v11"
)

// envOverrides lists the environment variables layered over the TOML file.
// PORT keeps the conventional hosting-platform contract: when set, the API
// listens on every interface at that port.
type envOverrides struct {
	Port      string `env:"PORT"`
	Bind      string `env:"PIZZAHUNT_BIND"`
	Database  string `env:"PIZZAHUNT_DATABASE"`
	StateDir  string `env:"PIZZAHUNT_STATE_DIR"`
	APIURL    string `env:"PIZZAHUNT_API_URL"`
	APIToken  string `env:"PIZZAHUNT_API_TOKEN"`
	LogLevel  string `env:"PIZZAHUNT_LOG_LEVEL"`
	LogFormat string `env:"PIZZAHUNT_LOG_FORMAT"`
	NtfyTopic string `env:"NTFY_TOPIC"`
}

func (c *Config) applyEnv() error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if port := strings.TrimSpace(overrides.Port); port != "" {
		c.Server.Bind = net.JoinHostPort("", port)
	}
	if bind := strings.TrimSpace(overrides.Bind); bind != "" {
		c.Server.Bind = bind
	}
	if value := strings.TrimSpace(overrides.Database); value != "" {
		c.Server.DatabasePath = value
	}
	if value := strings.TrimSpace(overrides.StateDir); value != "" {
		c.Paths.StateDir = value
	}
	if value := strings.TrimSpace(overrides.APIURL); value != "" {
		c.Client.APIURL = value
	}
	if token := strings.TrimSpace(overrides.APIToken); token != "" {
		if c.Server.APIToken == "" {
			c.Server.APIToken = token
		}
		if c.Client.APIToken == "" {
			c.Client.APIToken = token
		}
	}
	if value := strings.TrimSpace(overrides.LogLevel); value != "" {
		c.Logging.Level = value
	}
	if value := strings.TrimSpace(overrides.LogFormat); value != "" {
		c.Logging.Format = value
	}
	if value := strings.TrimSpace(overrides.NtfyTopic); value != "" && c.Notifications.NtfyTopic == "" {
		c.Notifications.NtfyTopic = value
	}
	return nil
}

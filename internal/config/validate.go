package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateClient(); err != nil {
		return err
	}
	if err := c.validateOffline(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind %q must be host:port: %w", c.Server.Bind, err)
	}
	return nil
}

func (c *Config) validateClient() error {
	parsed, err := url.Parse(c.Client.APIURL)
	if err != nil {
		return fmt.Errorf("client.api_url: %w", err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("client.api_url must use http or https, got %q", c.Client.APIURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("client.api_url must include a host, got %q", c.Client.APIURL)
	}
	return nil
}

func (c *Config) validateOffline() error {
	if c.Offline.ProbeInterval < 0 {
		return errors.New("offline.probe_interval must be >= 0")
	}
	if c.Offline.ProbeAddress != "" {
		if _, _, err := net.SplitHostPort(c.Offline.ProbeAddress); err != nil {
			return fmt.Errorf("offline.probe_address %q must be host:port: %w", c.Offline.ProbeAddress, err)
		}
	}
	return nil
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic == "" {
		return nil
	}
	parsed, err := url.Parse(topic)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic must be a full URL (e.g. https://ntfy.sh/pizzahunt), got %q", topic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

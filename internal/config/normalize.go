package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeServer(); err != nil {
		return err
	}
	c.normalizeClient()
	if err := c.normalizeOffline(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.StateDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() error {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	c.Server.APIToken = strings.TrimSpace(c.Server.APIToken)
	dbPath := strings.TrimSpace(c.Server.DatabasePath)
	if dbPath == "" {
		dbPath = filepath.Join(c.Paths.StateDir, defaultCatalogFile)
	}
	var err error
	if c.Server.DatabasePath, err = expandPath(dbPath); err != nil {
		return fmt.Errorf("server.database_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeClient() {
	c.Client.APIURL = strings.TrimRight(strings.TrimSpace(c.Client.APIURL), "/")
	if c.Client.APIURL == "" {
		c.Client.APIURL = defaultAPIURL
	}
	c.Client.APIToken = strings.TrimSpace(c.Client.APIToken)
	if c.Client.RequestTimeout < 0 {
		c.Client.RequestTimeout = 0
	}
}

func (c *Config) normalizeOffline() error {
	storePath := strings.TrimSpace(c.Offline.StorePath)
	if storePath == "" {
		storePath = filepath.Join(c.Paths.StateDir, defaultOfflineStoreFile)
	}
	var err error
	if c.Offline.StorePath, err = expandPath(storePath); err != nil {
		return fmt.Errorf("offline.store_path: %w", err)
	}
	c.Offline.ProbeAddress = strings.TrimSpace(c.Offline.ProbeAddress)
	if c.Offline.ProbeTimeout <= 0 {
		c.Offline.ProbeTimeout = defaultProbeTimeout
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

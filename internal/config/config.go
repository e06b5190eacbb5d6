package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains state and log directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Server contains configuration for the pizzahuntd REST API.
type Server struct {
	Bind         string `toml:"bind"`
	APIToken     string `toml:"api_token"`
	DatabasePath string `toml:"database_path"`
	// Debug logs every catalog statement at debug level.
	Debug bool `toml:"debug"`
}

// Client contains configuration for talking to a remote pizzahuntd.
type Client struct {
	APIURL         string `toml:"api_url"`
	APIToken       string `toml:"api_token"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Offline contains configuration for the offline write queue and the
// connectivity monitor that drives it.
type Offline struct {
	StorePath string `toml:"store_path"`
	// ExclusiveFlush rejects a flush while another one is in flight.
	ExclusiveFlush bool `toml:"exclusive_flush"`
	// Netlink enables kernel link/address events as connectivity hints.
	Netlink       bool   `toml:"netlink"`
	ProbeAddress  string `toml:"probe_address"`
	ProbeInterval int    `toml:"probe_interval"`
	ProbeTimeout  int    `toml:"probe_timeout"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	FlushCompleted bool   `toml:"flush_completed"`
	RecordQueued   bool   `toml:"record_queued"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for pizzahunt.
//
// Configuration sections by subsystem:
//   - Paths: state and log directories
//   - Server: API bind address, bearer token, catalog database
//   - Client: remote API location used by the CLI and agent
//   - Offline: local record store and connectivity probing
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Server        Server        `toml:"server"`
	Client        Client        `toml:"client"`
	Offline       Offline       `toml:"offline"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("pizzahunt.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories plus the parent
// directories of both database files.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.StateDir,
		c.Paths.LogDir,
		filepath.Dir(c.Server.DatabasePath),
		filepath.Dir(c.Offline.StorePath),
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// AgentLockPath returns the lock file guarding a single offline agent per store.
func (c *Config) AgentLockPath() string {
	return filepath.Join(c.Paths.StateDir, "agent.lock")
}

// ServerLockPath returns the lock file guarding a single pizzahuntd per catalog.
func (c *Config) ServerLockPath() string {
	return filepath.Join(c.Paths.StateDir, "pizzahuntd.lock")
}

// ProbeTarget returns the host:port the connectivity monitor dials. An
// explicit offline.probe_address wins; otherwise the host of client.api_url
// is used with the scheme's default port.
func (c *Config) ProbeTarget() string {
	if addr := strings.TrimSpace(c.Offline.ProbeAddress); addr != "" {
		return addr
	}
	parsed, err := url.Parse(c.Client.APIURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	if parsed.Port() != "" {
		return parsed.Host
	}
	port := "80"
	if strings.EqualFold(parsed.Scheme, "https") {
		port = "443"
	}
	return net.JoinHostPort(parsed.Hostname(), port)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

package testsupport

import (
	"path/filepath"
	"testing"

	"pizzahunt/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Server.DatabasePath = filepath.Join(base, "state", "pizza-hunt.db")
	cfgVal.Offline.StorePath = filepath.Join(base, "state", "pizza_hunt.db")
	cfgVal.Offline.Netlink = false
	cfgVal.Offline.ProbeInterval = 0
	cfgVal.Notifications.NtfyTopic = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAPIURL points the client section at url, typically an httptest server.
func WithAPIURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Client.APIURL = url
	}
}

// WithAPIToken sets the same bearer token on the server and client sections.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.APIToken = token
		b.cfg.Client.APIToken = token
	}
}

// WithExclusiveFlush toggles the single in-flight flush guard.
func WithExclusiveFlush(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Offline.ExclusiveFlush = enabled
	}
}

// WithNtfyTopic sets the ntfy endpoint.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

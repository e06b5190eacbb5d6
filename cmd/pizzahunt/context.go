package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"pizzahunt/internal/config"
	"pizzahunt/internal/logging"
	"pizzahunt/internal/notifications"
	"pizzahunt/internal/offline"
	"pizzahunt/internal/remote"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	log        *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) flagPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(c.flagPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

// logger writes one-shot command logs to the CLI log file so they never mix
// with command output.
func (c *commandContext) logger() *slog.Logger {
	c.loggerOnce.Do(func() {
		c.log = logging.NewNop()
		cfg, err := c.ensureConfig()
		if err != nil || cfg.Paths.LogDir == "" {
			return
		}
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "pizzahunt.log")},
		})
		if err == nil {
			c.log = logger
		}
	})
	return c.log
}

func (c *commandContext) client() (*remote.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := remote.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("configure api client: %w", err)
	}
	return client, nil
}

// notifier echoes user-facing messages to out and forwards them to ntfy when
// a topic is configured.
func (c *commandContext) notifier(out io.Writer) notifications.Service {
	cfg, err := c.ensureConfig()
	if err != nil {
		return notifications.NewConsole(out)
	}
	return notifications.Fanout(notifications.NewConsole(out), notifications.NewService(cfg))
}

// openQueue opens the offline queue for a one-shot command. The caller closes it.
func (c *commandContext) openQueue(cmd *cobra.Command, submitter offline.Submitter) (*offline.Queue, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	q := offline.New(cfg.Offline.StorePath, submitter,
		offline.WithLogger(c.logger()),
		offline.WithNotifier(c.notifier(cmd.OutOrStdout())),
		offline.WithFlushGuard(cfg.Offline.ExclusiveFlush),
	)
	q.Open(cmd.Context())
	return q, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

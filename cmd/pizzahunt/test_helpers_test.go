package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pizzahunt/internal/config"
	"pizzahunt/internal/server"
	"pizzahunt/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	api        *httptest.Server
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))
	cfg := testsupport.NewConfig(t)
	env := &cliTestEnv{cfg: cfg}
	env.startAPI(t)
	return env
}

// startAPI serves a fresh catalog and points the config file at it.
func (e *cliTestEnv) startAPI(t *testing.T) {
	t.Helper()

	store := testsupport.MustOpenCatalog(t, e.cfg)
	srv, err := server.New(e.cfg, store, nil)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	e.api = httptest.NewServer(srv.Handler())
	t.Cleanup(e.api.Close)
	e.cfg.Client.APIURL = e.api.URL
	e.configPath = testsupport.WriteConfigFile(t, e.cfg)
}

// stopAPI closes the server while the config keeps pointing at it.
func (e *cliTestEnv) stopAPI() {
	e.api.Close()
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), configPath, args...)
}

func runCLIContext(t *testing.T, ctx context.Context, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func waitFor(t *testing.T, duration time.Duration, fn func() bool) {
	t.Helper()
	deadline := time.Now().Add(duration)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", duration)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

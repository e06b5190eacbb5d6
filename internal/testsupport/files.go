package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"pizzahunt/internal/config"
)

// WriteConfigFile encodes cfg as TOML under the config's base directory and
// returns the file path.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()

	path := filepath.Join(BaseDir(cfg), "pizzahunt.toml")
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

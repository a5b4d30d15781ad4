package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diagreport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadLayered_CLIOverridesEverything(t *testing.T) {
	path := writeFile(t, "server:\n  store_dir: /file/data\n  log_dir: /file/logs\n")
	t.Setenv("DIAG_STORE_DIR", "/env/data")
	cli := CLIOverrides{StoreDir: "/cli/data", Classifiers: []string{"logs"}}

	cfg, err := LoadLayered(cli, path)
	require.NoError(t, err)
	assert.Equal(t, "/cli/data", cfg.Server.StoreDir)
	assert.Equal(t, "/file/logs", cfg.Server.LogDir)
	assert.Equal(t, []string{"logs"}, cfg.Report.Classifiers)
}

func TestLoadLayered_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "server:\n  store_dir: /file/data\n  log_dir: /file/logs\n")
	t.Setenv("DIAG_STORE_DIR", "/env/data")
	t.Setenv("DIAG_LOG_LEVEL", "debug")

	cfg, err := LoadLayered(CLIOverrides{}, path)
	require.NoError(t, err)
	assert.Equal(t, "/env/data", cfg.Server.StoreDir)
	assert.Equal(t, "/file/logs", cfg.Server.LogDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadLayered_DefaultsWhenEmpty(t *testing.T) {
	cfg, err := LoadLayered(CLIOverrides{}, "")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Report.CollectTimeout.Duration)
	assert.Contains(t, cfg.Report.Classifiers, "logs")
	assert.NoError(t, cfg.Validate())
}

func TestLoadLayered_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadLayered(CLIOverrides{}, filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "./reports", cfg.Report.Destination)
}

func TestLoadLayered_InvalidYAML(t *testing.T) {
	path := writeFile(t, "report:\n  collect_timeout: soon\n")
	_, err := LoadLayered(CLIOverrides{}, path)
	assert.Error(t, err)
}

func TestLoad_ParsesDuration(t *testing.T) {
	path := writeFile(t, "report:\n  collect_timeout: 1m30s\n  top_processes: 5\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Report.CollectTimeout.Duration)
	assert.Equal(t, 5, cfg.Report.TopProcesses)
}

func TestWriteConfig_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "diagreport.yaml")

	cfg := DefaultConfig()
	cfg.Server.StoreDir = "/srv/data"
	cfg.Report.CollectTimeout = Duration{45 * time.Second}

	require.NoError(t, WriteConfig(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", loaded.Server.StoreDir)
	assert.Equal(t, 45*time.Second, loaded.Report.CollectTimeout.Duration)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"no classifiers", func(c *Config) { c.Report.Classifiers = nil }, false},
		{"no destination", func(c *Config) { c.Report.Destination = "" }, false},
		{"zero timeout", func(c *Config) { c.Report.CollectTimeout = Duration{} }, false},
		{"negative processes", func(c *Config) { c.Report.TopProcesses = -1 }, false},
		{"negative keep", func(c *Config) { c.Report.Keep = -1 }, false},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestResolve(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Home = filepath.Join("srv", "server")

	assert.Equal(t, filepath.Join("srv", "server", "logs"), cfg.Resolve("./logs"))
	assert.Equal(t, "", cfg.Resolve(""))

	abs := filepath.Join(t.TempDir(), "data")
	assert.Equal(t, abs, cfg.Resolve(abs))

	cfg.Server.Home = ""
	assert.Equal(t, "logs", cfg.Resolve("logs"))
}

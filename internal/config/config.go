// Package config handles configuration loading from YAML files and environment variables.
// Configuration precedence: CLI flags > environment variables > config file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "15s", "30s", "1m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds all reporter configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Report  ReportConfig  `yaml:"report"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig locates the server installation being reported on.
type ServerConfig struct {
	Home        string   `yaml:"home"`
	StoreDir    string   `yaml:"store_dir"`
	LogDir      string   `yaml:"log_dir"`
	ConfigFiles []string `yaml:"config_files"`
}

// ReportConfig holds bundle creation settings.
type ReportConfig struct {
	Destination    string   `yaml:"destination"`
	Classifiers    []string `yaml:"classifiers"`
	TopProcesses   int      `yaml:"top_processes"`
	CollectTimeout Duration `yaml:"collect_timeout"`
	RedactKeys     []string `yaml:"redact_keys"`
	Keep           int      `yaml:"keep"`
	MaxTotalMB     int      `yaml:"max_total_mb"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Home:     ".",
			StoreDir: "./data",
			LogDir:   "./logs",
		},
		Report: ReportConfig{
			Destination:    "./reports",
			Classifiers:    []string{"logs", "config", "system", "ps", "env", "tree", "manifest"},
			TopProcesses:   25,
			CollectTimeout: Duration{10 * time.Second},
			RedactKeys:     []string{"password", "secret", "token", "key"},
			Keep:           10,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// LoadFromBytes parses YAML configuration from a byte slice and merges with defaults.
// Environment variables take highest precedence and override values from the byte slice.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config data: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// Load reads configuration from a YAML file and merges with defaults.
// If path is empty or the file does not exist, only defaults and environment
// variables are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromBytes(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		return LoadFromBytes(nil)
	}

	return LoadFromBytes(data)
}

// CLIOverrides holds values from command-line flags.
// Empty values are treated as "not set" and skipped.
type CLIOverrides struct {
	StoreDir    string
	LogDir      string
	Destination string
	LogLevel    string
	Classifiers []string
}

// Locate searches standard config file paths and returns the first one found.
// Returns empty string if no config file exists.
func Locate() string {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadLayered loads configuration with the full precedence chain:
// CLI flags > env vars > YAML file > defaults.
//
// An optional configPath argument controls file discovery:
//   - omitted        → auto-discover via Locate()
//   - explicit value → use that path ("" means no file)
func LoadLayered(cli CLIOverrides, configPath ...string) (*Config, error) {
	cfg := DefaultConfig()

	var filePath string
	if len(configPath) > 0 {
		filePath = configPath[0]
	} else {
		filePath = Locate()
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", filePath, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if cli.StoreDir != "" {
		cfg.Server.StoreDir = cli.StoreDir
	}
	if cli.LogDir != "" {
		cfg.Server.LogDir = cli.LogDir
	}
	if cli.Destination != "" {
		cfg.Report.Destination = cli.Destination
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if len(cli.Classifiers) > 0 {
		cfg.Report.Classifiers = cli.Classifiers
	}

	return cfg, nil
}

// WriteConfig serializes the config to a YAML file at the given path.
// Creates parent directories if needed.
func WriteConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o640)
}

func applyEnvOverrides(cfg *Config) {
	if dir := os.Getenv("DIAG_STORE_DIR"); dir != "" {
		cfg.Server.StoreDir = dir
	}
	if dir := os.Getenv("DIAG_LOG_DIR"); dir != "" {
		cfg.Server.LogDir = dir
	}
	if dest := os.Getenv("DIAG_DESTINATION"); dest != "" {
		cfg.Report.Destination = dest
	}
	if level := os.Getenv("DIAG_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}

// Resolve returns p made absolute against Server.Home when it is relative.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Server.Home == "" {
		return p
	}
	return filepath.Join(c.Server.Home, p)
}

// Validate checks that the configuration can produce a report.
func (c *Config) Validate() error {
	if len(c.Report.Classifiers) == 0 {
		return fmt.Errorf("at least one classifier is required")
	}
	if c.Report.Destination == "" {
		return fmt.Errorf("report destination is required")
	}
	if c.Report.CollectTimeout.Duration <= 0 {
		return fmt.Errorf("collect timeout must be positive (got: %s)", c.Report.CollectTimeout.Duration)
	}
	if c.Report.TopProcesses < 0 {
		return fmt.Errorf("top processes must not be negative (got: %d)", c.Report.TopProcesses)
	}
	if c.Report.Keep < 0 || c.Report.MaxTotalMB < 0 {
		return fmt.Errorf("retention limits must not be negative")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}

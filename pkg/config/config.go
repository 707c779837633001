package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the hangar daemon configuration
type Config struct {
	// ListenAddr is the address the REST API binds to
	ListenAddr string `yaml:"listen_addr"`

	// DataDir holds the registry database
	DataDir string `yaml:"data_dir"`

	// DeployDir holds one subdirectory per deployment
	DeployDir string `yaml:"deploy_dir"`

	// PythonBin is the interpreter used to run generated health-check scripts
	PythonBin string `yaml:"python_bin"`

	// ProbeTimeout bounds a single health-check subprocess
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// ProbeInterval is the background monitor cycle
	ProbeInterval time.Duration `yaml:"probe_interval"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	// LogJSON switches from console to JSON log output
	LogJSON bool `yaml:"log_json"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		ListenAddr:    "127.0.0.1:8420",
		DataDir:       "./hangar-data",
		DeployDir:     "./hangar-data/deployed_models",
		PythonBin:     "python3",
		ProbeTimeout:  10 * time.Second,
		ProbeInterval: 30 * time.Second,
		LogLevel:      "info",
		LogJSON:       false,
	}
}

// Load reads a YAML config file and overlays it on the defaults. An
// empty path returns the defaults unchanged; a path that does not exist
// is an error, so a mistyped --config never silently runs on defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks config invariants
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe_timeout must be positive")
	}
	if c.ProbeInterval <= 0 {
		return fmt.Errorf("probe_interval must be positive")
	}
	if c.DeployDir == "" {
		c.DeployDir = filepath.Join(c.DataDir, "deployed_models")
	}
	return nil
}

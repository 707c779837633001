package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "127.0.0.1:8420", cfg.ListenAddr)
	assert.Equal(t, "python3", cfg.PythonBin)
	assert.Equal(t, 10*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, 30*time.Second, cfg.ProbeInterval)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileFails(t *testing.T) {
	// A mistyped config path must not silently fall back to defaults
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hangar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: "0.0.0.0:9000"
data_dir: /var/lib/hangar
probe_timeout: 5s
log_level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr)
	assert.Equal(t, "/var/lib/hangar", cfg.DataDir)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Unset keys keep their defaults
	assert.Equal(t, "python3", cfg.PythonBin)
	assert.Equal(t, 30*time.Second, cfg.ProbeInterval)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "missing listen addr", mutate: func(c *Config) { c.ListenAddr = "" }, wantErr: true},
		{name: "missing data dir", mutate: func(c *Config) { c.DataDir = "" }, wantErr: true},
		{name: "zero probe timeout", mutate: func(c *Config) { c.ProbeTimeout = 0 }, wantErr: true},
		{name: "negative probe interval", mutate: func(c *Config) { c.ProbeInterval = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDerivesDeployDir(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/data"
	cfg.DeployDir = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, filepath.Join("/data", "deployed_models"), cfg.DeployDir)
}

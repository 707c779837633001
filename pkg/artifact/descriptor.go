package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hangarhq/hangar/pkg/types"
)

// ConfigFileName is the descriptor file present in every deployment directory
const ConfigFileName = "deployment_config.json"

// WriteConfig persists a deployment descriptor into dir. The file is
// written to a temp name and renamed so a concurrent reader never sees a
// truncated descriptor.
func WriteConfig(dir string, cfg *types.DeploymentConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode descriptor: %w", err)
	}

	tmp := filepath.Join(dir, ConfigFileName+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write descriptor: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, ConfigFileName)); err != nil {
		return fmt.Errorf("failed to commit descriptor: %w", err)
	}
	return nil
}

// ReadConfig parses the descriptor of a deployment directory
func ReadConfig(dir string) (*types.DeploymentConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}

	var cfg types.DeploymentConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor: %w", err)
	}
	return &cfg, nil
}

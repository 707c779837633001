/*
Package config loads and validates the hangar daemon configuration.

Configuration is plain YAML overlaid on defaults; with no config path
the defaults stand, but a path that cannot be read is an error. CLI
flags overlay the loaded config in cmd/hangar, so the precedence is
flags > file > defaults.

# File Format

	listen_addr: "127.0.0.1:8420"
	data_dir: /var/lib/hangar
	deploy_dir: /var/lib/hangar/deployed_models
	python_bin: python3
	probe_timeout: 10s
	probe_interval: 30s
	log_level: info
	log_json: false

deploy_dir defaults to <data_dir>/deployed_models when unset. Durations
use Go duration syntax.

# Usage

	cfg, err := config.Load("/etc/hangar/hangar.yaml")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
*/
package config

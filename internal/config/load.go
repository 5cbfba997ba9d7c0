// internal/config/load.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable consulted when no config
// path is given on the command line.
const EnvConfig = "DAQ_ACQUIRE_CONFIG"

// Default returns the built-in configuration: local daemon, standard
// forwarding destination, stderr logging.
func Default() *Config {
	return &Config{
		Acquire: AcquireConfig{
			Daemon: DaemonConfig{
				Endpoint:  "127.0.0.1:1371",
				TimeoutMs: 2000,
			},
			Forward: ForwardConfig{
				Address: "127.0.0.1",
				Port:    7654,
				Type:    "sample",
			},
		},
	}
}

// Load reads configuration from path, falling back to the EnvConfig
// environment variable and finally to built-in defaults. File values
// overlay the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

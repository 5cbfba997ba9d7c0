// internal/config/validate.go
package config

import (
	"fmt"
	"net"
)

var forwardTypes = map[string]bool{
	"sample":        true,
	"subsample":     true,
	"sample_raw":    true,
	"subsample_raw": true,
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	a := cfg.Acquire

	// ------------------------------------------------------------
	// DAEMON ENDPOINT
	// ------------------------------------------------------------

	if a.Daemon.Endpoint == "" {
		return fmt.Errorf("daemon endpoint required")
	}
	if _, _, err := net.SplitHostPort(a.Daemon.Endpoint); err != nil {
		return fmt.Errorf("daemon endpoint %q is not host:port: %v", a.Daemon.Endpoint, err)
	}
	if a.Daemon.TimeoutMs < 0 {
		return fmt.Errorf("daemon timeout_ms must be >= 0, got %d", a.Daemon.TimeoutMs)
	}

	// ------------------------------------------------------------
	// FORWARD DEFAULTS
	// ------------------------------------------------------------

	if a.Forward.Port <= 0 || a.Forward.Port >= 0xFFFF {
		return fmt.Errorf("forward port %d out of range (1-65534)", a.Forward.Port)
	}
	if !forwardTypes[a.Forward.Type] {
		return fmt.Errorf("forward type %q unknown", a.Forward.Type)
	}
	if net.ParseIP(a.Forward.Address) == nil {
		return fmt.Errorf("forward address %q is not an IP address", a.Forward.Address)
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	if a.Log.MaxSizeMB < 0 {
		return fmt.Errorf("log max_size_mb must be >= 0, got %d", a.Log.MaxSizeMB)
	}
	if a.Log.MaxBackups < 0 {
		return fmt.Errorf("log max_backups must be >= 0, got %d", a.Log.MaxBackups)
	}

	return nil
}

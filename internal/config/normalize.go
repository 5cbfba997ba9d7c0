// internal/config/normalize.go
package config

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	a := &cfg.Acquire

	// timeout_ms == 0 means "use the default"
	if a.Daemon.TimeoutMs == 0 {
		a.Daemon.TimeoutMs = 2000
	}

	// Rotation defaults apply only when a log file is configured.
	if a.Log.File != "" {
		if a.Log.MaxSizeMB == 0 {
			a.Log.MaxSizeMB = 10
		}
		if a.Log.MaxBackups == 0 {
			a.Log.MaxBackups = 3
		}
	}
}

// internal/config/config.go
package config

type Config struct {
	Acquire AcquireConfig `yaml:"acquire"`
}

type AcquireConfig struct {
	Daemon  DaemonConfig  `yaml:"daemon"`
	Forward ForwardConfig `yaml:"forward"`
	Log     LogConfig     `yaml:"log"`
}

// ---- DAEMON ----

type DaemonConfig struct {
	Endpoint  string `yaml:"endpoint"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- FORWARD DEFAULTS ----

// ForwardConfig supplies defaults for the forward subcommand flags.
type ForwardConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
	Type    string `yaml:"type"`
}

// ---- LOG ----

// LogConfig enables an optional rotating log file. Empty file means
// stderr only.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// internal/config/validate_test.go
package config

import "testing"

// ---- tests ----

func TestValidate_DefaultsAreValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_EndpointRequired(t *testing.T) {
	cfg := Default()
	cfg.Acquire.Daemon.Endpoint = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected endpoint error, got nil")
	}
}

func TestValidate_EndpointMustBeHostPort(t *testing.T) {
	cfg := Default()
	cfg.Acquire.Daemon.Endpoint = "localhost"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected host:port error, got nil")
	}
}

func TestValidate_ForwardPortBounds(t *testing.T) {
	for _, bad := range []int{0, -1, 65535} {
		cfg := Default()
		cfg.Acquire.Forward.Port = bad
		if err := Validate(cfg); err == nil {
			t.Fatalf("port %d accepted", bad)
		}
	}
	cfg := Default()
	cfg.Acquire.Forward.Port = 65534
	if err := Validate(cfg); err != nil {
		t.Fatalf("port 65534 rejected: %v", err)
	}
}

func TestValidate_ForwardTypeToken(t *testing.T) {
	cfg := Default()
	cfg.Acquire.Forward.Type = "samples"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected forward type error, got nil")
	}
}

func TestValidate_NegativeTimeoutRejected(t *testing.T) {
	cfg := Default()
	cfg.Acquire.Daemon.TimeoutMs = -1
	if err := Validate(cfg); err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

func TestNormalize_FillsTimeoutAndRotation(t *testing.T) {
	cfg := Default()
	cfg.Acquire.Daemon.TimeoutMs = 0
	cfg.Acquire.Log.File = "/var/log/acquirectl.log"

	Normalize(cfg)

	if cfg.Acquire.Daemon.TimeoutMs != 2000 {
		t.Fatalf("timeout not defaulted: %d", cfg.Acquire.Daemon.TimeoutMs)
	}
	if cfg.Acquire.Log.MaxSizeMB == 0 || cfg.Acquire.Log.MaxBackups == 0 {
		t.Fatalf("rotation not defaulted: %+v", cfg.Acquire.Log)
	}
}

func TestNormalize_NoRotationDefaultsWithoutFile(t *testing.T) {
	cfg := Default()
	Normalize(cfg)
	if cfg.Acquire.Log.MaxSizeMB != 0 {
		t.Fatalf("rotation defaults applied without a log file: %+v", cfg.Acquire.Log)
	}
}

package config

import (
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Port != 5001 {
		t.Errorf("default port = %d, want 5001", cfg.Port)
	}
	if cfg.TargetClass != "cat" {
		t.Errorf("default target class = %q, want cat", cfg.TargetClass)
	}
	if cfg.MaxEvents != 1000 || cfg.TrimTo != 500 {
		t.Errorf("default retention = %d/%d, want 1000/500", cfg.MaxEvents, cfg.TrimTo)
	}
	if cfg.ConfidenceThreshold != 0.6 || cfg.IoUThreshold != 0.45 {
		t.Errorf("default thresholds = %v/%v", cfg.ConfidenceThreshold, cfg.IoUThreshold)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("CAMERA_URL", "rtsp://cam.local/live")
	t.Setenv("CONFIDENCE_THRESHOLD", "0.75")
	t.Setenv("MAX_EVENTS", "10")
	t.Setenv("TRIM_TO", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9001 {
		t.Errorf("port = %d, want 9001", cfg.Port)
	}
	if cfg.CameraURL != "rtsp://cam.local/live" {
		t.Errorf("camera url = %q", cfg.CameraURL)
	}
	if cfg.ConfidenceThreshold != 0.75 {
		t.Errorf("confidence = %v, want 0.75", cfg.ConfidenceThreshold)
	}
	if cfg.MaxEvents != 10 || cfg.TrimTo != 5 {
		t.Errorf("retention = %d/%d, want 10/5", cfg.MaxEvents, cfg.TrimTo)
	}
}

func TestEnvMalformedValuesKeepDefaults(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("CONFIDENCE_THRESHOLD", "high")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != Default().Port {
		t.Errorf("port = %d, want default %d", cfg.Port, Default().Port)
	}
	if cfg.ConfidenceThreshold != Default().ConfidenceThreshold {
		t.Errorf("confidence = %v, want default", cfg.ConfidenceThreshold)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		expectErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"port too large", func(c *Config) { c.Port = 99999 }, true},
		{"port zero", func(c *Config) { c.Port = 0 }, true},
		{"confidence above one", func(c *Config) { c.ConfidenceThreshold = 1.5 }, true},
		{"negative iou", func(c *Config) { c.IoUThreshold = -0.1 }, true},
		{"trim above max", func(c *Config) { c.MaxEvents = 5; c.TrimTo = 10 }, true},
		{"trim zero", func(c *Config) { c.TrimTo = 0 }, true},
		{"empty target class", func(c *Config) { c.TargetClass = "" }, true},
		{"jpeg quality zero", func(c *Config) { c.JPEGQuality = 0 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.expectErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.expectErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAddr(t *testing.T) {
	cfg := Config{Host: "127.0.0.1", Port: 5001}
	if got := cfg.Addr(); got != "127.0.0.1:5001" {
		t.Fatalf("Addr() = %q", got)
	}
}

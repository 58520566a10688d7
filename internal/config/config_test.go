package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "{}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Gate.RollThreshold != 0.65 {
		t.Errorf("RollThreshold = %v, want 0.65", cfg.Gate.RollThreshold)
	}
	if cfg.FrameRateHz != 30 {
		t.Errorf("FrameRateHz = %v, want 30", cfg.FrameRateHz)
	}
	if !cfg.Web.Enabled || cfg.Web.Port != DefaultWebPort {
		t.Errorf("Web = %+v, want enabled on port %s", cfg.Web, DefaultWebPort)
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
gate:
  roll_threshold: 0.8
  frames_required: 5
  debounce_seconds: 2.0
  scroll_amount: 300
frame_rate_hz: 15
camera:
  device: 2
  mirror: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Gate.RollThreshold != 0.8 || cfg.Gate.FramesRequired != 5 {
		t.Errorf("gate = %+v, want overridden values", cfg.Gate)
	}
	if cfg.Camera.Device != 2 {
		t.Errorf("camera device = %d, want 2", cfg.Camera.Device)
	}
	// Unset nested fields keep their defaults.
	if cfg.Camera.Width != 640 {
		t.Errorf("camera width = %d, want default 640", cfg.Camera.Width)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad log level", "log_level: verbose\n"},
		{"zero frames", "gate:\n  frames_required: 0\n"},
		{"negative debounce", "gate:\n  debounce_seconds: -1\n"},
		{"frame rate too high", "frame_rate_hz: 120\n"},
		{"bad camera", "camera:\n  quality: 0\n"},
		{"bad mesh confidence", "mesh:\n  confidence: 2.0\n"},
		{"not yaml", ":\n  - [\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.yaml)
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPipelineConversion(t *testing.T) {
	path := writeConfig(t, "frame_rate_hz: 20\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	pcfg := cfg.Pipeline()
	if pcfg.FrameInterval != 50*time.Millisecond {
		t.Errorf("FrameInterval = %v, want 50ms", pcfg.FrameInterval)
	}
	if pcfg.Gate != cfg.Gate {
		t.Errorf("gate config not carried into pipeline config")
	}
}

func TestWebhookURLFromEnv(t *testing.T) {
	t.Setenv("GAZESCROLL_TEST_HOOK", "http://example.test/hook")

	w := WebhookConfig{URLEnv: "GAZESCROLL_TEST_HOOK"}
	if got := w.URL(); got != "http://example.test/hook" {
		t.Errorf("URL = %q", got)
	}

	if got := (WebhookConfig{}).URL(); got != "" {
		t.Errorf("URL with empty env name = %q, want empty", got)
	}
}

func TestWatch_ReloadOnWrite(t *testing.T) {
	path := writeConfig(t, "frame_rate_hz: 10\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	go Watch(ctx, path, func(c *Config) { reloaded <- c })

	// Give the watcher time to install.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("frame_rate_hz: 25\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.FrameRateHz != 25 {
			t.Errorf("reloaded FrameRateHz = %v, want 25", cfg.FrameRateHz)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("config change was not observed")
	}
}

func TestWatch_InvalidReloadKeepsQuiet(t *testing.T) {
	path := writeConfig(t, "frame_rate_hz: 10\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	go Watch(ctx, path, func(c *Config) { reloaded <- c })

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("frame_rate_hz: 900\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case <-reloaded:
		t.Error("onChange called for invalid config")
	case <-time.After(500 * time.Millisecond):
	}
}

// Package config loads the gazescroll configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gazekit/gazescroll/pkg/camera"
	"github.com/gazekit/gazescroll/pkg/gaze"
	"github.com/gazekit/gazescroll/pkg/gesture"
	"github.com/gazekit/gazescroll/pkg/mesh"
)

// Defaults applied when fields are absent from the config file.
const (
	DefaultLogLevel    = "info"
	DefaultFrameRateHz = 30.0
	DefaultWebPort     = "8089"
)

// Config is the top-level daemon configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	// LogLevel is one of: debug | info | warn | error.
	LogLevel string `yaml:"log_level"`

	// Gate tunes the trigger decision engine.
	Gate gaze.Config `yaml:"gate"`

	// FrameRateHz is how many frames per second are captured and scored.
	FrameRateHz float64 `yaml:"frame_rate_hz"`

	// Camera configures the webcam capture.
	Camera camera.Config `yaml:"camera"`

	// Mesh configures the landmark extraction models.
	Mesh mesh.Config `yaml:"mesh"`

	// Web configures the dashboard server.
	Web WebConfig `yaml:"web"`

	// Webhook configures optional trigger event delivery.
	Webhook WebhookConfig `yaml:"webhook"`
}

// WebConfig holds dashboard settings.
type WebConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port"`
}

// WebhookConfig holds trigger webhook settings.
type WebhookConfig struct {
	// URLEnv is the name of the environment variable holding the webhook
	// URL, so the URL itself stays out of config files.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
// Returns empty string if URLEnv is unset or the variable is not found.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Default returns a Config populated entirely with defaults, for running
// without a config file.
func Default() *Config {
	return defaults()
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Pipeline converts the file config into a gesture pipeline configuration.
func (c *Config) Pipeline() gesture.Config {
	pcfg := gesture.DefaultConfig()
	pcfg.Gate = c.Gate
	pcfg.FrameInterval = time.Duration(float64(time.Second) / c.FrameRateHz)
	return pcfg
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		LogLevel:    DefaultLogLevel,
		Gate:        gaze.DefaultConfig(),
		FrameRateHz: DefaultFrameRateHz,
		Camera:      camera.DefaultConfig(),
		Mesh:        mesh.DefaultConfig(),
		Web: WebConfig{
			Enabled: true,
			Port:    DefaultWebPort,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error")
	}

	if cfg.Gate.FramesRequired < 1 {
		return fmt.Errorf("gate.frames_required must be >= 1")
	}
	if cfg.Gate.DebounceSeconds < 0 {
		return fmt.Errorf("gate.debounce_seconds must be >= 0")
	}
	if cfg.Gate.ScrollAmount < 1 {
		return fmt.Errorf("gate.scroll_amount must be >= 1")
	}

	if cfg.FrameRateHz < 1 || cfg.FrameRateHz > 60 {
		return fmt.Errorf("frame_rate_hz must be between 1 and 60")
	}

	if err := cfg.Camera.Validate(); err != nil {
		return fmt.Errorf("camera: %w", err)
	}

	if cfg.Mesh.FaceModelPath == "" {
		return fmt.Errorf("mesh.face_model is required")
	}
	if cfg.Mesh.MeshModelPath == "" {
		return fmt.Errorf("mesh.mesh_model is required")
	}
	if cfg.Mesh.ConfidenceThresh <= 0 || cfg.Mesh.ConfidenceThresh > 1 {
		return fmt.Errorf("mesh.confidence must be in (0, 1]")
	}

	if cfg.Web.Enabled && cfg.Web.Port == "" {
		return fmt.Errorf("web.port is required when web.enabled is true")
	}

	return nil
}

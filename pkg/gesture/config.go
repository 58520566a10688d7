// Package gesture runs the per-frame loop: capture, landmark extraction,
// scoring, trigger gating, and the scroll action on fire.
package gesture

import (
	"time"

	"github.com/gazekit/gazescroll/pkg/gaze"
)

// Config holds all tunable parameters for the gesture pipeline.
type Config struct {
	// Gate is the trigger gate tuning.
	Gate gaze.Config `yaml:"gate"`

	// FrameInterval is how often frames are captured and scored.
	FrameInterval time.Duration `yaml:"frame_interval"`

	// MissLogAfter logs a "lost face" line after this many consecutive
	// frames without a detected face. 0 disables the log.
	MissLogAfter int `yaml:"miss_log_after"`
}

// DefaultConfig returns the recommended pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Gate:          gaze.DefaultConfig(),
		FrameInterval: 33 * time.Millisecond, // ~30 fps
		MissLogAfter:  15,
	}
}

// ConservativeConfig returns a tuning that trades latency for fewer false
// fires. Useful in twitchy lighting.
func ConservativeConfig() Config {
	cfg := DefaultConfig()
	cfg.Gate.RollThreshold = 0.75
	cfg.Gate.FramesRequired = 5
	cfg.Gate.DebounceSeconds = 1.5
	return cfg
}

// ResponsiveConfig returns a tuning that fires faster at the cost of more
// noise sensitivity.
func ResponsiveConfig() Config {
	cfg := DefaultConfig()
	cfg.Gate.RollThreshold = 0.55
	cfg.Gate.FramesRequired = 2
	cfg.Gate.DebounceSeconds = 0.75
	cfg.FrameInterval = 25 * time.Millisecond
	return cfg
}

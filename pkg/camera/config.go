// Package camera captures webcam frames as JPEG for the gesture pipeline.
package camera

import "fmt"

// Config holds the webcam capture parameters.
type Config struct {
	// Device is the V4L2/AVFoundation device index.
	Device int `json:"device" yaml:"device"`

	// Resolution and rate requested from the driver. Drivers may deliver
	// the closest supported mode instead.
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
	FPS    int `json:"fps" yaml:"fps"`

	// Quality is the JPEG encode quality, 1-100.
	Quality int `json:"quality" yaml:"quality"`

	// Mirror flips frames horizontally for a selfie view. Scores are
	// mirror-invariant (only y coordinates are read), so this is purely
	// cosmetic for the dashboard feed.
	Mirror bool `json:"mirror" yaml:"mirror"`
}

// DefaultConfig returns the recommended webcam configuration. 640x480 is
// plenty for eye geometry and keeps mesh inference cheap.
func DefaultConfig() Config {
	return Config{
		Device:  0,
		Width:   640,
		Height:  480,
		FPS:     30,
		Quality: 80,
		Mirror:  true,
	}
}

// Validate checks that the config values are within valid ranges.
func (c Config) Validate() error {
	if c.Device < 0 {
		return fmt.Errorf("device must be >= 0")
	}
	if c.Width < 160 || c.Height < 120 {
		return fmt.Errorf("resolution %dx%d too small (minimum 160x120)", c.Width, c.Height)
	}
	if c.FPS < 1 || c.FPS > 120 {
		return fmt.Errorf("fps must be between 1 and 120")
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100")
	}
	return nil
}

package scroll

import (
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
)

// Desktop injects scroll-up events into the local desktop session by
// shelling out to platform tools: xdotool on Linux (X11), osascript on
// macOS.
type Desktop struct {
	// GOOS overrides runtime.GOOS, for tests.
	GOOS string

	// run executes a command; swapped out in tests.
	run func(name string, args ...string) error
}

// NewDesktop returns a scroller for the current platform.
func NewDesktop() *Desktop {
	return &Desktop{
		GOOS: runtime.GOOS,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// wheelNotch is the conventional scroll amount of one mouse wheel notch.
const wheelNotch = 120

// Scroll converts amount to wheel clicks and injects them. Positive
// amounts scroll up.
func (d *Desktop) Scroll(amount int) error {
	clicks := amount / wheelNotch
	if clicks < 1 {
		clicks = 1
	}

	switch d.GOOS {
	case "linux":
		// Button 4 is wheel-up under X11.
		return d.run("xdotool", "click", "--repeat", strconv.Itoa(clicks), "4")
	case "darwin":
		script := fmt.Sprintf(
			`tell application "System Events" to repeat %d times
key code 126 using {option down}
end repeat`, clicks)
		return d.run("osascript", "-e", script)
	default:
		return fmt.Errorf("scroll injection not supported on %s", d.GOOS)
	}
}

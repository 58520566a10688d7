package gaze

// Config holds the tunable parameters for the trigger gate.
type Config struct {
	// RollThreshold is the minimum score for a frame to count as "rolled".
	RollThreshold float64 `json:"roll_threshold" yaml:"roll_threshold"`

	// FramesRequired is how many consecutive qualifying frames are needed
	// before the gate fires. Must be >= 1.
	FramesRequired int `json:"frames_required" yaml:"frames_required"`

	// DebounceSeconds is the minimum wall-clock gap between two fires.
	DebounceSeconds float64 `json:"debounce_seconds" yaml:"debounce_seconds"`

	// ScrollAmount is the payload forwarded to the scroll action on fire.
	// Opaque to the gate itself.
	ScrollAmount int `json:"scroll_amount" yaml:"scroll_amount"`
}

// DefaultConfig returns the recommended gate tuning.
func DefaultConfig() Config {
	return Config{
		RollThreshold:   0.65,
		FramesRequired:  3,
		DebounceSeconds: 1.0,
		ScrollAmount:    500,
	}
}

// Gate turns a noisy per-frame score stream into a rare, debounced,
// temporally confirmed boolean event. It keeps a bounded FIFO of the most
// recent scores and fires only when the window is full and every entry
// meets the threshold.
//
// A Gate must be driven by a single stream of frames with non-decreasing
// timestamps; it is not safe for concurrent use without external locking.
// Timestamps are supplied by the caller, which keeps the gate fully
// deterministic and testable without real time.
type Gate struct {
	cfg           Config
	recent        []float64
	lastTriggered float64
	fired         bool
}

// NewGate creates a gate with the given tuning. FramesRequired below 1 is
// clamped to 1.
func NewGate(cfg Config) *Gate {
	if cfg.FramesRequired < 1 {
		cfg.FramesRequired = 1
	}
	return &Gate{
		cfg:    cfg,
		recent: make([]float64, 0, cfg.FramesRequired),
	}
}

// ShouldTrigger consumes one score with its timestamp (seconds, monotonic
// source recommended) and reports whether the gesture is confirmed.
//
// Two independent anti-repeat mechanisms are at work: the debounce timer
// guards wall-clock spacing between fires, and clearing the window on fire
// forces a full fresh confirmation streak before the next one.
//
// It never returns an error: NaN or out-of-range scores simply fail the
// threshold comparison.
func (g *Gate) ShouldTrigger(score, now float64) bool {
	// While in the debounce cooldown the window is frozen, not just the
	// decision: the score is NOT appended. Stale pre-cooldown scores must
	// never combine with post-cooldown scores into an instant fire the
	// moment the cooldown expires. The first fire is never debounced.
	if g.fired && now-g.lastTriggered < g.cfg.DebounceSeconds {
		return false
	}

	// Append with evict-oldest at capacity FramesRequired.
	if len(g.recent) == g.cfg.FramesRequired {
		copy(g.recent, g.recent[1:])
		g.recent[len(g.recent)-1] = score
	} else {
		g.recent = append(g.recent, score)
	}

	if len(g.recent) < g.cfg.FramesRequired {
		return false
	}

	for _, s := range g.recent {
		// Written as a negated >= so NaN counts as non-qualifying.
		if !(s >= g.cfg.RollThreshold) {
			return false
		}
	}

	g.lastTriggered = now
	g.fired = true
	g.recent = g.recent[:0]
	return true
}

// SetConfig swaps the gate tuning between frames. Shrinking the window
// drops the oldest buffered scores so len(recent) <= FramesRequired holds.
func (g *Gate) SetConfig(cfg Config) {
	if cfg.FramesRequired < 1 {
		cfg.FramesRequired = 1
	}
	if n := len(g.recent); n > cfg.FramesRequired {
		g.recent = append(make([]float64, 0, cfg.FramesRequired), g.recent[n-cfg.FramesRequired:]...)
	}
	g.cfg = cfg
}

// Config returns the current gate tuning.
func (g *Gate) Config() Config {
	return g.cfg
}

// Pending returns how many scores are currently buffered toward a streak.
func (g *Gate) Pending() int {
	return len(g.recent)
}

// LastTriggered returns the timestamp of the most recent fire, or 0 if the
// gate has never fired.
func (g *Gate) LastTriggered() float64 {
	if !g.fired {
		return 0
	}
	return g.lastTriggered
}

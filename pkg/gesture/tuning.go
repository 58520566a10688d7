package gesture

import (
	"time"

	"github.com/gazekit/gazescroll/internal/log"
	"github.com/gazekit/gazescroll/pkg/gaze"
)

// TuningParams holds the runtime-adjustable pipeline parameters. These can
// be changed via the tuning API or a config-file reload without restarting
// the daemon.
type TuningParams struct {
	RollThreshold   float64 `json:"roll_threshold"`
	FramesRequired  int     `json:"frames_required"`
	DebounceSeconds float64 `json:"debounce_seconds"`
	ScrollAmount    int     `json:"scroll_amount"`
	FrameRateHz     float64 `json:"frame_rate_hz"`
}

// GetTuningParams returns the current tuning.
func (p *Pipeline) GetTuningParams() TuningParams {
	p.mu.RLock()
	defer p.mu.RUnlock()

	cfg := p.gate.Config()
	return TuningParams{
		RollThreshold:   cfg.RollThreshold,
		FramesRequired:  cfg.FramesRequired,
		DebounceSeconds: cfg.DebounceSeconds,
		ScrollAmount:    cfg.ScrollAmount,
		FrameRateHz:     1.0 / p.cfg.FrameInterval.Seconds(),
	}
}

// SetTuningParams applies tuning at runtime. Only positive values are
// applied, so partial updates leave the rest of the tuning alone.
func (p *Pipeline) SetTuningParams(params TuningParams) {
	p.mu.Lock()

	cfg := p.gate.Config()
	if params.RollThreshold > 0 {
		cfg.RollThreshold = params.RollThreshold
	}
	if params.FramesRequired > 0 {
		cfg.FramesRequired = params.FramesRequired
	}
	if params.DebounceSeconds > 0 {
		cfg.DebounceSeconds = params.DebounceSeconds
	}
	if params.ScrollAmount > 0 {
		cfg.ScrollAmount = params.ScrollAmount
	}
	p.gate.SetConfig(cfg)
	p.cfg.Gate = cfg
	p.mu.Unlock()

	if params.FrameRateHz > 0 {
		p.setFrameRateHz(params.FrameRateHz)
	}

	log.Info("tuning applied",
		"roll_threshold", cfg.RollThreshold,
		"frames_required", cfg.FramesRequired,
		"debounce_seconds", cfg.DebounceSeconds,
		"scroll_amount", cfg.ScrollAmount)
}

// Retune swaps the gate tuning from a full gate config (config-file
// reloads land here).
func (p *Pipeline) Retune(cfg gaze.Config) {
	p.mu.Lock()
	p.gate.SetConfig(cfg)
	p.cfg.Gate = p.gate.Config()
	p.mu.Unlock()

	log.Info("gate retuned",
		"roll_threshold", cfg.RollThreshold,
		"frames_required", cfg.FramesRequired,
		"debounce_seconds", cfg.DebounceSeconds)
}

// setFrameRateHz updates the capture rate at runtime.
// Valid range: 1-60 Hz.
func (p *Pipeline) setFrameRateHz(hz float64) {
	if hz < 1 {
		hz = 1
	}
	if hz > 60 {
		hz = 60
	}

	interval := time.Duration(float64(time.Second) / hz)

	p.mu.Lock()
	p.cfg.FrameInterval = interval
	p.mu.Unlock()

	// Non-blocking: if a previous reset is still pending, skip.
	select {
	case p.frameTickerReset <- interval:
	default:
	}
}

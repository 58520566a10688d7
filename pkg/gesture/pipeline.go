package gesture

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gazekit/gazescroll/internal/log"
	"github.com/gazekit/gazescroll/pkg/debug"
	"github.com/gazekit/gazescroll/pkg/gaze"
	"github.com/gazekit/gazescroll/pkg/mesh"
)

// VideoSource interface for capturing frames
type VideoSource interface {
	CaptureJPEG() ([]byte, error)
}

// Scroller interface for the injected scroll action
type Scroller interface {
	Scroll(amount int) error
}

// StateUpdater interface for updating dashboard state
type StateUpdater interface {
	UpdateScore(left, right, combined float64)
	AddLog(logType, message string)
}

// TriggerEvent describes one confirmed eye-roll fire.
type TriggerEvent struct {
	ID           string  `json:"id"`
	Score        float64 `json:"score"`
	At           float64 `json:"at"` // seconds since pipeline start
	ScrollAmount int     `json:"scroll_amount"`
}

// Status is a point-in-time snapshot of the pipeline for the dashboard.
type Status struct {
	Score         float64 `json:"score"`
	LeftScore     float64 `json:"left_score"`
	RightScore    float64 `json:"right_score"`
	FaceVisible   bool    `json:"face_visible"`
	Pending       int     `json:"pending"`
	LastTriggered float64 `json:"last_triggered"`
	Frames        uint64  `json:"frames"`
	Faces         uint64  `json:"faces"`
	Triggers      uint64  `json:"triggers"`
}

// Pipeline drives the per-frame loop. Camera, landmark extraction, the
// scroll action, and the dashboard are all injected; the pipeline owns
// only the score/gate core and the loop timing.
type Pipeline struct {
	video    VideoSource
	mesher   mesh.Mesher
	scroller Scroller
	state    StateUpdater

	// now returns seconds from a monotonic origin. Injectable for tests.
	now func() float64

	// Runtime interval changes arrive here (tuning API).
	frameTickerReset chan time.Duration

	mu     sync.RWMutex
	cfg    Config
	gate   *gaze.Gate
	status Status

	onTrigger func(TriggerEvent)
	onFrame   func(jpeg []byte)

	consecutiveMisses int
}

// New creates a pipeline around the injected collaborators.
func New(cfg Config, video VideoSource, mesher mesh.Mesher, scroller Scroller) *Pipeline {
	start := time.Now()
	return &Pipeline{
		video:            video,
		mesher:           mesher,
		scroller:         scroller,
		cfg:              cfg,
		gate:             gaze.NewGate(cfg.Gate),
		now:              func() float64 { return time.Since(start).Seconds() },
		frameTickerReset: make(chan time.Duration, 1),
	}
}

// SetStateUpdater sets the dashboard state updater.
func (p *Pipeline) SetStateUpdater(state StateUpdater) {
	p.state = state
}

// SetClock overrides the monotonic clock, for deterministic tests.
func (p *Pipeline) SetClock(now func() float64) {
	p.now = now
}

// OnTrigger registers a callback invoked on every fire, after the scroll
// action. Called from the pipeline goroutine; keep it fast.
func (p *Pipeline) OnTrigger(fn func(TriggerEvent)) {
	p.onTrigger = fn
}

// OnFrame registers a callback receiving every captured JPEG frame (e.g.
// for the dashboard camera feed).
func (p *Pipeline) OnFrame(fn func(jpeg []byte)) {
	p.onFrame = fn
}

// Status returns a snapshot of the pipeline state.
func (p *Pipeline) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Config returns the current pipeline configuration.
func (p *Pipeline) Config() Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

// Run processes frames until ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context) {
	p.mu.RLock()
	interval := p.cfg.FrameInterval
	p.mu.RUnlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("gesture pipeline started",
		"frame_interval", interval,
		"roll_threshold", p.gateConfig().RollThreshold,
		"frames_required", p.gateConfig().FramesRequired,
		"debounce_seconds", p.gateConfig().DebounceSeconds)

	for {
		select {
		case <-ctx.Done():
			log.Info("gesture pipeline stopped")
			return

		case d := <-p.frameTickerReset:
			ticker.Reset(d)
			log.Info("frame interval changed", "frame_interval", d)

		case <-ticker.C:
			p.processFrame()
		}
	}
}

func (p *Pipeline) gateConfig() gaze.Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gate.Config()
}

// processFrame runs one capture→score→gate cycle.
func (p *Pipeline) processFrame() {
	frame, err := p.video.CaptureJPEG()
	if err != nil {
		log.Warn("frame capture failed", "err", err)
		return
	}

	if p.onFrame != nil {
		p.onFrame(frame)
	}

	p.mu.Lock()
	p.status.Frames++
	p.mu.Unlock()

	lms, found, err := p.mesher.DetectLandmarks(frame)
	if err != nil {
		log.Warn("landmark extraction failed", "err", err)
		return
	}
	if !found {
		p.recordMiss()
		return
	}

	// Gate semantics require that frames without a face leave the window
	// untouched; only scored frames reach the gate.
	left, right := gaze.ProcessLandmarks(lms)
	score := math.Max(left, right)

	debug.FrameLog("frame: left=%.3f right=%.3f score=%.3f\n", left, right, score)

	if p.state != nil {
		p.state.UpdateScore(left, right, score)
	}

	now := p.now()

	p.mu.Lock()
	p.consecutiveMisses = 0
	p.status.Faces++
	p.status.FaceVisible = true
	p.status.LeftScore = left
	p.status.RightScore = right
	p.status.Score = score

	fired := p.gate.ShouldTrigger(score, now)
	amount := p.gate.Config().ScrollAmount
	p.status.Pending = p.gate.Pending()
	p.status.LastTriggered = p.gate.LastTriggered()
	if fired {
		p.status.Triggers++
	}
	p.mu.Unlock()

	if !fired {
		return
	}

	p.fire(TriggerEvent{
		ID:           uuid.NewString(),
		Score:        score,
		At:           now,
		ScrollAmount: amount,
	})
}

// fire runs the scroll action and notifies listeners.
func (p *Pipeline) fire(ev TriggerEvent) {
	if err := p.scroller.Scroll(ev.ScrollAmount); err != nil {
		log.Error("scroll action failed", "err", err, "event", ev.ID)
	} else {
		log.Info("eye roll confirmed", "event", ev.ID, "score", ev.Score, "scroll", ev.ScrollAmount)
	}

	if p.state != nil {
		p.state.AddLog("trigger", fmt.Sprintf("Eye roll at score %.2f → scroll %d", ev.Score, ev.ScrollAmount))
	}
	if p.onTrigger != nil {
		p.onTrigger(ev)
	}
}

// recordMiss tracks frames without a detected face.
func (p *Pipeline) recordMiss() {
	p.mu.Lock()
	p.consecutiveMisses++
	misses := p.consecutiveMisses
	threshold := p.cfg.MissLogAfter
	p.status.FaceVisible = false
	p.mu.Unlock()

	if threshold > 0 && misses == threshold {
		log.Debug("lost face", "consecutive_misses", misses)
		if p.state != nil {
			p.state.AddLog("face", "Lost face")
		}
	}
}

package gaze

import (
	"math"
	"testing"
)

func TestGate_FillGate(t *testing.T) {
	g := NewGate(Config{RollThreshold: 0.5, FramesRequired: 2, DebounceSeconds: 0})

	if g.ShouldTrigger(0.6, 1.0) {
		t.Error("single qualifying frame should not trigger with FramesRequired=2")
	}
	if !g.ShouldTrigger(0.7, 1.1) {
		t.Error("second consecutive qualifying frame should trigger")
	}
}

func TestGate_AllOrNothingStreak(t *testing.T) {
	g := NewGate(Config{RollThreshold: 0.5, FramesRequired: 3, DebounceSeconds: 0})

	// The 0.4 breaks every 3-window containing it.
	seq := []float64{0.9, 0.4, 0.9}
	for i, s := range seq {
		if g.ShouldTrigger(s, float64(i)) {
			t.Errorf("frame %d (score %v) should not trigger", i, s)
		}
	}

	// Sliding window continues: the 0.4 is evicted after two more appends,
	// at which point the window holds three consecutive qualifying scores.
	if g.ShouldTrigger(0.8, 3) {
		t.Error("window still contains the 0.4 frame")
	}
	if !g.ShouldTrigger(0.8, 4) {
		t.Error("three consecutive qualifying frames should trigger")
	}
}

func TestGate_DebounceFreezesAccumulation(t *testing.T) {
	g := NewGate(Config{RollThreshold: 0.5, FramesRequired: 1, DebounceSeconds: 1.0})

	if !g.ShouldTrigger(0.6, 10.0) {
		t.Fatal("first qualifying frame should trigger with FramesRequired=1")
	}
	if g.ShouldTrigger(0.7, 10.5) {
		t.Error("frame inside the cooldown should not trigger")
	}
	if g.Pending() != 0 {
		t.Errorf("cooldown frame was accumulated: pending=%d, want 0", g.Pending())
	}
	if !g.ShouldTrigger(0.8, 11.1) {
		t.Error("fresh qualifying frame after cooldown should trigger")
	}
}

func TestGate_DebounceFreeze_NoStaleCombination(t *testing.T) {
	// With FramesRequired=2, a score swallowed during cooldown must not pair
	// with the first post-cooldown score into an instant fire.
	g := NewGate(Config{RollThreshold: 0.5, FramesRequired: 2, DebounceSeconds: 1.0})

	if g.ShouldTrigger(0.9, 0.0) {
		t.Fatal("window not yet full")
	}
	if !g.ShouldTrigger(0.9, 0.1) {
		t.Fatal("expected fire on full qualifying window")
	}

	// Inside cooldown: frozen, not accumulated.
	if g.ShouldTrigger(0.9, 0.5) {
		t.Error("fire inside cooldown")
	}

	// First frame after cooldown: window is empty, so one frame cannot fire.
	if g.ShouldTrigger(0.9, 1.2) {
		t.Error("single post-cooldown frame fired; cooldown score leaked into the window")
	}
	if !g.ShouldTrigger(0.9, 1.3) {
		t.Error("full fresh streak after cooldown should fire")
	}
}

func TestGate_ClearOnFire(t *testing.T) {
	g := NewGate(Config{RollThreshold: 0.5, FramesRequired: 3, DebounceSeconds: 0})

	g.ShouldTrigger(0.8, 1)
	g.ShouldTrigger(0.8, 2)
	if !g.ShouldTrigger(0.8, 3) {
		t.Fatal("expected fire on third qualifying frame")
	}
	if g.Pending() != 0 {
		t.Errorf("window not cleared on fire: pending=%d", g.Pending())
	}

	// The very next frames must build a full fresh streak.
	if g.ShouldTrigger(0.8, 4) || g.ShouldTrigger(0.8, 5) {
		t.Error("fired before a fresh full streak")
	}
	if !g.ShouldTrigger(0.8, 6) {
		t.Error("fresh full streak should fire again")
	}
}

func TestGate_NaNFailsThreshold(t *testing.T) {
	g := NewGate(Config{RollThreshold: 0.5, FramesRequired: 2, DebounceSeconds: 0})

	g.ShouldTrigger(0.9, 1)
	if g.ShouldTrigger(math.NaN(), 2) {
		t.Error("NaN score must not qualify")
	}
	// NaN stays in the window until it slides out.
	if g.ShouldTrigger(0.9, 3) {
		t.Error("window still contains NaN")
	}
	if !g.ShouldTrigger(0.9, 4) {
		t.Error("expected fire once NaN slid out of the window")
	}
}

func TestGate_Determinism(t *testing.T) {
	cfg := Config{RollThreshold: 0.6, FramesRequired: 3, DebounceSeconds: 0.5}
	a := NewGate(cfg)
	b := NewGate(cfg)

	scores := []float64{0.1, 0.7, 0.8, 0.9, 0.2, 0.9, 0.9, 0.9, 0.9, 0.9, 0.65, 0.64, 0.9}
	for i, s := range scores {
		now := 0.2 * float64(i)
		ra := a.ShouldTrigger(s, now)
		rb := b.ShouldTrigger(s, now)
		if ra != rb {
			t.Fatalf("frame %d: gates diverged (%v vs %v)", i, ra, rb)
		}
	}
}

func TestGate_FirstFireNotDebounced(t *testing.T) {
	// A fresh gate has no previous fire, so the cooldown must not apply —
	// even at t=0 with a monotonic clock that starts at process start.
	g := NewGate(Config{RollThreshold: 0.5, FramesRequired: 1, DebounceSeconds: 1.0})
	if g.LastTriggered() != 0 {
		t.Errorf("LastTriggered = %v before any fire, want 0", g.LastTriggered())
	}
	if !g.ShouldTrigger(0.9, 0.0) {
		t.Error("expected first fire at t=0.0")
	}
	if g.LastTriggered() != 0.0 {
		t.Errorf("LastTriggered = %v, want 0.0", g.LastTriggered())
	}
	// Now the cooldown applies.
	if g.ShouldTrigger(0.9, 0.5) {
		t.Error("fire inside cooldown after first fire")
	}
}

func TestGate_SetConfig_ShrinkKeepsNewest(t *testing.T) {
	g := NewGate(Config{RollThreshold: 0.5, FramesRequired: 4, DebounceSeconds: 0})

	g.ShouldTrigger(0.1, 1) // will be dropped by the shrink
	g.ShouldTrigger(0.9, 2)
	g.ShouldTrigger(0.9, 3)

	cfg := g.Config()
	cfg.FramesRequired = 2
	g.SetConfig(cfg)

	if g.Pending() != 2 {
		t.Fatalf("pending = %d after shrink, want 2", g.Pending())
	}
	// The two newest scores both qualify, so the next frame slides the
	// window and fires.
	if !g.ShouldTrigger(0.9, 4) {
		t.Error("expected fire after shrink kept the newest qualifying scores")
	}
}

func TestGate_SetConfig_ClampsFramesRequired(t *testing.T) {
	g := NewGate(Config{RollThreshold: 0.5, FramesRequired: 0, DebounceSeconds: 0})
	if !g.ShouldTrigger(0.9, 1) {
		t.Error("FramesRequired clamped to 1 should fire on one qualifying frame")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.RollThreshold != 0.65 {
		t.Errorf("RollThreshold = %v, want 0.65", cfg.RollThreshold)
	}
	if cfg.FramesRequired != 3 {
		t.Errorf("FramesRequired = %v, want 3", cfg.FramesRequired)
	}
	if cfg.DebounceSeconds != 1.0 {
		t.Errorf("DebounceSeconds = %v, want 1.0", cfg.DebounceSeconds)
	}
	if cfg.ScrollAmount != 500 {
		t.Errorf("ScrollAmount = %v, want 500", cfg.ScrollAmount)
	}
}

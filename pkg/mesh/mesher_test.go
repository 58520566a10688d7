package mesh

import (
	"image"
	"math"
	"testing"

	"github.com/gazekit/gazescroll/pkg/gaze"
)

func TestSelectFace(t *testing.T) {
	if selectFace(nil) != nil {
		t.Error("expected nil for no detections")
	}

	single := []faceBox{{X: 0.1, Y: 0.1, W: 0.2, H: 0.2, Confidence: 0.6}}
	if got := selectFace(single); got != &single[0] {
		t.Error("single detection should be returned as-is")
	}

	// A confident small face beats a large uncertain one (0.7/0.3 weights).
	boxes := []faceBox{
		{W: 0.5, H: 0.5, Confidence: 0.55},
		{W: 0.2, H: 0.2, Confidence: 0.95},
	}
	got := selectFace(boxes)
	if got.Confidence != 0.95 {
		t.Errorf("selected confidence %v, want 0.95", got.Confidence)
	}
}

func TestROIRect_MarginAndClamp(t *testing.T) {
	b := faceBox{X: 0.25, Y: 0.25, W: 0.5, H: 0.5}
	r := roiRect(b, 400, 400, 0.1)

	// 10% of the box on each side: 0.25-0.05 .. 0.75+0.05 of 400px.
	want := image.Rect(80, 80, 320, 320)
	if r != want {
		t.Errorf("roiRect = %v, want %v", r, want)
	}

	// Box hanging off the edge clamps to image bounds.
	edge := faceBox{X: -0.1, Y: 0.8, W: 0.5, H: 0.5}
	r = roiRect(edge, 400, 400, 0.25)
	if r.Min.X < 0 || r.Min.Y < 0 || r.Max.X > 400 || r.Max.Y > 400 {
		t.Errorf("roiRect not clamped: %v", r)
	}
}

func TestMapLandmarks(t *testing.T) {
	// Two landmarks in a 192x192 mesh space, crop at (100,50) sized 192x96
	// inside a 400x200 frame.
	data := []float32{
		0, 0, 0, // top-left of the crop
		96, 192, 0, // center-x, bottom of the crop
	}
	roi := image.Rect(100, 50, 292, 146)

	lms := mapLandmarks(data, 2, roi, 400, 200, 192)

	if len(lms) != 2 {
		t.Fatalf("got %d landmarks, want 2", len(lms))
	}
	if math.Abs(lms[0].X-0.25) > 1e-9 || math.Abs(lms[0].Y-0.25) > 1e-9 {
		t.Errorf("lm0 = %+v, want {0.25 0.25}", lms[0])
	}
	// x: 100 + 96*(192/192) = 196 → 0.49; y: 50 + 192*(96/192) = 146 → 0.73
	if math.Abs(lms[1].X-0.49) > 1e-9 || math.Abs(lms[1].Y-0.73) > 1e-9 {
		t.Errorf("lm1 = %+v, want {0.49 0.73}", lms[1])
	}
}

func TestMapLandmarks_CoversEyeIndices(t *testing.T) {
	data := make([]float32, gaze.MinLandmarkCount*3)
	roi := image.Rect(0, 0, 192, 192)

	lms := mapLandmarks(data, gaze.MinLandmarkCount, roi, 192, 192, 192)
	if len(lms) < gaze.MinLandmarkCount {
		t.Fatalf("mapped %d landmarks, need at least %d", len(lms), gaze.MinLandmarkCount)
	}

	// The full set must be directly consumable by the score computer.
	left, right := gaze.ProcessLandmarks(lms)
	if left != 0 || right != 0 {
		t.Errorf("all-zero landmarks should score (0,0), got (%v,%v)", left, right)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.InputSize != 192 {
		t.Errorf("InputSize = %d, want 192", cfg.InputSize)
	}
	if cfg.ConfidenceThresh != 0.5 {
		t.Errorf("ConfidenceThresh = %v, want 0.5", cfg.ConfidenceThresh)
	}
	if cfg.ROIMargin <= 0 {
		t.Error("ROIMargin should default to a positive margin")
	}
}

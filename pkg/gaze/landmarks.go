// Package gaze computes eye-roll scores from face-mesh landmarks and
// converts the resulting per-frame score stream into a debounced trigger
// signal.
package gaze

// Landmark is a single face-mesh point in normalized image coordinates.
// Y grows downward. Values are usually within [0,1] but may exceed it
// slightly at the frame edges.
type Landmark struct {
	X, Y float64
}

// Face-mesh landmark indices for the eye triples, following the MediaPipe
// face-mesh topology with iris refinement. These are the only indices the
// scoring code reads; keep the topology dependency isolated here.
const (
	LeftEyeTop     = 159
	LeftEyeBottom  = 145
	LeftIrisCenter = 468

	RightEyeTop     = 386
	RightEyeBottom  = 374
	RightIrisCenter = 473

	// MinLandmarkCount is the smallest landmark set that covers both eye
	// triples. Mesh backends must deliver at least this many points.
	MinLandmarkCount = RightIrisCenter + 1
)

// eyePoints names the three vertical landmarks of one eye.
type eyePoints struct {
	top, bottom, iris int
}

var (
	leftEye  = eyePoints{top: LeftEyeTop, bottom: LeftEyeBottom, iris: LeftIrisCenter}
	rightEye = eyePoints{top: RightEyeTop, bottom: RightEyeBottom, iris: RightIrisCenter}
)

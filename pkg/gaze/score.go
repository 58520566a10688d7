package gaze

// EyeRollScore maps the vertical positions of one eye's top lid, bottom lid
// and iris center to a normalized roll score. The score is unitless and
// eye-size invariant: dividing by eye height normalizes for face distance
// and zoom.
//
// Because y grows downward, an iris riding above the eye top yields a
// positive score, a centered iris yields roughly zero, and an iris near the
// bottom lid yields a negative score. Genuine upward rolls land in (0, 1].
//
// Non-positive eye height (inverted or collapsed geometry from tracking
// noise) is not an error; it means "no reliable signal" and scores 0.
func EyeRollScore(topY, bottomY, irisY float64) float64 {
	eyeHeight := bottomY - topY
	if eyeHeight <= 0 {
		return 0
	}
	return (topY - irisY) / eyeHeight
}

// ProcessLandmarks scores both eyes independently from a full landmark set.
// It is a pure projection: it reads exactly the six eye-triple indices and
// mutates nothing. Callers typically reduce the pair with max, since either
// eye rolling counts as signal.
//
// The landmark slice must cover MinLandmarkCount points; mesh backends
// guarantee this upstream.
func ProcessLandmarks(lms []Landmark) (left, right float64) {
	left = scoreEye(lms, leftEye)
	right = scoreEye(lms, rightEye)
	return left, right
}

func scoreEye(lms []Landmark, eye eyePoints) float64 {
	return EyeRollScore(lms[eye.top].Y, lms[eye.bottom].Y, lms[eye.iris].Y)
}

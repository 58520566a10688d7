// Package mesh extracts face-mesh landmarks from JPEG frames.
//
// The landmark model is treated as a black box: the pipeline only depends
// on the Mesher interface, and the bundled implementation runs external
// ONNX models through OpenCV's DNN module.
package mesh

import (
	"github.com/gazekit/gazescroll/pkg/gaze"
)

// Mesher is the interface for landmark extraction backends.
type Mesher interface {
	// DetectLandmarks finds the first face in the JPEG frame and returns
	// its landmark set in normalized full-frame coordinates. ok is false
	// when no face is present; err is reserved for backend failures.
	DetectLandmarks(jpeg []byte) (lms []gaze.Landmark, ok bool, err error)

	// Close releases backend resources.
	Close() error
}

// Config holds mesher configuration.
type Config struct {
	// FaceModelPath is the YuNet face detector ONNX model, used to crop
	// the face region before mesh inference.
	FaceModelPath string `json:"face_model" yaml:"face_model"`

	// MeshModelPath is the face-mesh ONNX model. It must produce at least
	// gaze.MinLandmarkCount points (i.e. the iris-refined topology).
	MeshModelPath string `json:"mesh_model" yaml:"mesh_model"`

	// ConfidenceThresh is the minimum face detection confidence.
	ConfidenceThresh float64 `json:"confidence" yaml:"confidence"`

	// InputSize is the square mesh model input edge in pixels.
	InputSize int `json:"input_size" yaml:"input_size"`

	// ROIMargin expands the detected face box by this fraction on every
	// side before cropping, so eyebrows and lids stay inside the crop.
	ROIMargin float64 `json:"roi_margin" yaml:"roi_margin"`
}

// DefaultConfig returns production defaults for YuNet + the iris-refined
// face mesh.
func DefaultConfig() Config {
	return Config{
		FaceModelPath:    "models/face_detection_yunet.onnx",
		MeshModelPath:    "models/face_mesh_with_iris.onnx",
		ConfidenceThresh: 0.5,
		InputSize:        192,
		ROIMargin:        0.25,
	}
}

// faceBox is one detected face region in normalized 0-1 coordinates.
type faceBox struct {
	X, Y, W, H float64
	Confidence float64
}

func (b faceBox) area() float64 {
	return b.W * b.H
}

// selectFace picks the face to track from multiple detections, weighing
// confidence over size. Everything beyond this one face is ignored.
func selectFace(boxes []faceBox) *faceBox {
	if len(boxes) == 0 {
		return nil
	}
	if len(boxes) == 1 {
		return &boxes[0]
	}

	maxArea := 0.0
	for _, b := range boxes {
		if b.area() > maxArea {
			maxArea = b.area()
		}
	}

	bestScore := -1.0
	var best *faceBox
	for i := range boxes {
		score := boxes[i].Confidence*0.7 + (boxes[i].area()/maxArea)*0.3
		if score > bestScore {
			bestScore = score
			best = &boxes[i]
		}
	}
	return best
}

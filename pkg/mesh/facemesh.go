package mesh

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/gazekit/gazescroll/pkg/debug"
	"github.com/gazekit/gazescroll/pkg/gaze"
)

// FaceMesh extracts landmarks in two stages: YuNet finds the face region,
// then a face-mesh ONNX net refines it into the full landmark topology.
type FaceMesh struct {
	detector gocv.FaceDetectorYN
	net      gocv.Net
	config   Config
	mu       sync.Mutex // Protects inference
}

// NewFaceMesh loads both models and prepares them for inference.
func NewFaceMesh(cfg Config) (*FaceMesh, error) {
	if _, err := os.Stat(cfg.FaceModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("face model not found: %s", cfg.FaceModelPath)
	}
	if _, err := os.Stat(cfg.MeshModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("mesh model not found: %s", cfg.MeshModelPath)
	}

	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.FaceModelPath,
		"",                          // No config file needed for ONNX
		image.Pt(320, 320),          // Initial input size, updated per-image
		float32(cfg.ConfidenceThresh),
		0.3,  // NMS threshold
		5000, // Top K
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	net := gocv.ReadNetFromONNX(cfg.MeshModelPath)
	if net.Empty() {
		detector.Close()
		return nil, fmt.Errorf("load mesh model: %s", cfg.MeshModelPath)
	}

	return &FaceMesh{
		detector: detector,
		net:      net,
		config:   cfg,
	}, nil
}

// DetectLandmarks finds the first face and returns its landmark set in
// normalized full-frame coordinates.
func (m *FaceMesh) DetectLandmarks(jpeg []byte) ([]gaze.Landmark, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return nil, false, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, false, fmt.Errorf("empty image")
	}

	face := m.detectFace(img)
	if face == nil {
		return nil, false, nil
	}

	roi := roiRect(*face, img.Cols(), img.Rows(), m.config.ROIMargin)
	if roi.Dx() < 8 || roi.Dy() < 8 {
		return nil, false, nil
	}

	lms, err := m.meshLandmarks(img, roi)
	if err != nil {
		return nil, false, err
	}

	debug.FrameLog("mesh: %d landmarks in face %.2f,%.2f %.2fx%.2f\n",
		len(lms), face.X, face.Y, face.W, face.H)
	return lms, true, nil
}

// detectFace runs YuNet and returns the selected face, or nil.
func (m *FaceMesh) detectFace(img gocv.Mat) *faceBox {
	imgW := float64(img.Cols())
	imgH := float64(img.Rows())

	m.detector.SetInputSize(image.Pt(img.Cols(), img.Rows()))

	faces := gocv.NewMat()
	defer faces.Close()

	m.detector.Detect(img, &faces)

	var boxes []faceBox
	for r := 0; r < faces.Rows(); r++ {
		// YuNet row: 0-3 box (pixels), 4-13 coarse landmarks, 14 score.
		boxes = append(boxes, faceBox{
			X:          float64(faces.GetFloatAt(r, 0)) / imgW,
			Y:          float64(faces.GetFloatAt(r, 1)) / imgH,
			W:          float64(faces.GetFloatAt(r, 2)) / imgW,
			H:          float64(faces.GetFloatAt(r, 3)) / imgH,
			Confidence: float64(faces.GetFloatAt(r, 14)),
		})
	}

	return selectFace(boxes)
}

// meshLandmarks runs the mesh net on the face crop and maps the output
// back into normalized full-frame coordinates.
func (m *FaceMesh) meshLandmarks(img gocv.Mat, roi image.Rectangle) ([]gaze.Landmark, error) {
	crop := img.Region(roi)
	defer crop.Close()

	size := image.Pt(m.config.InputSize, m.config.InputSize)
	blob := gocv.BlobFromImage(crop, 1.0/255.0, size, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	m.net.SetInput(blob, "")
	out := m.net.Forward("")
	defer out.Close()

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read mesh output: %w", err)
	}

	// The model emits x,y,z triples in mesh-input pixel space.
	count := len(data) / 3
	if count < gaze.MinLandmarkCount {
		return nil, fmt.Errorf("mesh output has %d landmarks, need %d (iris-refined model required)",
			count, gaze.MinLandmarkCount)
	}

	return mapLandmarks(data, count, roi, img.Cols(), img.Rows(), m.config.InputSize), nil
}

// roiRect expands a normalized face box by margin on every side, converts
// to pixels and clamps to the image bounds.
func roiRect(b faceBox, imgW, imgH int, margin float64) image.Rectangle {
	x0 := (b.X - b.W*margin) * float64(imgW)
	y0 := (b.Y - b.H*margin) * float64(imgH)
	x1 := (b.X + b.W*(1+margin)) * float64(imgW)
	y1 := (b.Y + b.H*(1+margin)) * float64(imgH)

	r := image.Rect(int(x0), int(y0), int(x1), int(y1))
	return r.Intersect(image.Rect(0, 0, imgW, imgH))
}

// mapLandmarks converts mesh-input pixel triples to normalized full-frame
// landmarks.
func mapLandmarks(data []float32, count int, roi image.Rectangle, imgW, imgH, inputSize int) []gaze.Landmark {
	lms := make([]gaze.Landmark, count)
	scaleX := float64(roi.Dx()) / float64(inputSize)
	scaleY := float64(roi.Dy()) / float64(inputSize)

	for i := 0; i < count; i++ {
		px := float64(data[i*3]) * scaleX
		py := float64(data[i*3+1]) * scaleY
		lms[i] = gaze.Landmark{
			X: (float64(roi.Min.X) + px) / float64(imgW),
			Y: (float64(roi.Min.Y) + py) / float64(imgH),
		}
	}
	return lms
}

// Close releases both models.
func (m *FaceMesh) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.detector.Close()
	return m.net.Close()
}

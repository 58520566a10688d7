package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Webcam reads frames from a local capture device via OpenCV and encodes
// them as JPEG.
type Webcam struct {
	cfg Config
	cap *gocv.VideoCapture

	// Reused between captures to avoid per-frame Mat allocations.
	frame   gocv.Mat
	mirror  gocv.Mat
	encoder []int

	mu sync.Mutex
}

// Open opens the configured capture device and applies the requested mode.
func Open(cfg Config) (*Webcam, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("camera config: %w", err)
	}

	cap, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", cfg.Device, err)
	}

	cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	cap.Set(gocv.VideoCaptureFPS, float64(cfg.FPS))

	return &Webcam{
		cfg:     cfg,
		cap:     cap,
		frame:   gocv.NewMat(),
		mirror:  gocv.NewMat(),
		encoder: []int{gocv.IMWriteJpegQuality, cfg.Quality},
	}, nil
}

// CaptureJPEG grabs the next frame and returns it JPEG-encoded. The
// returned slice is owned by the caller.
func (w *Webcam) CaptureJPEG() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ok := w.cap.Read(&w.frame); !ok {
		return nil, fmt.Errorf("camera %d: read failed", w.cfg.Device)
	}
	if w.frame.Empty() {
		return nil, fmt.Errorf("camera %d: empty frame", w.cfg.Device)
	}

	img := w.frame
	if w.cfg.Mirror {
		gocv.Flip(w.frame, &w.mirror, 1)
		img = w.mirror
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, w.encoder)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// Copy out: the native buffer is freed on Close.
	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}

// Config returns the capture configuration in use.
func (w *Webcam) Config() Config {
	return w.cfg
}

// Close releases the capture device and working buffers.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.frame.Close()
	w.mirror.Close()
	return w.cap.Close()
}

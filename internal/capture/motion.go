package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion detection constants
const (
	// blurKernelSize is the kernel size for Gaussian blur (21x21).
	blurKernelSize = 21
	// diffThreshold is the binary threshold applied to the frame difference.
	diffThreshold = 25
)

// Motion is the result of comparing one frame against the previous one.
type Motion struct {
	// Active reports whether the changed-pixel fraction exceeded the
	// detector threshold.
	Active bool
	// ChangePercent is the percentage of pixels that changed (0-100).
	ChangePercent float64
}

// MotionDetector compares consecutive frames so the pipeline can drop
// to a low frame rate while the scene is still. It uses grayscale frame
// differencing with Gaussian blur for noise reduction.
type MotionDetector struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewMotionDetector creates a MotionDetector that reports motion when
// more than threshold percent of pixels change between frames (so 1.0
// means one percent of the image). The threshold is fixed for the
// lifetime of the detector.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect compares a frame against the previous one.
//
// The frame is converted to grayscale and blurred (21x21 kernel), the
// absolute difference with the previous frame is thresholded at 25, and
// the fraction of non-zero pixels becomes the change percentage. The
// first frame only seeds the baseline and never reports motion.
func (m *MotionDetector) Detect(frame *gocv.Mat) Motion {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return Motion{}
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernelSize, Y: blurKernelSize}, 0, 0, gocv.BorderDefault)

	if !m.initialized {
		blurred.CopyTo(&m.prevGray)
		m.initialized = true
		return Motion{}
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, diffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()
	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&m.prevGray)

	return Motion{
		Active:        changePercent > m.threshold,
		ChangePercent: changePercent,
	}
}

// Reset clears the baseline so the next frame seeds a fresh one.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear()
}

// Close releases resources used by the motion detector.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear()
}

func (m *MotionDetector) clear() {
	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}

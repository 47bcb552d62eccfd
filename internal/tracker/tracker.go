// Package tracker produces per-frame hand landmarks from camera frames.
//
// The production implementation bridges to a Python MediaPipe process;
// the pipeline only sees the Tracker interface and a slice of
// landmark.Hand values per frame.
package tracker

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/landmark"
)

// Tracker defines the interface for hand tracking implementations.
type Tracker interface {
	// Track analyzes a video frame and returns detected hands, each
	// stamped with the given frame timestamp. Returns an empty slice
	// if no hands are detected.
	Track(frame *gocv.Mat, timestampMs int64) ([]landmark.Hand, error)

	// Close releases any resources held by the tracker.
	Close() error
}

// Config holds configuration options for hand tracking.
type Config struct {
	// MaxHands is the maximum number of hands to track (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// MirrorHandedness swaps the Left/Right labels reported by the
	// tracking backend. The camera feed is flipped horizontally so the
	// preview behaves like a mirror, which inverts handedness as seen
	// by the model.
	MirrorHandedness bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:         2,
		MinConfidence:    0.5,
		MinTrackingConf:  0.5,
		MirrorHandedness: true,
	}
}

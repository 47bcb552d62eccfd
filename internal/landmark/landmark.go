// Package landmark defines the hand landmark types produced by the tracking
// layer and consumed by gesture recognition.
package landmark

import (
	"fmt"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Fingertips lists the five fingertip landmark indices, thumb first.
var Fingertips = [5]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// MCPJoints lists the knuckle landmarks whose centroid approximates the
// palm center. The thumb contributes its MCP like the other fingers.
var MCPJoints = [5]int{ThumbMCP, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

// Handedness labels which hand a set of landmarks belongs to, from the
// camera subject's point of view.
type Handedness string

const (
	Left  Handedness = "Left"
	Right Handedness = "Right"
)

// Flipped returns the opposite handedness. Labels reported on a horizontally
// mirrored frame refer to the mirrored image and must be flipped back.
func (h Handedness) Flipped() Handedness {
	switch h {
	case Left:
		return Right
	case Right:
		return Left
	default:
		return h
	}
}

// Point3D is a single landmark position. X and Y are normalized to the frame
// (0..1, origin top-left); Z is relative depth with the wrist near zero.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand is one detected hand: 21 landmarks plus detection metadata for the
// frame it was observed in.
type Hand struct {
	Points      [NumLandmarks]Point3D `json:"points"`
	Handedness  Handedness            `json:"handedness"`
	Score       float64               `json:"score"`
	TimestampMs int64                 `json:"timestamp_ms"`
}

// Validate reports whether every landmark coordinate is a finite number.
// Trackers occasionally emit NaN or Inf positions mid-occlusion; callers
// should treat a hand that fails validation as absent for the frame.
func (h *Hand) Validate() error {
	if h == nil {
		return fmt.Errorf("nil hand")
	}
	for i, p := range h.Points {
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return fmt.Errorf("landmark %d has non-finite coordinates (%v, %v, %v)", i, p.X, p.Y, p.Z)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Package gesture recognizes the hand poses that drive the control
// pipeline: the claw grip that engages a session and the wrist rotation
// that adjusts a level while the grip is held.
package gesture

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/mudra/internal/geom"
	"github.com/ayusman/mudra/internal/landmark"
)

// ClawConfig holds the pose thresholds for claw detection. Distances are in
// normalized image units (frame width = 1.0).
type ClawConfig struct {
	// MaxSpread is the largest mean pairwise fingertip distance that still
	// counts as a claw.
	MaxSpread float64
	// MaxPalmDistance is how far a fingertip may sit from the palm center
	// while still counting as curled in.
	MaxPalmDistance float64
	// MinFingersClose is how many fingertips must be within MaxPalmDistance.
	MinFingersClose int
}

// DefaultClawConfig returns the thresholds tuned for a webcam at arm's length.
func DefaultClawConfig() ClawConfig {
	return ClawConfig{
		MaxSpread:       0.15,
		MaxPalmDistance: 0.20,
		MinFingersClose: 3,
	}
}

// Hysteresis applied while a claw is already engaged: the spread may drift a
// fifth past the threshold and one fewer finger may qualify before the grip
// releases. Without this, a borderline pose flickers in and out of
// engagement and resets the rotation baseline every few frames.
const (
	spreadReleaseFactor = 1.2
	minReleaseFingers   = 2
)

// ClawResult reports one frame of claw detection alongside the measurements
// that produced it, for logging and telemetry.
type ClawResult struct {
	Claw         bool    `json:"claw"`
	Spread       float64 `json:"spread"`
	FingersClose int     `json:"fingers_close"`
}

// ClawDetector decides per frame whether a hand is holding the claw pose.
// It keeps one bit of state, whether the previous frame was a claw, so it
// can apply release hysteresis. Use one detector per hand.
type ClawDetector struct {
	cfg     ClawConfig
	engaged bool
}

// NewClawDetector creates a detector with the given thresholds. Zero fields
// fall back to their defaults.
func NewClawDetector(cfg ClawConfig) *ClawDetector {
	def := DefaultClawConfig()
	if cfg.MaxSpread <= 0 {
		cfg.MaxSpread = def.MaxSpread
	}
	if cfg.MaxPalmDistance <= 0 {
		cfg.MaxPalmDistance = def.MaxPalmDistance
	}
	if cfg.MinFingersClose <= 0 {
		cfg.MinFingersClose = def.MinFingersClose
	}
	return &ClawDetector{cfg: cfg}
}

// Detect classifies the hand for the current frame. A nil hand releases any
// engaged claw and reports no pose.
//
// A landmark zeroed on all three axes marks a joint the tracker could not
// place (occlusion). Missing fingertips never qualify and are left out of
// the spread; missing knuckles are left out of the palm centroid.
func (d *ClawDetector) Detect(hand *landmark.Hand) ClawResult {
	if hand == nil {
		d.engaged = false
		return ClawResult{}
	}

	tips := make([]landmark.Point3D, 0, len(landmark.Fingertips))
	for _, idx := range landmark.Fingertips {
		if p := hand.Points[idx]; !missing(p) {
			tips = append(tips, p)
		}
	}

	mcps := make([]landmark.Point3D, 0, len(landmark.MCPJoints))
	for _, idx := range landmark.MCPJoints {
		if p := hand.Points[idx]; !missing(p) {
			mcps = append(mcps, p)
		}
	}
	palm, err := geom.Centroid(mcps)
	if err != nil {
		d.engaged = false
		return ClawResult{}
	}

	spread := meanSpread(tips)

	maxSpread := d.cfg.MaxSpread
	minClose := d.cfg.MinFingersClose
	if d.engaged {
		maxSpread *= spreadReleaseFactor
		minClose = max(minReleaseFingers, d.cfg.MinFingersClose-1)
	}

	curled := 0
	for _, tip := range tips {
		if geom.Distance(tip, palm) < d.cfg.MaxPalmDistance {
			curled++
		}
	}

	claw := spread < maxSpread && curled >= minClose
	d.engaged = claw

	return ClawResult{Claw: claw, Spread: spread, FingersClose: curled}
}

// Reset drops the engaged state so the next frame is judged with the strict
// entry thresholds. Call it when the hand leaves the frame.
func (d *ClawDetector) Reset() {
	d.engaged = false
}

// meanSpread returns the mean pairwise distance between the fingertips.
func meanSpread(tips []landmark.Point3D) float64 {
	dists := make([]float64, 0, len(tips)*(len(tips)-1)/2)
	for i := 0; i < len(tips); i++ {
		for j := i + 1; j < len(tips); j++ {
			dists = append(dists, geom.Distance(tips[i], tips[j]))
		}
	}
	if len(dists) == 0 {
		return 0
	}
	return stat.Mean(dists, nil)
}

func missing(p landmark.Point3D) bool {
	return p.X == 0 && p.Y == 0 && p.Z == 0
}

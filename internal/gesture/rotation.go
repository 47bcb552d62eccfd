package gesture

import (
	"github.com/ayusman/mudra/internal/geom"
	"github.com/ayusman/mudra/internal/landmark"
)

// RotationState names the phases of a rotation session.
type RotationState string

const (
	// RotationIdle means no claw is engaged and no rotation is tracked.
	RotationIdle RotationState = "idle"
	// RotationTracking means a claw is engaged and wrist rotation is being
	// accumulated against the engagement baseline.
	RotationTracking RotationState = "tracking"
)

// RotationConfig configures a RotationTracker.
type RotationConfig struct {
	// Mirror inverts the accumulated angle. A left hand twisting clockwise
	// produces the mirror image of a right hand doing the same, so the left
	// session sets this to keep "twist right = increase" for both hands.
	Mirror bool
}

// RotationTracker accumulates wrist rotation while a claw grip is held.
//
// The grip angle is the orientation of the vector across the knuckles, from
// the index MCP to the pinky MCP. Those joints barely move while the
// fingertips are bunched into the claw, so the vector is a low-noise proxy
// for palm rotation about the camera axis. On engagement that angle becomes
// the baseline; each following frame adds the unwrapped frame-to-frame
// delta, so the accumulated angle is continuous even when the raw
// measurement crosses the +/-180 seam, and a full twist past the seam keeps
// counting rather than snapping back.
type RotationTracker struct {
	mirror      bool
	state       RotationState
	lastAngle   float64
	accumulated float64
}

// NewRotationTracker creates an idle tracker.
func NewRotationTracker(cfg RotationConfig) *RotationTracker {
	return &RotationTracker{
		mirror: cfg.Mirror,
		state:  RotationIdle,
	}
}

// Update advances the tracker with the hand observed this frame and whether
// the claw pose is held. A nil hand or a released claw returns the tracker
// to idle and clears the accumulated angle.
func (t *RotationTracker) Update(hand *landmark.Hand, claw bool) {
	if hand == nil || !claw {
		t.Reset()
		return
	}

	angle := gripAngle(hand)

	if t.state != RotationTracking {
		// Engagement frame: the current orientation is the zero point.
		t.state = RotationTracking
		t.lastAngle = angle
		t.accumulated = 0
		return
	}

	// lastAngle holds the unwrapped (continuous) angle, so it can wander
	// arbitrarily far from the base range as whole turns accumulate.
	unwrapped := geom.Unwrap(t.lastAngle, angle)
	t.accumulated += unwrapped - t.lastAngle
	t.lastAngle = unwrapped
}

// Reset returns the tracker to idle. The next engagement starts from a
// fresh baseline; nothing carries over.
func (t *RotationTracker) Reset() {
	t.state = RotationIdle
	t.lastAngle = 0
	t.accumulated = 0
}

// State returns the current phase.
func (t *RotationTracker) State() RotationState {
	return t.state
}

// Active reports whether a claw is engaged and rotation is being tracked.
func (t *RotationTracker) Active() bool {
	return t.state == RotationTracking
}

// Angle returns the rotation accumulated since engagement, in degrees,
// positive for a clockwise twist on screen. Mirrored trackers negate it.
func (t *RotationTracker) Angle() float64 {
	if t.mirror {
		return -t.accumulated
	}
	return t.accumulated
}

// gripAngle measures the hand's orientation as the angle of the knuckle
// line, index MCP to pinky MCP.
func gripAngle(hand *landmark.Hand) float64 {
	return geom.VectorAngle(hand.Points[landmark.IndexMCP], hand.Points[landmark.PinkyMCP])
}

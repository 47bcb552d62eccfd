package landmark

import "math"

// ClawLandmarks returns a preset Hand holding a claw pose: all five
// fingertips pinched into a tight cluster above the palm center. The
// geometry is comfortably inside the claw thresholds so tests can rotate
// or perturb it without falling out of the pose.
func ClawLandmarks(hd Handedness) Hand {
	h := Hand{
		Handedness: hd,
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	// Knuckles fan out around the palm; their centroid is the palm center.
	h.Points[ThumbCMC] = Point3D{X: 0.545, Y: 0.72, Z: 0.0}
	h.Points[ThumbMCP] = Point3D{X: 0.56, Y: 0.62, Z: 0.0}
	h.Points[IndexMCP] = Point3D{X: 0.54, Y: 0.58, Z: 0.0}
	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.57, Z: 0.0}
	h.Points[RingMCP] = Point3D{X: 0.46, Y: 0.59, Z: 0.0}
	h.Points[PinkyMCP] = Point3D{X: 0.43, Y: 0.62, Z: 0.0}

	// Fingers curl inward so the tips bunch together near (0.50, 0.52).
	h.Points[ThumbIP] = Point3D{X: 0.545, Y: 0.58, Z: -0.01}
	h.Points[ThumbTip] = Point3D{X: 0.525, Y: 0.545, Z: -0.03}

	h.Points[IndexPIP] = Point3D{X: 0.545, Y: 0.545, Z: -0.01}
	h.Points[IndexDIP] = Point3D{X: 0.53, Y: 0.525, Z: -0.02}
	h.Points[IndexTip] = Point3D{X: 0.515, Y: 0.51, Z: -0.03}

	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.535, Z: -0.01}
	h.Points[MiddleDIP] = Point3D{X: 0.497, Y: 0.518, Z: -0.02}
	h.Points[MiddleTip] = Point3D{X: 0.495, Y: 0.505, Z: -0.03}

	h.Points[RingPIP] = Point3D{X: 0.465, Y: 0.55, Z: -0.01}
	h.Points[RingDIP] = Point3D{X: 0.47, Y: 0.53, Z: -0.02}
	h.Points[RingTip] = Point3D{X: 0.475, Y: 0.515, Z: -0.03}

	h.Points[PinkyPIP] = Point3D{X: 0.44, Y: 0.59, Z: -0.01}
	h.Points[PinkyDIP] = Point3D{X: 0.45, Y: 0.56, Z: -0.02}
	h.Points[PinkyTip] = Point3D{X: 0.46, Y: 0.535, Z: -0.03}

	return h
}

// OpenPalmLandmarks returns a preset Hand with all fingers extended.
// The fingertip spread is far outside the claw thresholds.
func OpenPalmLandmarks(hd Handedness) Hand {
	h := Hand{
		Handedness: hd,
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	h.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	h.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	h.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	h.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	h.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	h.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	h.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	h.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	h.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	h.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	h.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	h.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	h.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	h.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	h.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	h.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return h
}

// Rotated returns a copy of the hand with every landmark rotated about the
// wrist by the given angle in degrees. Pairwise distances are preserved, so
// a rotated claw pose is still a claw pose; only its orientation changes.
func (h Hand) Rotated(degrees float64) Hand {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	wrist := h.Points[Wrist]

	out := h
	for i := range out.Points {
		dx := h.Points[i].X - wrist.X
		dy := h.Points[i].Y - wrist.Y
		out.Points[i].X = wrist.X + dx*cos - dy*sin
		out.Points[i].Y = wrist.Y + dx*sin + dy*cos
	}
	return out
}

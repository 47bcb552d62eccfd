// Package geom holds the small planar-geometry helpers shared by the
// gesture recognizers. Landmarks carry a depth estimate, but MediaPipe's Z
// is too noisy for thresholding, so every measurement here works on the XY
// image plane only.
package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/mudra/internal/landmark"
)

// ErrInvalidInput is returned when a computation receives input it cannot
// produce a meaningful result for, such as a centroid of zero points.
var ErrInvalidInput = errors.New("geom: invalid input")

// Distance returns the Euclidean distance between two landmarks in the
// image plane. Z is ignored.
func Distance(a, b landmark.Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Centroid returns the arithmetic mean position of the given points.
func Centroid(points []landmark.Point3D) (landmark.Point3D, error) {
	if len(points) == 0 {
		return landmark.Point3D{}, fmt.Errorf("%w: centroid of empty point set", ErrInvalidInput)
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	zs := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
		zs[i] = p.Z
	}

	return landmark.Point3D{
		X: stat.Mean(xs, nil),
		Y: stat.Mean(ys, nil),
		Z: stat.Mean(zs, nil),
	}, nil
}

// VectorAngle returns the orientation of the vector from -> to in degrees.
// The result is in (-180, 180]: 0 points along +X, 90 along +Y (down in
// image coordinates), and the -180 branch of atan2 is folded onto +180 so
// every orientation has exactly one representation.
func VectorAngle(from, to landmark.Point3D) float64 {
	deg := math.Atan2(to.Y-from.Y, to.X-from.X) * 180 / math.Pi
	if deg == -180 {
		return 180
	}
	return deg
}

// Unwrap shifts next by whole turns until it lies within half a turn of
// prev, so consecutive angle samples can be differenced without a 360
// degree jump when the raw measurement crosses the +/-180 seam.
func Unwrap(prev, next float64) float64 {
	for next-prev > 180 {
		next -= 360
	}
	for next-prev < -180 {
		next += 360
	}
	return next
}

package gesture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/landmark"
)

// atGripAngle rotates the claw fixture so its knuckle line measures the
// given raw angle.
func atGripAngle(t *testing.T, degrees float64) *landmark.Hand {
	t.Helper()
	base := landmark.ClawLandmarks(landmark.Right)
	rotated := base.Rotated(degrees - gripAngle(&base))
	require.InDelta(t, degrees, gripAngle(&rotated), 1e-9)
	return &rotated
}

func TestRotationTracker_Engagement(t *testing.T) {
	t.Parallel()

	t.Run("starts idle", func(t *testing.T) {
		t.Parallel()
		tr := NewRotationTracker(RotationConfig{})
		assert.Equal(t, RotationIdle, tr.State())
		assert.False(t, tr.Active())
		assert.Zero(t, tr.Angle())
	})

	t.Run("claw engages with a zero baseline", func(t *testing.T) {
		t.Parallel()
		tr := NewRotationTracker(RotationConfig{})
		hand := landmark.ClawLandmarks(landmark.Right)

		tr.Update(&hand, true)

		assert.True(t, tr.Active())
		assert.Zero(t, tr.Angle(), "engagement frame sets the baseline, not a delta")
	})

	t.Run("claw false while idle stays idle", func(t *testing.T) {
		t.Parallel()
		tr := NewRotationTracker(RotationConfig{})
		hand := landmark.OpenPalmLandmarks(landmark.Right)

		tr.Update(&hand, false)

		assert.False(t, tr.Active())
	})

	t.Run("nil hand stays idle even with a stale claw flag", func(t *testing.T) {
		t.Parallel()
		tr := NewRotationTracker(RotationConfig{})
		tr.Update(nil, true)
		assert.False(t, tr.Active())
	})
}

func TestRotationTracker_Accumulation(t *testing.T) {
	t.Parallel()

	t.Run("tracks rotation relative to the engagement baseline", func(t *testing.T) {
		t.Parallel()
		tr := NewRotationTracker(RotationConfig{})
		base := landmark.ClawLandmarks(landmark.Right)

		tr.Update(&base, true)
		r25 := base.Rotated(25)
		tr.Update(&r25, true)
		assert.InDelta(t, 25, tr.Angle(), 1e-6)

		r40 := base.Rotated(40)
		tr.Update(&r40, true)
		assert.InDelta(t, 40, tr.Angle(), 1e-6)

		back := base.Rotated(-15)
		tr.Update(&back, true)
		assert.InDelta(t, -15, tr.Angle(), 1e-6)
	})

	t.Run("steady rotation through the seam keeps accumulating", func(t *testing.T) {
		t.Parallel()
		tr := NewRotationTracker(RotationConfig{})

		tr.Update(atGripAngle(t, 150), true)
		require.True(t, tr.Active())

		// Raw measurements cross +180 and come back around as negatives;
		// the accumulated angle must climb 20 degrees per frame throughout.
		prev := 0.0
		for i, raw := range []float64{170, -170, -150, -130, -110} {
			tr.Update(atGripAngle(t, raw), true)
			want := float64(i+1) * 20
			assert.InDelta(t, want, tr.Angle(), 1e-6, "frame %d raw %v", i, raw)
			assert.Greater(t, tr.Angle(), prev, "accumulation must be monotonic")
			prev = tr.Angle()
		}
	})

	t.Run("oscillating across the seam never jumps a full turn", func(t *testing.T) {
		t.Parallel()
		tr := NewRotationTracker(RotationConfig{})

		tr.Update(atGripAngle(t, 170), true)
		last := tr.Angle()
		for _, raw := range []float64{-170, 170, -170, 170} {
			tr.Update(atGripAngle(t, raw), true)
			step := math.Abs(tr.Angle() - last)
			assert.InDelta(t, 20, step, 1e-6, "raw %v moved by %v, want a 20 degree step", raw, step)
			last = tr.Angle()
		}
	})

	t.Run("accumulates beyond a full turn", func(t *testing.T) {
		t.Parallel()
		tr := NewRotationTracker(RotationConfig{})
		base := landmark.ClawLandmarks(landmark.Right)

		tr.Update(&base, true)
		for deg := 30.0; deg <= 450; deg += 30 {
			r := base.Rotated(deg)
			tr.Update(&r, true)
		}

		assert.InDelta(t, 450, tr.Angle(), 1e-6)
	})
}

func TestRotationTracker_Release(t *testing.T) {
	t.Parallel()

	t.Run("claw release resets to idle", func(t *testing.T) {
		t.Parallel()
		tr := NewRotationTracker(RotationConfig{})
		base := landmark.ClawLandmarks(landmark.Right)

		tr.Update(&base, true)
		r40 := base.Rotated(40)
		tr.Update(&r40, true)
		require.InDelta(t, 40, tr.Angle(), 1e-6)

		tr.Update(&r40, false)

		assert.False(t, tr.Active())
		assert.Zero(t, tr.Angle())
	})

	t.Run("hand absence resets to idle", func(t *testing.T) {
		t.Parallel()
		tr := NewRotationTracker(RotationConfig{})
		base := landmark.ClawLandmarks(landmark.Right)

		tr.Update(&base, true)
		tr.Update(nil, false)

		assert.False(t, tr.Active())
		assert.Zero(t, tr.Angle())
	})

	t.Run("re-engagement starts a fresh baseline", func(t *testing.T) {
		t.Parallel()
		tr := NewRotationTracker(RotationConfig{})
		base := landmark.ClawLandmarks(landmark.Right)

		tr.Update(&base, true)
		r40 := base.Rotated(40)
		tr.Update(&r40, true)
		tr.Update(nil, false)

		// New grip at a completely different orientation: zero again.
		r90 := base.Rotated(90)
		tr.Update(&r90, true)
		assert.Zero(t, tr.Angle())

		r100 := base.Rotated(100)
		tr.Update(&r100, true)
		assert.InDelta(t, 10, tr.Angle(), 1e-6, "only rotation since re-engagement counts")
	})
}

func TestRotationTracker_Mirror(t *testing.T) {
	t.Parallel()

	base := landmark.ClawLandmarks(landmark.Left)

	tr := NewRotationTracker(RotationConfig{Mirror: true})
	tr.Update(&base, true)
	r30 := base.Rotated(30)
	tr.Update(&r30, true)

	assert.InDelta(t, -30, tr.Angle(), 1e-6, "mirrored tracker negates the accumulated angle")

	plain := NewRotationTracker(RotationConfig{})
	plain.Update(&base, true)
	plain.Update(&r30, true)
	assert.InDelta(t, 30, plain.Angle(), 1e-6)
}

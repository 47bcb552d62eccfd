package app

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/actuator"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/tracker"
)

// waitFor polls cond until it reports true or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, msg string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

// testConfig returns a pipeline config tuned so tests resolve in well under
// a second: fast frame rates, a short idle timeout, and an aggressive mapper.
func testConfig(vol, bri actuator.Actuator) Config {
	return Config{
		CameraID:        -1,
		MotionThreshold: 1.0,
		IdleFPS:         20,
		ActiveFPS:       50,
		IdleTimeout:     150 * time.Millisecond,
		Claw:            gesture.DefaultClawConfig(),
		Mapper: control.MapperConfig{
			DeadzoneDeg:    20,
			RangeDeg:       180,
			Gain:           0.3,
			SmoothingAlpha: 0.5,
			EmitInterval:   20 * time.Millisecond,
		},
		Volume:     vol,
		Brightness: bri,
	}
}

func TestActuatorWorker_LatestWins(t *testing.T) {
	mock := actuator.NewMock("volume", 0)
	w := &actuatorWorker{
		act:    mock,
		levels: make(chan float64, 1),
		done:   make(chan struct{}),
		log:    zerolog.Nop(),
	}

	// Nothing is draining the channel yet, so the second submit must
	// replace the first rather than block behind it.
	w.submit(0.2)
	w.submit(0.7)

	go w.run()
	w.stop()

	calls := mock.Calls()
	if len(calls) != 1 || calls[0] != 0.7 {
		t.Errorf("Calls() = %v, want [0.7]", calls)
	}
}

func TestActuatorWorker_AppliesLevelsInOrder(t *testing.T) {
	mock := actuator.NewMock("brightness", 0)
	w := newActuatorWorker(mock, zerolog.Nop())

	w.submit(0.25)
	waitFor(t, 2*time.Second, "first level to apply", func() bool {
		return len(mock.Calls()) >= 1
	})

	w.submit(0.5)
	w.stop()

	calls := mock.Calls()
	if len(calls) != 2 || calls[0] != 0.25 || calls[1] != 0.5 {
		t.Errorf("Calls() = %v, want [0.25 0.5]", calls)
	}
}

func TestApp_StateBeforeStart(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test requiring OpenCV")
	}

	a := New(testConfig(nil, nil), zerolog.Nop())
	defer a.Stop()

	st := a.State()
	if st.Enabled {
		t.Error("new app should start disabled")
	}
	if st.Active {
		t.Error("new app should start idle")
	}
	if st.Frames != 0 {
		t.Errorf("Frames = %d, want 0", st.Frames)
	}
	if len(st.Sessions) != 2 {
		t.Fatalf("len(Sessions) = %d, want 2", len(st.Sessions))
	}
	if st.Sessions[0].Channel != control.Volume || st.Sessions[0].Hand != landmark.Right {
		t.Errorf("Sessions[0] = %s/%s, want volume/Right",
			st.Sessions[0].Channel, st.Sessions[0].Hand)
	}
	if st.Sessions[1].Channel != control.Brightness || st.Sessions[1].Hand != landmark.Left {
		t.Errorf("Sessions[1] = %s/%s, want brightness/Left",
			st.Sessions[1].Channel, st.Sessions[1].Hand)
	}
}

func TestApp_ClawRotationDrivesActuator(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	// Alternating black and white frames keep the motion detector firing
	// so the pipeline stays in active mode throughout.
	black := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	cam := capture.NewMockCamera([]*gocv.Mat{&black, &white}, true)

	// A right claw engages, holds for a few frames, then twists 60
	// degrees and holds the twist.
	claw := landmark.ClawLandmarks(landmark.Right)
	tr := tracker.NewMockTracker()
	tr.SetScript(
		[]landmark.Hand{claw},
		[]landmark.Hand{claw},
		[]landmark.Hand{claw},
	)
	tr.SetHands(claw.Rotated(60))

	vol := actuator.NewMock("volume", 0.5)
	bri := actuator.NewMock("brightness", 0.5)

	a := New(testConfig(vol, bri), zerolog.Nop())
	a.SetCamera(cam)
	a.SetTracker(tr)
	a.SetEnabled(true)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()

	waitFor(t, 5*time.Second, "volume session to engage", func() bool {
		st := a.State()
		return st.Active && st.Sessions[0].Engaged
	})

	// Engagement alone emits at the seeded level; the twist then raises it.
	waitFor(t, 5*time.Second, "volume actuation above the seed level", func() bool {
		calls := vol.Calls()
		return len(calls) > 0 && calls[len(calls)-1] > 0.55
	})

	st := a.State()
	if st.Sessions[0].CommandsEmitted == 0 {
		t.Error("volume session reports no commands emitted")
	}
	if st.Frames == 0 {
		t.Error("state reports no frames read")
	}

	// The left-hand session never saw a hand, so brightness stays put.
	if calls := bri.Calls(); len(calls) != 0 {
		t.Errorf("brightness Calls() = %v, want none", calls)
	}
	if st.Sessions[1].Engaged {
		t.Error("brightness session should not be engaged")
	}
}

func TestApp_IdleActiveModeSwitching(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	black := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	cam := capture.NewMockCamera([]*gocv.Mat{&black, &white}, true)

	cfg := testConfig(nil, nil)
	a := New(cfg, zerolog.Nop())
	a.SetCamera(cam)
	a.SetTracker(tracker.NewMockTracker())
	a.SetEnabled(true)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()

	waitFor(t, 3*time.Second, "switch to active mode", func() bool {
		return cam.FPS() == cfg.ActiveFPS
	})
	waitFor(t, 3*time.Second, "active state to publish", func() bool {
		return a.State().Active
	})

	// A static scene and no engaged session must drop the loop back to
	// the idle rate once the timeout passes.
	cam.SetFrames([]*gocv.Mat{&white})

	waitFor(t, 3*time.Second, "switch back to idle mode", func() bool {
		return cam.FPS() == cfg.IdleFPS
	})
	waitFor(t, 3*time.Second, "idle state to publish", func() bool {
		return !a.State().Active
	})
}

func TestApp_DisabledReadsNoFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	static := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer static.Close()

	cam := capture.NewMockCamera([]*gocv.Mat{&static}, true)
	tr := tracker.NewMockTracker()

	a := New(testConfig(nil, nil), zerolog.Nop())
	a.SetCamera(cam)
	a.SetTracker(tr)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()

	// Disabled is the default: the loop ticks but never touches the camera.
	time.Sleep(120 * time.Millisecond)
	if n := cam.Reads(); n != 0 {
		t.Errorf("Reads() = %d while disabled, want 0", n)
	}

	a.SetEnabled(true)
	waitFor(t, 3*time.Second, "frames to be read", func() bool {
		return cam.Reads() >= 2
	})

	// A static scene never leaves idle mode, so the tracker stays cold.
	if n := tr.Calls(); n != 0 {
		t.Errorf("tracker Calls() = %d in idle mode, want 0", n)
	}

	a.SetEnabled(false)
	time.Sleep(60 * time.Millisecond)
	before := cam.Reads()
	time.Sleep(150 * time.Millisecond)
	if after := cam.Reads(); after != before {
		t.Errorf("Reads() advanced from %d to %d while disabled", before, after)
	}
}

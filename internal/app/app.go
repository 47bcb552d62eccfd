// Package app runs the gesture control pipeline: camera frames through
// hand tracking into the two control sessions, and session commands out
// to the system actuators.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/actuator"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/tracker"
)

// Pipeline timing defaults.
const (
	// DefaultIdleFPS is the frame rate while the scene is still.
	DefaultIdleFPS = 5
	// DefaultActiveFPS is the frame rate while motion is seen or a
	// session is engaged.
	DefaultActiveFPS = 15
	// DefaultIdleTimeout is how long after the last motion the loop
	// drops back to the idle rate.
	DefaultIdleTimeout = 2 * time.Second
	// DefaultMotionThreshold is the percentage of changed pixels that
	// counts as motion.
	DefaultMotionThreshold = 1.0
)

// Config holds configuration options for the application.
type Config struct {
	CameraID        int
	CameraFlip      bool
	MotionThreshold float64
	IdleFPS         int
	ActiveFPS       int
	IdleTimeout     time.Duration
	Tracker         tracker.Config
	Claw            gesture.ClawConfig
	Mapper          control.MapperConfig

	// Volume and Brightness drive the two channels. A nil actuator
	// leaves its channel tracked but not actuated.
	Volume     actuator.Actuator
	Brightness actuator.Actuator
}

// State is a snapshot of the pipeline for the HTTP API and the
// telemetry feed.
type State struct {
	Enabled       bool             `json:"enabled"`
	Active        bool             `json:"active"`
	Frames        uint64           `json:"frames"`
	Hands         int              `json:"hands"`
	MotionPercent float64          `json:"motion_percent"`
	Sessions      []session.Status `json:"sessions"`
}

// App owns the camera, the tracker, one session per hand, and the
// actuator workers. The frame loop goroutine has exclusive use of the
// sessions; everything else sees only published State snapshots.
type App struct {
	config  Config
	camera  capture.Camera
	motion  *capture.MotionDetector
	tracker tracker.Tracker

	volume     *session.Session
	brightness *session.Session
	workers    map[control.Channel]*actuatorWorker

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	done    chan struct{}
	state   State

	log zerolog.Logger
}

// New creates a new App instance with the given configuration. Zero
// timing fields fall back to their defaults.
func New(config Config, log zerolog.Logger) *App {
	if config.MotionThreshold <= 0 {
		config.MotionThreshold = DefaultMotionThreshold
	}
	if config.IdleFPS <= 0 {
		config.IdleFPS = DefaultIdleFPS
	}
	if config.ActiveFPS < config.IdleFPS {
		config.ActiveFPS = DefaultActiveFPS
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultIdleTimeout
	}

	a := &App{
		config: config,
		camera: capture.NewCamera(config.CameraID, config.CameraFlip),
		motion: capture.NewMotionDetector(config.MotionThreshold),
		volume: session.New(session.Config{
			Hand:    landmark.Right,
			Channel: control.Volume,
			Claw:    config.Claw,
			Mapper:  config.Mapper,
		}, log),
		brightness: session.New(session.Config{
			Hand:    landmark.Left,
			Channel: control.Brightness,
			Claw:    config.Claw,
			Mapper:  config.Mapper,
		}, log),
		log: log.With().Str("component", "app").Logger(),
	}

	// Try MediaPipe first, fall back to a no-op tracker so the rest of
	// the system still runs without the Python sidecar installed.
	if mp, err := tracker.NewMediaPipeTracker(config.Tracker); err == nil {
		a.tracker = mp
		a.log.Info().Msg("using MediaPipe hand tracking")
	} else {
		a.log.Warn().Err(err).Msg("MediaPipe not available, using mock tracker")
		a.tracker = tracker.NewMockTracker()
	}

	a.state = a.snapshot(0, capture.Motion{}, false)
	return a
}

// SetEnabled enables or disables gesture processing. The frame loop
// keeps running either way so the camera stays warm.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
	a.state.Enabled = enabled
}

// IsEnabled returns whether gesture processing is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetTracker replaces the hand tracker. Call before Start.
func (a *App) SetTracker(t tracker.Tracker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tracker = t
}

// SetCamera replaces the camera. Call before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// State returns the last published pipeline snapshot.
func (a *App) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Start opens the camera, seeds the session levels from the actuators,
// and launches the frame loop. Calling Start on a running app is a
// no-op.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.config.IdleFPS)

	a.workers = map[control.Channel]*actuatorWorker{}
	if a.config.Volume != nil {
		a.workers[control.Volume] = newActuatorWorker(a.config.Volume, a.log)
	}
	if a.config.Brightness != nil {
		a.workers[control.Brightness] = newActuatorWorker(a.config.Brightness, a.log)
	}

	a.seedLevels()

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(a.stopCh, a.done)

	a.log.Info().Msg("pipeline started")
	return nil
}

// Stop halts the frame loop, then releases the camera, the tracker,
// and the actuator workers. Resources are released even when the loop
// never ran, so Stop is the single cleanup path. Safe to call more
// than once.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh := a.stopCh
	done := a.done
	a.stopCh = nil
	a.done = nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-done
		for _, w := range a.workers {
			w.stop()
		}
	}

	if err := a.camera.Close(); err != nil {
		a.log.Warn().Err(err).Msg("error closing camera")
	}
	a.motion.Close()
	if err := a.tracker.Close(); err != nil {
		a.log.Warn().Err(err).Msg("error closing tracker")
	}

	a.log.Info().Msg("pipeline stopped")
}

// seedLevels reads each actuator's current level so the first
// engagement adjusts from the system's real state instead of zero.
// Called with a.mu held, before the frame loop exists.
func (a *App) seedLevels() {
	ctx := context.Background()
	for ch, w := range a.workers {
		sess := a.sessionFor(ch)
		if sess == nil {
			continue
		}
		if !w.act.Available(ctx) {
			a.log.Warn().Str("channel", string(ch)).Msg("actuator unavailable, level starts at zero")
			continue
		}
		level, err := w.act.Level(ctx)
		if err != nil {
			a.log.Warn().Err(err).Str("channel", string(ch)).Msg("could not read current level")
			continue
		}
		sess.Seed(level)
		a.log.Info().Str("channel", string(ch)).Float64("level", level).Msg("seeded level")
	}
}

func (a *App) sessionFor(ch control.Channel) *session.Session {
	switch ch {
	case control.Volume:
		return a.volume
	case control.Brightness:
		return a.brightness
	}
	return nil
}

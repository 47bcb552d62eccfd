package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/actuator"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/session"
)

// runPipeline is the frame loop. It rests at the idle frame rate until
// motion wakes it, tracks hands at the active rate, and drops back to
// idle after IdleTimeout without motion. An engaged session pins the
// loop active so a perfectly still claw hand cannot starve itself of
// frames.
func (a *App) runPipeline(stopCh, done chan struct{}) {
	defer close(done)

	activeMode := false
	lastMotion := time.Now()
	var frames uint64
	frameInterval := time.Second / time.Duration(a.config.IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				if errors.Is(err, capture.ErrCameraNotOpen) {
					continue
				}
				a.log.Warn().Err(err).Msg("error reading frame")
				continue
			}
			frames++

			motion := a.motion.Detect(frame)
			engaged := a.volume.Status().Engaged || a.brightness.Status().Engaged

			if motion.Active || engaged {
				lastMotion = time.Now()
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(a.config.ActiveFPS)
					frameInterval = time.Second / time.Duration(a.config.ActiveFPS)
					ticker.Reset(frameInterval)
					a.log.Debug().Msg("switched to active mode")
				}
			} else if activeMode && time.Since(lastMotion) > a.config.IdleTimeout {
				activeMode = false
				a.camera.SetFPS(a.config.IdleFPS)
				frameInterval = time.Second / time.Duration(a.config.IdleFPS)
				ticker.Reset(frameInterval)
				a.log.Debug().Msg("switched to idle mode")
			}

			if !activeMode {
				frame.Close()
				st := a.snapshot(0, motion, false)
				st.Frames = frames
				a.publish(st)
				continue
			}

			timestampMs := time.Now().UnixMilli()
			hands, err := a.tracker.Track(frame, timestampMs)
			frame.Close()
			if err != nil {
				a.log.Warn().Err(err).Msg("hand tracking failed")
				continue
			}

			a.step(hands)

			st := a.snapshot(len(hands), motion, true)
			st.Frames = frames
			a.publish(st)
		}
	}
}

// step routes the frame's hands to their sessions. A session whose hand
// is absent this frame is fed nil so it can release.
func (a *App) step(hands []landmark.Hand) {
	a.feed(a.volume, pickHand(hands, landmark.Right))
	a.feed(a.brightness, pickHand(hands, landmark.Left))
}

func (a *App) feed(s *session.Session, hand *landmark.Hand) {
	cmd, err := s.Update(hand)
	if err != nil {
		a.log.Warn().Err(err).Str("channel", string(s.Channel())).Msg("frame discarded")
		return
	}
	if cmd == nil {
		return
	}
	if w := a.workers[cmd.Channel]; w != nil {
		w.submit(cmd.Level)
	}
}

// pickHand returns the highest scoring hand with the given handedness,
// or nil when the frame has none.
func pickHand(hands []landmark.Hand, hd landmark.Handedness) *landmark.Hand {
	var best *landmark.Hand
	for i := range hands {
		if hands[i].Handedness != hd {
			continue
		}
		if best == nil || hands[i].Score > best.Score {
			best = &hands[i]
		}
	}
	return best
}

func (a *App) snapshot(hands int, motion capture.Motion, active bool) State {
	return State{
		Enabled:       a.IsEnabled(),
		Active:        active,
		Hands:         hands,
		MotionPercent: motion.ChangePercent,
		Sessions: []session.Status{
			a.volume.Status(),
			a.brightness.Status(),
		},
	}
}

func (a *App) publish(st State) {
	a.mu.Lock()
	a.state = st
	a.mu.Unlock()
}

// actuatorWorker serializes Set calls for one actuator. Its channel
// holds at most one pending level; a newer command replaces an
// unconsumed older one, so a slow actuator coalesces updates instead of
// falling behind the gesture.
type actuatorWorker struct {
	act    actuator.Actuator
	levels chan float64
	done   chan struct{}
	log    zerolog.Logger
}

func newActuatorWorker(act actuator.Actuator, log zerolog.Logger) *actuatorWorker {
	w := &actuatorWorker{
		act:    act,
		levels: make(chan float64, 1),
		done:   make(chan struct{}),
		log:    log.With().Str("actuator", act.Name()).Logger(),
	}
	go w.run()
	return w
}

// submit hands the worker a level to apply, replacing any level it has
// not picked up yet. Only the frame loop calls this.
func (w *actuatorWorker) submit(level float64) {
	for {
		select {
		case w.levels <- level:
			return
		default:
		}
		select {
		case <-w.levels:
		default:
		}
	}
}

func (w *actuatorWorker) run() {
	defer close(w.done)
	for level := range w.levels {
		if err := w.act.Set(context.Background(), level); err != nil {
			w.log.Warn().Err(err).Float64("level", level).Msg("actuation failed")
		}
	}
}

// stop closes the worker and waits for an in-flight Set to finish.
func (w *actuatorWorker) stop() {
	close(w.levels)
	<-w.done
}

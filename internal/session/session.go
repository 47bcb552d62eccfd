// Package session wires one hand's gesture pipeline together: claw
// detection gates a rotation tracker, and the accumulated rotation drives a
// control mapper. The app owns two sessions, right hand to volume and left
// hand to brightness, which never share state.
package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/landmark"
)

// ErrTimestampRegression is returned when a frame for this session carries a
// timestamp at or before the previous frame's. Frame times come from the
// capture loop and must be strictly increasing; the offending frame is
// discarded and session state is left untouched.
var ErrTimestampRegression = errors.New("session: frame timestamp regression")

// Config describes one session.
type Config struct {
	// Hand selects which handedness this session consumes.
	Hand landmark.Handedness
	// Channel is the output this session controls.
	Channel control.Channel
	// Claw tunes the engagement pose thresholds.
	Claw gesture.ClawConfig
	// Mapper tunes the rotation-to-level mapping.
	Mapper control.MapperConfig
}

// Status is a point-in-time snapshot of a session for telemetry.
type Status struct {
	Hand            landmark.Handedness `json:"hand"`
	Channel         control.Channel     `json:"channel"`
	Engaged         bool                `json:"engaged"`
	EngagementID    string              `json:"engagement_id,omitempty"`
	AngleDegrees    float64             `json:"angle_degrees"`
	Level           float64             `json:"level"`
	CommandsEmitted uint64              `json:"commands_emitted"`
}

// Session runs the claw -> rotation -> mapper chain for a single hand. It is
// not safe for concurrent use; the frame loop owns it exclusively.
type Session struct {
	hand    landmark.Handedness
	channel control.Channel

	claw     *gesture.ClawDetector
	rotation *gesture.RotationTracker
	mapper   *control.Mapper

	seenFrame       bool
	lastTimestampMs int64
	engagementID    string
	commandsEmitted uint64

	log zerolog.Logger
}

// New creates a session. Left-hand sessions mirror the rotation direction
// so that the same physical twist adjusts both channels the same way.
func New(cfg Config, log zerolog.Logger) *Session {
	return &Session{
		hand:     cfg.Hand,
		channel:  cfg.Channel,
		claw:     gesture.NewClawDetector(cfg.Claw),
		rotation: gesture.NewRotationTracker(gesture.RotationConfig{Mirror: cfg.Hand == landmark.Left}),
		mapper:   control.NewMapper(cfg.Channel, cfg.Mapper),
		log: log.With().
			Str("hand", string(cfg.Hand)).
			Str("channel", string(cfg.Channel)).
			Logger(),
	}
}

// Hand returns the handedness this session consumes.
func (s *Session) Hand() landmark.Handedness {
	return s.hand
}

// Channel returns the channel this session controls.
func (s *Session) Channel() control.Channel {
	return s.channel
}

// Seed initializes the session's level from the actuator's current reading.
func (s *Session) Seed(level float64) {
	s.mapper.Seed(level)
}

// Update feeds one frame through the pipeline. hand is nil when this
// session's hand was not observed this frame. It returns a command to
// actuate, or nil when the session is idle or the emission clock is closed.
//
// Hands with non-finite landmark coordinates are treated as absent for the
// frame, so a single occluded frame releases cleanly instead of corrupting
// the rotation accumulation.
func (s *Session) Update(hand *landmark.Hand) (*control.Command, error) {
	if hand != nil {
		if s.seenFrame && hand.TimestampMs <= s.lastTimestampMs {
			return nil, fmt.Errorf("%w: got %dms after %dms", ErrTimestampRegression,
				hand.TimestampMs, s.lastTimestampMs)
		}
		if err := hand.Validate(); err != nil {
			s.log.Debug().Err(err).Msg("invalid landmarks, treating hand as absent")
			hand = nil
		} else {
			s.seenFrame = true
			s.lastTimestampMs = hand.TimestampMs
		}
	}

	wasEngaged := s.rotation.Active()
	res := s.claw.Detect(hand)
	s.rotation.Update(hand, res.Claw)

	switch {
	case s.rotation.Active() && !wasEngaged:
		s.engagementID = uuid.NewString()
		s.log.Info().
			Str("engagement_id", s.engagementID).
			Float64("spread", res.Spread).
			Int("fingers_close", res.FingersClose).
			Msg("claw engaged")
	case !s.rotation.Active() && wasEngaged:
		s.log.Info().
			Str("engagement_id", s.engagementID).
			Float64("level", s.mapper.Level()).
			Msg("claw released")
		s.engagementID = ""
	}

	if !s.rotation.Active() {
		return nil, nil
	}

	cmd := s.mapper.Update(s.rotation.Angle(), hand.TimestampMs)
	if cmd != nil {
		s.commandsEmitted++
		s.log.Debug().
			Float64("level", cmd.Level).
			Float64("angle", s.rotation.Angle()).
			Msg("command emitted")
	}
	return cmd, nil
}

// Status returns a snapshot for telemetry and the HTTP state endpoint.
func (s *Session) Status() Status {
	return Status{
		Hand:            s.hand,
		Channel:         s.channel,
		Engaged:         s.rotation.Active(),
		EngagementID:    s.engagementID,
		AngleDegrees:    s.rotation.Angle(),
		Level:           s.mapper.Level(),
		CommandsEmitted: s.commandsEmitted,
	}
}

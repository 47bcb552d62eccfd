// Package config loads runtime settings from MUDRA_* environment
// variables with working defaults, so a bare `mudra` invocation runs
// against camera 0, the default PulseAudio sink, and the primary
// backlight without any setup.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/gesture"
)

// Config holds every tunable of the pipeline.
type Config struct {
	// Camera and frame loop.
	CameraID        int           `env:"MUDRA_CAMERA_ID" envDefault:"0"`
	CameraFlip      bool          `env:"MUDRA_CAMERA_FLIP" envDefault:"true"`
	IdleFPS         int           `env:"MUDRA_IDLE_FPS" envDefault:"5"`
	ActiveFPS       int           `env:"MUDRA_ACTIVE_FPS" envDefault:"15"`
	IdleTimeout     time.Duration `env:"MUDRA_IDLE_TIMEOUT" envDefault:"2s"`
	MotionThreshold float64       `env:"MUDRA_MOTION_THRESHOLD" envDefault:"1.0"`

	// Hand tracking backend.
	MaxHands         int     `env:"MUDRA_MAX_HANDS" envDefault:"2"`
	MinDetectionConf float64 `env:"MUDRA_MIN_DETECTION_CONFIDENCE" envDefault:"0.5"`
	MinTrackingConf  float64 `env:"MUDRA_MIN_TRACKING_CONFIDENCE" envDefault:"0.5"`

	// Claw pose thresholds, in normalized image units.
	ClawMaxSpread    float64 `env:"MUDRA_CLAW_MAX_SPREAD" envDefault:"0.15"`
	ClawPalmDistance float64 `env:"MUDRA_CLAW_PALM_DISTANCE" envDefault:"0.20"`
	ClawMinFingers   int     `env:"MUDRA_CLAW_MIN_FINGERS" envDefault:"3"`

	// Rotation-to-level mapping.
	DeadzoneDeg    float64       `env:"MUDRA_DEADZONE_DEG" envDefault:"30"`
	RangeDeg       float64       `env:"MUDRA_RANGE_DEG" envDefault:"180"`
	Gain           float64       `env:"MUDRA_GAIN" envDefault:"0.10"`
	SmoothingAlpha float64       `env:"MUDRA_SMOOTHING_ALPHA" envDefault:"0.3"`
	EmitInterval   time.Duration `env:"MUDRA_EMIT_INTERVAL" envDefault:"150ms"`

	// Actuators.
	PulseSink       string        `env:"MUDRA_PULSE_SINK" envDefault:"@DEFAULT_SINK@"`
	BrightnessFloor float64       `env:"MUDRA_BRIGHTNESS_FLOOR" envDefault:"0.05"`
	ActuatorTimeout time.Duration `env:"MUDRA_ACTUATOR_TIMEOUT" envDefault:"2s"`

	// Telemetry server and logging.
	ListenAddr string `env:"MUDRA_LISTEN_ADDR" envDefault:"127.0.0.1:8173"`
	LogLevel   string `env:"MUDRA_LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	if c.IdleFPS < 1 {
		return fmt.Errorf("idle fps must be at least 1, got %d", c.IdleFPS)
	}
	if c.ActiveFPS < c.IdleFPS {
		return fmt.Errorf("active fps %d must not be below idle fps %d", c.ActiveFPS, c.IdleFPS)
	}
	if c.MotionThreshold <= 0 {
		return fmt.Errorf("motion threshold must be positive, got %g", c.MotionThreshold)
	}
	if c.MaxHands < 1 {
		return fmt.Errorf("max hands must be at least 1, got %d", c.MaxHands)
	}
	if c.MinDetectionConf <= 0 || c.MinDetectionConf > 1 {
		return fmt.Errorf("min detection confidence must be in (0,1], got %g", c.MinDetectionConf)
	}
	if c.MinTrackingConf <= 0 || c.MinTrackingConf > 1 {
		return fmt.Errorf("min tracking confidence must be in (0,1], got %g", c.MinTrackingConf)
	}
	if c.ClawMaxSpread <= 0 {
		return fmt.Errorf("claw max spread must be positive, got %g", c.ClawMaxSpread)
	}
	if c.ClawPalmDistance <= 0 {
		return fmt.Errorf("claw palm distance must be positive, got %g", c.ClawPalmDistance)
	}
	if c.ClawMinFingers < 1 || c.ClawMinFingers > 5 {
		return fmt.Errorf("claw min fingers must be between 1 and 5, got %d", c.ClawMinFingers)
	}
	if c.DeadzoneDeg < 0 {
		return fmt.Errorf("deadzone must not be negative, got %g", c.DeadzoneDeg)
	}
	if c.RangeDeg <= c.DeadzoneDeg {
		return fmt.Errorf("range %g must exceed deadzone %g", c.RangeDeg, c.DeadzoneDeg)
	}
	if c.Gain <= 0 {
		return fmt.Errorf("gain must be positive, got %g", c.Gain)
	}
	if c.SmoothingAlpha <= 0 || c.SmoothingAlpha > 1 {
		return fmt.Errorf("smoothing alpha must be in (0,1], got %g", c.SmoothingAlpha)
	}
	if c.EmitInterval <= 0 {
		return fmt.Errorf("emit interval must be positive, got %s", c.EmitInterval)
	}
	if c.BrightnessFloor <= 0 || c.BrightnessFloor >= 1 {
		return fmt.Errorf("brightness floor must be in (0,1), got %g", c.BrightnessFloor)
	}
	if c.ActuatorTimeout <= 0 {
		return fmt.Errorf("actuator timeout must be positive, got %s", c.ActuatorTimeout)
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	return nil
}

// ClawConfig maps the claw settings onto the detector's config.
func (c Config) ClawConfig() gesture.ClawConfig {
	return gesture.ClawConfig{
		MaxSpread:       c.ClawMaxSpread,
		MaxPalmDistance: c.ClawPalmDistance,
		MinFingersClose: c.ClawMinFingers,
	}
}

// MapperConfig maps the rotation settings onto the mapper's config.
func (c Config) MapperConfig() control.MapperConfig {
	return control.MapperConfig{
		DeadzoneDeg:    c.DeadzoneDeg,
		RangeDeg:       c.RangeDeg,
		Gain:           c.Gain,
		SmoothingAlpha: c.SmoothingAlpha,
		EmitInterval:   c.EmitInterval,
	}
}

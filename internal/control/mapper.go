package control

import (
	"math"
	"time"
)

// MapperConfig tunes how accumulated rotation moves a level.
type MapperConfig struct {
	// DeadzoneDeg is the rotation magnitude below which the level holds
	// steady. Keeps an engaged but resting hand from creeping the level.
	DeadzoneDeg float64
	// RangeDeg is the rotation magnitude that drives the level at full
	// speed. Accumulated rotation beyond it is clamped, not an error.
	RangeDeg float64
	// Gain is the level change per frame at full twist, before smoothing.
	// Twist angle between the deadzone and the range edge scales it
	// linearly, so a shallow twist trims and a deep twist sweeps.
	Gain float64
	// SmoothingAlpha is the EMA weight of the newest target.
	SmoothingAlpha float64
	// EmitInterval is the minimum gap between emitted commands. State
	// updates every frame regardless; only output is throttled.
	EmitInterval time.Duration
}

// DefaultMapperConfig returns the stock tuning: 30 degree deadzone, full
// speed at a 180 degree twist, roughly a two second edge-to-edge sweep at
// 15 FPS, one command per 150ms.
func DefaultMapperConfig() MapperConfig {
	return MapperConfig{
		DeadzoneDeg:    30,
		RangeDeg:       180,
		Gain:           0.10,
		SmoothingAlpha: 0.3,
		EmitInterval:   150 * time.Millisecond,
	}
}

// Mapper owns the control state for one channel: the smoothed level and the
// emission clock. It is driven once per frame while its session is engaged
// and holds its last level while the session is idle.
type Mapper struct {
	cfg        MapperConfig
	channel    Channel
	smoothed   float64
	emitted    bool
	lastEmitMs int64
}

// NewMapper creates a mapper for the channel. Zero config fields fall back
// to their defaults; a range not beyond the deadzone falls back entirely.
func NewMapper(channel Channel, cfg MapperConfig) *Mapper {
	def := DefaultMapperConfig()
	if cfg.DeadzoneDeg <= 0 {
		cfg.DeadzoneDeg = def.DeadzoneDeg
	}
	if cfg.RangeDeg <= 0 {
		cfg.RangeDeg = def.RangeDeg
	}
	if cfg.Gain <= 0 {
		cfg.Gain = def.Gain
	}
	if cfg.SmoothingAlpha <= 0 || cfg.SmoothingAlpha > 1 {
		cfg.SmoothingAlpha = def.SmoothingAlpha
	}
	if cfg.EmitInterval <= 0 {
		cfg.EmitInterval = def.EmitInterval
	}
	if cfg.RangeDeg <= cfg.DeadzoneDeg {
		cfg.DeadzoneDeg = def.DeadzoneDeg
		cfg.RangeDeg = def.RangeDeg
	}
	return &Mapper{cfg: cfg, channel: channel}
}

// Seed sets the smoothed level directly, clamped to [0,1]. Called once at
// startup with the actuator's current reading so the first engagement
// adjusts from where the system actually is instead of snapping from zero.
func (m *Mapper) Seed(level float64) {
	m.smoothed = clamp01(level)
}

// Level returns the current smoothed level.
func (m *Mapper) Level() float64 {
	return m.smoothed
}

// Update advances the control state with the rotation accumulated since
// engagement and returns a command to emit, or nil while the emission clock
// is closed. nowMs is the frame timestamp.
//
// Rotation inside the deadzone holds the level exactly; beyond it, the
// level moves at a speed proportional to how far past the deadzone the
// twist sits, smoothed by an EMA so direction changes ease in.
func (m *Mapper) Update(accumulated float64, nowMs int64) *Command {
	abs := math.Abs(accumulated)
	if abs > m.cfg.DeadzoneDeg {
		if abs > m.cfg.RangeDeg {
			abs = m.cfg.RangeDeg
		}
		magnitude := (abs - m.cfg.DeadzoneDeg) / (m.cfg.RangeDeg - m.cfg.DeadzoneDeg)
		delta := magnitude * m.cfg.Gain
		if accumulated < 0 {
			delta = -delta
		}
		raw := clamp01(m.smoothed + delta)
		m.smoothed = m.cfg.SmoothingAlpha*raw + (1-m.cfg.SmoothingAlpha)*m.smoothed
	}

	if m.emitted && nowMs-m.lastEmitMs < m.cfg.EmitInterval.Milliseconds() {
		return nil
	}
	m.emitted = true
	m.lastEmitMs = nowMs

	return &Command{
		Channel:     m.channel,
		Level:       clamp01(m.smoothed),
		TimestampMs: nowMs,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

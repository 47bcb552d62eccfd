// Package control turns accumulated wrist rotation into rate-limited,
// smoothed level commands for a single output channel.
package control

// Channel identifies the OS property a command adjusts.
type Channel string

const (
	// Volume is the system output volume channel.
	Volume Channel = "volume"
	// Brightness is the display backlight channel.
	Brightness Channel = "brightness"
)

// Command is one emitted control action: set the channel to the given
// absolute level. Levels are normalized to [0,1]; actuators scale them to
// whatever their tool expects. Commands are idempotent, so re-sending the
// held level is harmless.
type Command struct {
	Channel     Channel `json:"channel"`
	Level       float64 `json:"level"`
	TimestampMs int64   `json:"timestamp_ms"`
}

package actuator

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// DefaultSink is the PulseAudio alias for whatever sink is currently the
// default output, so device switches (headphones, HDMI) follow along.
const DefaultSink = "@DEFAULT_SINK@"

// volumePercentRe grabs the first percentage from pactl's get-sink-volume
// output, which reports one percent value per channel.
var volumePercentRe = regexp.MustCompile(`(\d+)%`)

// Volume adjusts the output volume of a PulseAudio (or PipeWire) sink
// through pactl.
type Volume struct {
	bin     string
	sink    string
	timeout time.Duration
}

// NewVolume creates a pactl-backed volume actuator for the given sink.
// An empty sink means the current default output.
func NewVolume(sink string, timeout time.Duration) *Volume {
	if sink == "" {
		sink = DefaultSink
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Volume{bin: "pactl", sink: sink, timeout: timeout}
}

// Name implements Actuator.
func (v *Volume) Name() string {
	return "volume"
}

// Set implements Actuator.
func (v *Volume) Set(ctx context.Context, level float64) error {
	pct := int(math.Round(clampLevel(level) * 100))
	_, err := run(ctx, v.timeout, v.bin, "set-sink-volume", v.sink, fmt.Sprintf("%d%%", pct))
	return err
}

// Level implements Actuator. Multi-channel sinks report one percentage per
// channel; the first one is taken, matching how Set writes all channels.
func (v *Volume) Level(ctx context.Context) (float64, error) {
	out, err := run(ctx, v.timeout, v.bin, "get-sink-volume", v.sink)
	if err != nil {
		return 0, err
	}
	m := volumePercentRe.FindStringSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("no volume percentage in pactl output %q", out)
	}
	pct, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("parse volume percentage: %w", err)
	}
	return clampLevel(float64(pct) / 100), nil
}

// Available implements Actuator by checking that pactl can reach a sound
// server at all.
func (v *Volume) Available(ctx context.Context) bool {
	_, err := run(ctx, v.timeout, v.bin, "info")
	return err == nil
}

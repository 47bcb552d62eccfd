package actuator

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultBrightnessFloor keeps the backlight from being driven all the way
// to zero, which on most panels means a black screen and a hunt for the
// keyboard brightness key.
const DefaultBrightnessFloor = 0.05

// Brightness adjusts the display backlight through brightnessctl.
type Brightness struct {
	bin     string
	floor   float64
	timeout time.Duration
}

// NewBrightness creates a brightnessctl-backed actuator. Levels below floor
// are raised to it; a floor outside (0,1) falls back to the default.
func NewBrightness(floor float64, timeout time.Duration) *Brightness {
	if floor <= 0 || floor >= 1 {
		floor = DefaultBrightnessFloor
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Brightness{bin: "brightnessctl", floor: floor, timeout: timeout}
}

// Name implements Actuator.
func (b *Brightness) Name() string {
	return "brightness"
}

// Set implements Actuator.
func (b *Brightness) Set(ctx context.Context, level float64) error {
	pct := int(math.Round(math.Max(clampLevel(level), b.floor) * 100))
	_, err := run(ctx, b.timeout, b.bin, "set", fmt.Sprintf("%d%%", pct))
	return err
}

// Level implements Actuator, reading the raw and maximum backlight values
// and reporting their ratio.
func (b *Brightness) Level(ctx context.Context) (float64, error) {
	cur, err := b.intOutput(ctx, "get")
	if err != nil {
		return 0, err
	}
	max, err := b.intOutput(ctx, "max")
	if err != nil {
		return 0, err
	}
	if max <= 0 {
		return 0, fmt.Errorf("brightnessctl reported max brightness %d", max)
	}
	return clampLevel(float64(cur) / float64(max)), nil
}

// Available implements Actuator by checking that brightnessctl can see a
// backlight device.
func (b *Brightness) Available(ctx context.Context) bool {
	max, err := b.intOutput(ctx, "max")
	return err == nil && max > 0
}

func (b *Brightness) intOutput(ctx context.Context, arg string) (int, error) {
	out, err := run(ctx, b.timeout, b.bin, arg)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("parse brightnessctl %s output %q: %w", arg, out, err)
	}
	return n, nil
}

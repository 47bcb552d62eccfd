// Package actuator applies control commands to the operating system by
// shelling out to the standard desktop tools, pactl for volume and
// brightnessctl for backlight. Actuation is best effort: the pipeline fires
// commands and moves on, and a dead tool only costs its channel.
package actuator

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single tool invocation. The control loop emits
// several commands per second; a tool slower than this is effectively down.
const DefaultTimeout = 2 * time.Second

// Actuator is one controllable OS property.
type Actuator interface {
	// Name identifies the actuator in logs and telemetry.
	Name() string
	// Set applies a normalized level in [0,1]. Idempotent.
	Set(ctx context.Context, level float64) error
	// Level reads the current normalized level back from the OS.
	Level(ctx context.Context) (float64, error)
	// Available reports whether the underlying tool responds.
	Available(ctx context.Context) bool
}

// run executes a control tool bounded by timeout and returns its combined
// output. Output is included in errors because these tools put their
// diagnostics on stderr with a zero-context exit code.
func run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()

	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%s timed out after %s", name, timeout)
	}
	if err != nil {
		if msg := strings.TrimSpace(string(output)); msg != "" {
			return "", fmt.Errorf("%s failed: %w: %s", name, err, msg)
		}
		return "", fmt.Errorf("%s failed: %w", name, err)
	}
	return string(output), nil
}

// clampLevel pins a level into [0,1] before it is turned into a percentage.
func clampLevel(level float64) float64 {
	if level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}

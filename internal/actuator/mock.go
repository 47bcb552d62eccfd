package actuator

import (
	"context"
	"sync"
)

// Mock is a test implementation of the Actuator interface. It records every
// Set call and serves a configurable level. Safe for concurrent use, since
// the pipeline actuates from a worker goroutine per channel.
type Mock struct {
	mu        sync.Mutex
	name      string
	level     float64
	available bool
	setErr    error
	levelErr  error
	calls     []float64
}

// NewMock creates an available mock reporting the given starting level.
func NewMock(name string, level float64) *Mock {
	return &Mock{name: name, level: level, available: true}
}

// Name implements Actuator.
func (m *Mock) Name() string {
	return m.name
}

// Set implements Actuator, recording the call.
func (m *Mock) Set(_ context.Context, level float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, level)
	if m.setErr != nil {
		return m.setErr
	}
	m.level = level
	return nil
}

// Level implements Actuator.
func (m *Mock) Level(_ context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.levelErr != nil {
		return 0, m.levelErr
	}
	return m.level, nil
}

// Available implements Actuator.
func (m *Mock) Available(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// SetAvailable controls what Available reports.
func (m *Mock) SetAvailable(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = ok
}

// SetError makes Set fail with err. Calls are still recorded.
func (m *Mock) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}

// LevelError makes Level fail with err.
func (m *Mock) LevelError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levelErr = err
}

// Calls returns a copy of every level passed to Set, in order.
func (m *Mock) Calls() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.calls))
	copy(out, m.calls)
	return out
}

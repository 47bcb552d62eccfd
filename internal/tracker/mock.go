package tracker

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/landmark"
)

// MockTracker is a test implementation of the Tracker interface.
// It plays back a scripted sequence of per-frame results: each Track
// call consumes one step, and after the script runs out every call
// returns the steady result set via SetHands (empty by default).
type MockTracker struct {
	mu     sync.Mutex
	script [][]landmark.Hand
	index  int
	hands  []landmark.Hand
	err    error
	calls  int
}

// NewMockTracker creates a new MockTracker instance.
func NewMockTracker() *MockTracker {
	return &MockTracker{}
}

// SetHands sets the hands returned once the script is exhausted,
// or on every call if no script is set.
func (m *MockTracker) SetHands(hands ...landmark.Hand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetScript sets a per-call sequence of results. A nil step means no
// hands detected on that frame.
func (m *MockTracker) SetScript(steps ...[]landmark.Hand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = steps
	m.index = 0
}

// SetError sets the error that will be returned by Track.
func (m *MockTracker) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls reports how many times Track has been invoked.
func (m *MockTracker) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Track returns the next scripted result, stamped with the frame
// timestamp like the real tracker.
func (m *MockTracker) Track(frame *gocv.Mat, timestampMs int64) ([]landmark.Hand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	src := m.hands
	if m.index < len(m.script) {
		src = m.script[m.index]
		m.index++
	}

	out := make([]landmark.Hand, len(src))
	for i, h := range src {
		h.TimestampMs = timestampMs
		out[i] = h
	}
	return out, nil
}

// Close is a no-op for the mock tracker.
func (m *MockTracker) Close() error {
	return nil
}

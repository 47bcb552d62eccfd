package tracker

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/landmark"
)

// idleShutdown is how long the Python process may sit unused before it
// is stopped. It restarts lazily on the next Track call.
const idleShutdown = 30 * time.Second

// MediaPipeTracker implements Tracker using a Python MediaPipe subprocess.
//
// Frames go out as length-prefixed JPEG bytes on stdin; the service
// answers with one JSON line per frame. The protocol is strictly
// request/response, serialized by the mutex, so each response belongs
// to the frame just written and hands are stamped with that frame's
// timestamp on the Go side.
type MediaPipeTracker struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	lastUsed  time.Time
	idleTimer *time.Timer
}

// NewMediaPipeTracker creates a new MediaPipe tracker.
// The Python process is started lazily on first use.
func NewMediaPipeTracker(config Config) (*MediaPipeTracker, error) {
	scriptPath := findTrackerScript()
	if scriptPath == "" {
		return nil, fmt.Errorf("hand_tracker.py not found")
	}

	defaults := DefaultConfig()
	if config.MaxHands <= 0 {
		config.MaxHands = defaults.MaxHands
	}
	if config.MinConfidence <= 0 {
		config.MinConfidence = defaults.MinConfidence
	}
	if config.MinTrackingConf <= 0 {
		config.MinTrackingConf = defaults.MinTrackingConf
	}

	return &MediaPipeTracker{
		config: config,
	}, nil
}

// Track analyzes a frame and returns detected hands.
func (t *MediaPipeTracker) Track(frame *gocv.Mat, timestampMs int64) ([]landmark.Hand, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ensureStarted(); err != nil {
		return nil, err
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := t.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := t.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	// Read JSON response
	line, err := t.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	hands, err := decodeHands([]byte(line), timestampMs, t.config.MirrorHandedness)
	if err != nil {
		return nil, err
	}

	t.lastUsed = time.Now()
	t.resetIdleTimer()

	return hands, nil
}

// Close shuts down the Python process.
func (t *MediaPipeTracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.shutdown()
}

func (t *MediaPipeTracker) ensureStarted() error {
	if t.started {
		return nil
	}

	scriptPath := findTrackerScript()
	if scriptPath == "" {
		return fmt.Errorf("hand_tracker.py not found")
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	t.cmd = exec.Command(pythonPath, scriptPath,
		"--max-hands", strconv.Itoa(t.config.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(t.config.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(t.config.MinTrackingConf, 'f', -1, 64),
	)

	stdin, err := t.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := t.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	t.cmd.Stderr = os.Stderr

	if err := t.cmd.Start(); err != nil {
		return fmt.Errorf("start tracker service: %w", err)
	}

	t.stdin = stdin
	t.stdout = bufio.NewReader(stdout)
	t.started = true
	t.lastUsed = time.Now()

	return nil
}

func (t *MediaPipeTracker) shutdown() error {
	if !t.started {
		return nil
	}

	if t.idleTimer != nil {
		t.idleTimer.Stop()
		t.idleTimer = nil
	}

	if t.stdin != nil {
		t.stdin.Close()
	}

	err := t.cmd.Wait()
	t.started = false
	t.cmd = nil
	t.stdin = nil
	t.stdout = nil

	return err
}

func (t *MediaPipeTracker) resetIdleTimer() {
	if t.idleTimer != nil {
		t.idleTimer.Stop()
	}
	t.idleTimer = time.AfterFunc(idleShutdown, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.shutdown()
	})
}

func findTrackerScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/hand_tracker.py",
		"../scripts/hand_tracker.py",
		filepath.Join(execDir, "scripts/hand_tracker.py"),
		filepath.Join(os.Getenv("HOME"), ".mudra/scripts/hand_tracker.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
// It checks for venv/bin/python relative to the project directory.
func findVenvPython() string {
	// Get executable directory to find project root
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".mudra/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonHand represents the JSON structure from the Python service.
type jsonHand struct {
	Points     []jsonPoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// decodeHands parses one response line from the service. Hands that do
// not carry the full landmark set are dropped rather than propagated
// half-empty into the gesture pipeline.
func decodeHands(line []byte, timestampMs int64, mirror bool) ([]landmark.Hand, error) {
	var response struct {
		Hands []jsonHand `json:"hands"`
	}
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	hands := make([]landmark.Hand, 0, len(response.Hands))
	for _, h := range response.Hands {
		if len(h.Points) != landmark.NumLandmarks {
			continue
		}
		hands = append(hands, h.toHand(timestampMs, mirror))
	}

	return hands, nil
}

func (h jsonHand) toHand(timestampMs int64, mirror bool) landmark.Hand {
	hand := landmark.Hand{
		Handedness:  landmark.Handedness(h.Handedness),
		Score:       h.Score,
		TimestampMs: timestampMs,
	}
	if mirror {
		hand.Handedness = hand.Handedness.Flipped()
	}

	for i := 0; i < landmark.NumLandmarks && i < len(h.Points); i++ {
		hand.Points[i] = landmark.Point3D{
			X: h.Points[i].X,
			Y: h.Points[i].Y,
			Z: h.Points[i].Z,
		}
	}

	return hand
}

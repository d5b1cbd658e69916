package detector

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

	"github.com/ayusman/kathak/internal/landmark"
)

// HolisticDetector implements Detector using a Python MediaPipe Holistic
// subprocess. Frames go down as length-prefixed JPEGs; detections come back
// as one JSON line per frame.
type HolisticDetector struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	lastUsed  time.Time
	idleTimer *time.Timer
}

// NewHolisticDetector creates a new holistic detector.
// The Python process is started lazily on first detection.
func NewHolisticDetector(config Config) (*HolisticDetector, error) {
	scriptPath := findHolisticScript()
	if scriptPath == "" {
		return nil, fmt.Errorf("holistic_service.py not found")
	}

	return &HolisticDetector{
		config: config,
	}, nil
}

// Detect analyzes a frame and returns the detected landmarks.
func (d *HolisticDetector) Detect(frame *gocv.Mat) (*Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
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

	if _, err := d.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	// Read JSON response
	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response jsonFrame
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	d.lastUsed = time.Now()
	d.resetIdleTimer()

	return response.toFrame(), nil
}

// Close shuts down the Python process.
func (d *HolisticDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *HolisticDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	scriptPath := findHolisticScript()
	if scriptPath == "" {
		return fmt.Errorf("holistic_service.py not found")
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, scriptPath,
		"--model-complexity", strconv.Itoa(d.config.ModelComplexity),
		"--min-detection-confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConf, 'f', -1, 64),
		"--refine-face", strconv.FormatBool(d.config.RefineFace),
	)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start holistic service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	d.lastUsed = time.Now()

	return nil
}

func (d *HolisticDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func (d *HolisticDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(30*time.Second, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

func findHolisticScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/holistic_service.py",
		"../scripts/holistic_service.py",
		filepath.Join(execDir, "scripts/holistic_service.py"),
		filepath.Join(os.Getenv("HOME"), ".kathak/scripts/holistic_service.py"),
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
		filepath.Join(os.Getenv("HOME"), ".kathak/venv/bin/python"),
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

// jsonFrame represents the JSON structure from the Python service. Missing
// groups arrive as null.
type jsonFrame struct {
	Pose        []jsonPoint `json:"pose"`
	World       []jsonPoint `json:"pose_world"`
	LeftHand    []jsonPoint `json:"left_hand"`
	RightHand   []jsonPoint `json:"right_hand"`
	Face        []jsonPoint `json:"face"`
	TimestampMs int64       `json:"timestamp_ms"`
}

type jsonPoint struct {
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Z          float64  `json:"z"`
	Visibility *float64 `json:"visibility"`
}

func (f jsonFrame) toFrame() *Frame {
	return &Frame{
		Pose:        toPoints(f.Pose),
		World:       toPoints(f.World),
		LeftHand:    toPoints(f.LeftHand),
		RightHand:   toPoints(f.RightHand),
		Face:        toPoints(f.Face),
		TimestampMs: f.TimestampMs,
	}
}

// toPoints converts service points, substituting the default visibility for
// groups the model reports without one (hands and face).
func toPoints(in []jsonPoint) []landmark.Point {
	if in == nil {
		return nil
	}
	out := make([]landmark.Point, len(in))
	for i, p := range in {
		vis := landmark.DefaultVisibility
		if p.Visibility != nil {
			vis = *p.Visibility
		}
		out[i] = landmark.Point{X: p.X, Y: p.Y, Z: p.Z, Visibility: vis}
	}
	return out
}

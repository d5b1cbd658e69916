// Package app wires the capture pipeline together: camera frames go through
// motion gating and holistic detection into the pose solver, and the solved
// poses fan out to the WebSocket broadcast and the session recorder.
package app

import (
	"log"
	"sync"

	"github.com/ayusman/kathak/internal/capture"
	"github.com/ayusman/kathak/internal/detector"
	"github.com/ayusman/kathak/internal/rig"
	"github.com/ayusman/kathak/internal/solver"
	"github.com/ayusman/kathak/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no subject is in front of the camera.
	IdleFPS = 5
	// ActiveFPS is the frame rate while tracking a subject.
	ActiveFPS = 30
	// IdleTimeoutMs is the time in milliseconds without motion or a pose
	// before dropping back to idle mode.
	IdleTimeoutMs = 2000
)

// PosePublisher receives each solved pose. The HTTP server's pose WebSocket
// handler satisfies this.
type PosePublisher interface {
	Publish(v interface{})
}

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64
	RigVersion   rig.Version
	Solver       solver.Config
}

// App is the main application that orchestrates capture, solving, broadcast
// and recording.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	solver   *solver.Solver
	recorder *recorder
	publish  PosePublisher
	enabled  bool
	mu       sync.RWMutex
	stopCh   chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}
	if config.Solver == (solver.Config{}) {
		config.Solver = solver.DefaultConfig()
	}

	a := &App{
		config: config,
		camera: capture.NewCamera(config.CameraID),
		motion: capture.NewMotionDetector(motionThreshold),
		solver: solver.New(config.Solver, config.RigVersion),
	}

	// Try the MediaPipe subprocess first, fall back to the mock detector
	if mp, err := detector.NewHolisticDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe holistic detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables tracking. While disabled the pipeline keeps
// running but skips every frame.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetCamera sets the camera implementation to use. Call before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetDetector sets the landmark detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetPublisher sets the sink for solved poses.
func (a *App) SetPublisher(p PosePublisher) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.publish = p
}

// SetRigVersion switches the target rig version. Carried solver state is
// discarded because the sign conventions change.
func (a *App) SetRigVersion(v rig.Version) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.solver.SetVersion(v)

	if a.config.Store != nil {
		if err := a.config.Store.Settings().Set(store.SettingRigVersion, v.String()); err != nil {
			log.Printf("persist rig version: %v", err)
		}
	}
}

// RigVersion returns the rig version the solver currently targets.
func (a *App) RigVersion() rig.Version {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.solver.Version()
}

// StartRecording begins recording solved frames into a new session.
func (a *App) StartRecording(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.config.Store == nil {
		return ErrNoStore
	}
	if a.recorder != nil {
		return nil
	}

	rec, err := newRecorder(a.config.Store, name, a.solver.Version())
	if err != nil {
		return err
	}
	a.recorder = rec
	log.Printf("Recording session %s", rec.sessionID)
	return nil
}

// StopRecording flushes and seals the active recording session.
func (a *App) StopRecording() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.recorder == nil {
		return nil
	}

	err := a.recorder.close()
	log.Printf("Recording stopped for session %s", a.recorder.sessionID)
	a.recorder = nil
	return err
}

// IsRecording returns whether a session is being recorded.
func (a *App) IsRecording() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.recorder != nil
}

// Start begins the capture pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Set initial FPS to idle mode
	a.camera.SetFPS(IdleFPS)

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Capture pipeline started")
	return nil
}

// Stop halts the capture pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Signal the pipeline to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	// Seal any active recording
	if a.recorder != nil {
		if err := a.recorder.close(); err != nil {
			log.Printf("Error closing recorder: %v", err)
		}
		a.recorder = nil
	}

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close motion detector
	a.motion.Close()

	// Close the landmark detector if set
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	// Drop carried solver state so a restart begins clean
	a.solver.Reset()

	log.Println("Capture pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Solver returns the pose solver.
func (a *App) Solver() *solver.Solver {
	return a.solver
}

// Detector returns the landmark detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

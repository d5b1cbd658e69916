package app

import (
	"log"
	"time"

	"github.com/ayusman/kathak/internal/solver"
)

// runPipeline is the main capture loop. It manages the transitions between
// idle and active modes and drives every frame through detection, solving,
// broadcast and recording.
//
// Pipeline logic:
// 1. Start in idle mode (IdleFPS), running only the cheap motion check
// 2. On motion, switch to active mode (ActiveFPS) and start the detector
// 3. Run holistic detection and the pose solver on each frame
// 4. Publish the smoothed pose, record the frame when a session is open
// 5. A detected pose counts as activity even when the subject holds still
// 6. After 2s with neither motion nor a pose, drop back to idle mode and
//    reset the solver so stale smoothing state cannot bleed into the next
//    appearance
func (a *App) runPipeline() {
	activeMode := false
	lastActivity := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			// Skip processing if tracking is disabled
			if !a.IsEnabled() {
				continue
			}

			// Read a frame from the camera
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Step 1: Motion detection
			motionDetected, _ := a.motion.Detect(frame)
			if motionDetected {
				lastActivity = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			}

			// Skip detection while idle or without a detector
			if !activeMode || a.Detector() == nil {
				frame.Close()
				continue
			}

			// Step 2: Holistic landmark detection
			detected, err := a.Detector().Detect(frame)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting landmarks: %v", err)
				continue
			}

			// A tracked pose keeps the pipeline active even when the
			// subject holds perfectly still.
			if detected.HasPose() {
				lastActivity = time.Now()
			} else if time.Since(lastActivity) > time.Duration(IdleTimeoutMs)*time.Millisecond {
				activeMode = false
				a.camera.SetFPS(IdleFPS)
				frameInterval = time.Second / time.Duration(IdleFPS)
				ticker.Reset(frameInterval)
				a.solver.Reset()
				log.Println("Switched to idle mode")
				continue
			}

			// Step 3: Solve the frame into a rigged pose
			if detected.TimestampMs == 0 {
				detected.TimestampMs = time.Now().UnixMilli()
			}
			result := a.solver.Solve(solver.Input{
				Pose:        detected.Pose,
				World:       detected.World,
				LeftHand:    detected.LeftHand,
				RightHand:   detected.RightHand,
				Face:        detected.Face,
				TimestampMs: detected.TimestampMs,
			})

			// Step 4: Broadcast and record
			a.mu.RLock()
			publish := a.publish
			rec := a.recorder
			a.mu.RUnlock()

			if publish != nil {
				publish.Publish(result.Smoothed)
			}
			if rec != nil {
				if err := rec.record(detected, result); err != nil {
					log.Printf("Error recording frame: %v", err)
				}
			}
		}
	}
}

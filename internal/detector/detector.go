// Package detector provides holistic landmark detection interfaces and types
// for motion capture.
package detector

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/kathak/internal/landmark"
)

// Frame is one holistic detection result. Any group may be nil when the
// corresponding body part was not detected; Pose, when present, holds 33
// points and World holds the matching metric 3D points.
type Frame struct {
	Pose        []landmark.Point `json:"pose,omitempty"`
	World       []landmark.Point `json:"world,omitempty"`
	LeftHand    []landmark.Point `json:"leftHand,omitempty"`
	RightHand   []landmark.Point `json:"rightHand,omitempty"`
	Face        []landmark.Point `json:"face,omitempty"`
	TimestampMs int64            `json:"timestampMs"`
}

// HasPose reports whether the frame carries a full body detection.
func (f *Frame) HasPose() bool {
	return f != nil && len(f.Pose) >= landmark.NumPoseLandmarks
}

// Detector defines the interface for holistic landmark detection
// implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the detected landmarks.
	// A frame with no subject yields a Frame with all groups nil, not an
	// error.
	Detect(frame *gocv.Mat) (*Frame, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for holistic detection.
type Config struct {
	// ModelComplexity selects the pose model (0 lite, 1 full, 2 heavy).
	ModelComplexity int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// RefineFace enables iris landmarks, extending the face array from 468
	// to 478 points.
	RefineFace bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		ModelComplexity: 1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		RefineFace:      false,
	}
}

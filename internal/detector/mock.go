package detector

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/kathak/testdata"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	frame *Frame
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFrame sets the frame that will be returned by Detect.
func (m *MockDetector) SetFrame(frame *Frame) {
	m.frame = frame
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured frame or error. With neither set it
// returns an empty frame, the same shape a real detector yields for an
// empty scene.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Frame, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.frame != nil {
		return m.frame, nil
	}
	return &Frame{}, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// TPoseFrame returns a preset full-body detection of a subject in a T-pose
// with open hands and a neutral face.
func TPoseFrame() *Frame {
	return &Frame{
		Pose:      testdata.TPoseLandmarks(),
		LeftHand:  testdata.OpenHandLandmarks("Left"),
		RightHand: testdata.OpenHandLandmarks("Right"),
		Face:      testdata.NeutralFaceLandmarks(),
	}
}

// ArmsDownFrame returns a preset detection of a subject standing with arms
// hanging at the sides, hands and face undetected.
func ArmsDownFrame() *Frame {
	return &Frame{
		Pose: testdata.ArmsDownLandmarks(),
	}
}

// Package landmark defines the landmark types and index tables shared by the
// detector and the retargeting solvers.
//
// Coordinates follow the MediaPipe convention: X+ right, Y+ downward, Z+ toward
// the camera. This is not the avatar rig convention (Y+ up); solvers negate Y
// wherever "upward" is meant.
package landmark

import "math"

// Pose landmark indices following the MediaPipe pose convention (33 points).
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose          = 0
	LeftEyeInner  = 1
	LeftEye       = 2
	LeftEyeOuter  = 3
	RightEyeInner = 4
	RightEye      = 5
	RightEyeOuter = 6
	LeftEar       = 7
	RightEar      = 8
	MouthLeft     = 9
	MouthRight    = 10
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftPinky     = 17
	RightPinky    = 18
	LeftIndex     = 19
	RightIndex    = 20
	LeftThumb     = 21
	RightThumb    = 22
	LeftHip       = 23
	RightHip      = 24
	LeftKnee      = 25
	RightKnee     = 26
	LeftAnkle     = 27
	RightAnkle    = 28
	LeftHeel      = 29
	RightHeel     = 30
	LeftFootIndex = 31
	RightFootIndex = 32

	NumPoseLandmarks = 33
)

// Hand landmark indices following the MediaPipe hand convention (21 points).
const (
	Wrist     = 0
	ThumbCMC  = 1
	ThumbMCP  = 2
	ThumbIP   = 3
	ThumbTip  = 4
	IndexMCP  = 5
	IndexPIP  = 6
	IndexDIP  = 7
	IndexTip  = 8
	MiddleMCP = 9
	MiddlePIP = 10
	MiddleDIP = 11
	MiddleTip = 12
	RingMCP   = 13
	RingPIP   = 14
	RingDIP   = 15
	RingTip   = 16
	PinkyMCP  = 17
	PinkyPIP  = 18
	PinkyDIP  = 19
	PinkyTip  = 20

	NumHandLandmarks = 21
)

// Face mesh landmark indices (468-point MediaPipe face mesh) used by the
// expression solver. Only the points the solver reads are named; the index
// meaning is fixed by the detector and must not be reinterpreted.
const (
	// Left eye (subject's left, image right).
	FaceLeftEyeOuter  = 263
	FaceLeftEyeInner  = 362
	FaceLeftEyeTop    = 386
	FaceLeftEyeBottom = 374

	// Right eye.
	FaceRightEyeOuter  = 33
	FaceRightEyeInner  = 133
	FaceRightEyeTop    = 159
	FaceRightEyeBottom = 145

	// Mouth.
	FaceMouthLeft   = 291
	FaceMouthRight  = 61
	FaceMouthTop    = 13
	FaceMouthBottom = 14

	NumFaceLandmarks = 468

	// Iris points are only present when the detector runs with iris
	// refinement enabled (478-point output).
	FaceLeftIrisCenter  = 473
	FaceRightIrisCenter = 468
	NumFaceLandmarksIris = 478
)

// DefaultVisibility is assumed when the detector omits a per-point confidence.
const DefaultVisibility = 0.5

// Point is a detected anatomical point. Visibility is the detector's
// per-point confidence in [0,1].
type Point struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Midpoint returns the arithmetic midpoint of a and b. The midpoint carries
// the lower of the two visibilities.
func Midpoint(a, b Point) Point {
	v := a.Visibility
	if b.Visibility < v {
		v = b.Visibility
	}
	return Point{
		X:          (a.X + b.X) / 2,
		Y:          (a.Y + b.Y) / 2,
		Z:          (a.Z + b.Z) / 2,
		Visibility: v,
	}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Distance2D returns the Euclidean distance between two points ignoring Z.
func Distance2D(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Package testdata provides canned landmark fixtures for solver and
// pipeline tests.
package testdata

import "github.com/ayusman/kathak/internal/landmark"

// TPoseLandmarks returns a 33-point pose of a subject facing the camera
// with both arms horizontal, straight legs and an upright torso.
// Shoulder width is 0.4 in landmark units.
func TPoseLandmarks() []landmark.Point {
	pts := make([]landmark.Point, landmark.NumPoseLandmarks)
	for i := range pts {
		pts[i].Visibility = 1
	}

	set := func(i int, x, y, z float64) {
		pts[i] = landmark.Point{X: x, Y: y, Z: z, Visibility: 1}
	}

	// Head. Y grows downward; the subject's head is above the shoulders.
	set(landmark.Nose, 0, -0.45, 0.05)
	set(landmark.LeftEar, 0.07, -0.45, 0)
	set(landmark.RightEar, -0.07, -0.45, 0)

	// Torso.
	set(landmark.LeftShoulder, 0.2, -0.3, 0)
	set(landmark.RightShoulder, -0.2, -0.3, 0)
	set(landmark.LeftHip, 0.12, 0.2, 0)
	set(landmark.RightHip, -0.12, 0.2, 0)

	// Arms straight out to the sides.
	set(landmark.LeftElbow, 0.5, -0.3, 0)
	set(landmark.RightElbow, -0.5, -0.3, 0)
	set(landmark.LeftWrist, 0.8, -0.3, 0)
	set(landmark.RightWrist, -0.8, -0.3, 0)

	// Legs straight down.
	set(landmark.LeftKnee, 0.12, 0.6, 0)
	set(landmark.RightKnee, -0.12, 0.6, 0)
	set(landmark.LeftAnkle, 0.12, 1.0, 0)
	set(landmark.RightAnkle, -0.12, 1.0, 0)

	return pts
}

// ArmsDownLandmarks returns a T-pose variant with both arms hanging
// straight down.
func ArmsDownLandmarks() []landmark.Point {
	pts := TPoseLandmarks()
	pts[landmark.LeftElbow] = landmark.Point{X: 0.2, Y: 0.0, Visibility: 1}
	pts[landmark.RightElbow] = landmark.Point{X: -0.2, Y: 0.0, Visibility: 1}
	pts[landmark.LeftWrist] = landmark.Point{X: 0.2, Y: 0.3, Visibility: 1}
	pts[landmark.RightWrist] = landmark.Point{X: -0.2, Y: 0.3, Visibility: 1}
	return pts
}

// OpenHandLandmarks returns a 21-point hand with all fingers extended
// upward, as if raised toward the camera. side is "Left" or "Right"; it
// only flips the thumb direction.
func OpenHandLandmarks(side string) []landmark.Point {
	pts := make([]landmark.Point, landmark.NumHandLandmarks)
	for i := range pts {
		pts[i].Visibility = 1
	}

	thumbDir := -1.0 // subject's right thumb points toward image right
	if side == "Left" {
		thumbDir = 1.0
	}

	set := func(i int, x, y, z float64) {
		pts[i] = landmark.Point{X: x, Y: y, Z: z, Visibility: 1}
	}

	set(landmark.Wrist, 0.5, 0.8, 0)

	// Thumb angles inward and slightly up.
	set(landmark.ThumbCMC, 0.5-0.03*thumbDir, 0.76, 0)
	set(landmark.ThumbMCP, 0.5-0.06*thumbDir, 0.72, 0)
	set(landmark.ThumbIP, 0.5-0.09*thumbDir, 0.69, 0)
	set(landmark.ThumbTip, 0.5-0.12*thumbDir, 0.66, 0)

	// Four fingers extended straight up, fanned slightly.
	fingers := []struct {
		mcp    int
		offset float64
	}{
		{landmark.IndexMCP, -0.045},
		{landmark.MiddleMCP, -0.015},
		{landmark.RingMCP, 0.015},
		{landmark.PinkyMCP, 0.045},
	}
	for _, f := range fingers {
		x := 0.5 + f.offset*thumbDir
		set(f.mcp, x, 0.68, 0)
		set(f.mcp+1, x, 0.60, 0)
		set(f.mcp+2, x, 0.54, 0)
		set(f.mcp+3, x, 0.49, 0)
	}

	return pts
}

// FistLandmarks returns a hand with all four fingers curled down toward
// the palm; the thumb stays extended.
func FistLandmarks(side string) []landmark.Point {
	pts := OpenHandLandmarks(side)
	fingers := []int{landmark.IndexMCP, landmark.MiddleMCP, landmark.RingMCP, landmark.PinkyMCP}
	for _, mcp := range fingers {
		base := pts[mcp]
		// PIP, DIP and tip fold back down toward the wrist.
		pts[mcp+1] = landmark.Point{X: base.X, Y: base.Y + 0.04, Z: 0.03, Visibility: 1}
		pts[mcp+2] = landmark.Point{X: base.X, Y: base.Y + 0.08, Z: 0.02, Visibility: 1}
		pts[mcp+3] = landmark.Point{X: base.X, Y: base.Y + 0.10, Z: 0.0, Visibility: 1}
	}
	return pts
}

// NeutralFaceLandmarks returns a 468-point face with open eyes and a
// relaxed, nearly closed mouth. Only the indices the expression solver
// reads are meaningful.
func NeutralFaceLandmarks() []landmark.Point {
	pts := make([]landmark.Point, landmark.NumFaceLandmarks)
	for i := range pts {
		pts[i].Visibility = 1
	}

	set := func(i int, x, y float64) {
		pts[i] = landmark.Point{X: x, Y: y, Visibility: 1}
	}

	// Left eye: width 0.10, opening 0.020 (EAR 0.20, fully open).
	set(landmark.FaceLeftEyeOuter, 0.20, 0.00)
	set(landmark.FaceLeftEyeInner, 0.10, 0.00)
	set(landmark.FaceLeftEyeTop, 0.15, -0.010)
	set(landmark.FaceLeftEyeBottom, 0.15, 0.010)

	// Right eye, mirrored.
	set(landmark.FaceRightEyeOuter, -0.20, 0.00)
	set(landmark.FaceRightEyeInner, -0.10, 0.00)
	set(landmark.FaceRightEyeTop, -0.15, -0.010)
	set(landmark.FaceRightEyeBottom, -0.15, 0.010)

	// Mouth: width 0.15, barely open.
	set(landmark.FaceMouthLeft, 0.075, 0.25)
	set(landmark.FaceMouthRight, -0.075, 0.25)
	set(landmark.FaceMouthTop, 0, 0.245)
	set(landmark.FaceMouthBottom, 0, 0.255)

	return pts
}

// BlinkFaceLandmarks returns a face with both eyes fully closed: the eye
// opening is below the closed-EAR floor.
func BlinkFaceLandmarks() []landmark.Point {
	pts := NeutralFaceLandmarks()
	pts[landmark.FaceLeftEyeTop].Y = -0.002
	pts[landmark.FaceLeftEyeBottom].Y = 0.002
	pts[landmark.FaceRightEyeTop].Y = -0.002
	pts[landmark.FaceRightEyeBottom].Y = 0.002
	return pts
}

// OpenMouthFaceLandmarks returns a face with a wide-open mouth, the "A"
// viseme shape.
func OpenMouthFaceLandmarks() []landmark.Point {
	pts := NeutralFaceLandmarks()
	pts[landmark.FaceMouthTop].Y = 0.20
	pts[landmark.FaceMouthBottom].Y = 0.31
	return pts
}

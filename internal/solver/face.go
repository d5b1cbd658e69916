package solver

import (
	"github.com/ayusman/kathak/internal/landmark"
	"github.com/ayusman/kathak/internal/rig"
)

// Mouth shape thresholds, hand-tuned against recordings. Openness is the
// mouth height/width ratio; wideness is the mouth width relative to the
// outer-eye distance.
const (
	mouthOpenA     = 0.30
	mouthOpenSpanA = 0.40

	mouthWideI     = 0.55
	mouthWideSpanI = 0.10
	mouthShutI     = 0.15

	mouthNarrowU     = 0.42
	mouthNarrowSpanU = 0.10
	mouthOpenU       = 0.05
	mouthOpenSpanU   = 0.20

	mouthOpenE     = 0.15
	mouthOpenSpanE = 0.20
	mouthWideE     = 0.50
	mouthWideSpanE = 0.10

	mouthOpenO       = 0.25
	mouthOpenSpanO   = 0.30
	mouthNarrowO     = 0.48
	mouthNarrowSpanO = 0.10
)

// solveFace derives blink, mouth vowel weights and optionally eye gaze from
// the face mesh. Short arrays yield nil.
func solveFace(cfg Config, face []landmark.Point) *rig.Expression {
	if len(face) < landmark.NumFaceLandmarks {
		return nil
	}

	expr := &rig.Expression{}

	expr.BlinkLeft = blinkWeight(cfg,
		face[landmark.FaceLeftEyeTop], face[landmark.FaceLeftEyeBottom],
		face[landmark.FaceLeftEyeOuter], face[landmark.FaceLeftEyeInner])
	expr.BlinkRight = blinkWeight(cfg,
		face[landmark.FaceRightEyeTop], face[landmark.FaceRightEyeBottom],
		face[landmark.FaceRightEyeOuter], face[landmark.FaceRightEyeInner])

	solveMouth(cfg, face, expr)

	if cfg.EnableGaze && len(face) >= landmark.NumFaceLandmarksIris {
		expr.EyeGazeX, expr.EyeGazeY = eyeGaze(cfg, face)
		expr.GazeValid = true
	}

	return expr
}

// blinkWeight computes the eye aspect ratio (vertical opening over
// horizontal width), normalizes it against the empirical open/closed
// bounds, and snaps near-closed values to a full close. The snap removes
// lingering partial-blink ambiguity and is deliberate hysteresis, not
// noise handling.
func blinkWeight(cfg Config, top, bottom, outer, inner landmark.Point) float64 {
	width := landmark.Distance(outer, inner)
	if width < cfg.Epsilon {
		return 0
	}
	ear := landmark.Distance(top, bottom) / width

	open := clamp((ear-cfg.EARClosed)/(cfg.EAROpen-cfg.EARClosed), 0, 1)
	blink := 1 - open
	if blink > cfg.BlinkSnap {
		return 1
	}
	return blink
}

// solveMouth scores the five mutually exclusive vowel shapes from mouth
// openness and wideness. If the raw scores sum above 1 they are rescaled so
// the total is exactly 1: the weights blend exclusive visemes, they are not
// independent triggers.
func solveMouth(cfg Config, face []landmark.Point, expr *rig.Expression) {
	width := landmark.Distance(face[landmark.FaceMouthRight], face[landmark.FaceMouthLeft])
	if width < cfg.Epsilon {
		return
	}
	height := landmark.Distance(face[landmark.FaceMouthTop], face[landmark.FaceMouthBottom])
	openness := height / width

	faceWidth := landmark.Distance(face[landmark.FaceRightEyeOuter], face[landmark.FaceLeftEyeOuter])
	if faceWidth < cfg.Epsilon {
		return
	}
	wideness := width / faceWidth

	a := clamp((openness-mouthOpenA)/mouthOpenSpanA, 0, 1)
	i := clamp((wideness-mouthWideI)/mouthWideSpanI, 0, 1) *
		clamp((mouthShutI-openness)/mouthShutI, 0, 1)
	u := clamp((mouthNarrowU-wideness)/mouthNarrowSpanU, 0, 1) *
		clamp((openness-mouthOpenU)/mouthOpenSpanU, 0, 1)
	e := clamp((openness-mouthOpenE)/mouthOpenSpanE, 0, 1) *
		clamp((wideness-mouthWideE)/mouthWideSpanE, 0, 1)
	o := clamp((openness-mouthOpenO)/mouthOpenSpanO, 0, 1) *
		clamp((mouthNarrowO-wideness)/mouthNarrowSpanO, 0, 1)

	if sum := a + i + u + e + o; sum > 1 {
		a /= sum
		i /= sum
		u /= sum
		e /= sum
		o /= sum
	}

	expr.MouthA = a
	expr.MouthI = i
	expr.MouthU = u
	expr.MouthE = e
	expr.MouthO = o
}

// eyeGaze estimates gaze from the iris-center offset within each eye,
// normalized by eye extent and clamped per axis. Requires the 478-point
// iris-refined mesh.
func eyeGaze(cfg Config, face []landmark.Point) (x, y float64) {
	gx, gy, n := 0.0, 0.0, 0

	for _, eye := range []struct {
		iris, outer, inner, top, bottom int
	}{
		{landmark.FaceLeftIrisCenter, landmark.FaceLeftEyeOuter, landmark.FaceLeftEyeInner,
			landmark.FaceLeftEyeTop, landmark.FaceLeftEyeBottom},
		{landmark.FaceRightIrisCenter, landmark.FaceRightEyeOuter, landmark.FaceRightEyeInner,
			landmark.FaceRightEyeTop, landmark.FaceRightEyeBottom},
	} {
		center := landmark.Midpoint(face[eye.outer], face[eye.inner])
		halfW := landmark.Distance(face[eye.outer], face[eye.inner]) / 2
		halfH := landmark.Distance(face[eye.top], face[eye.bottom]) / 2
		if halfW < cfg.Epsilon || halfH < cfg.Epsilon {
			continue
		}
		iris := face[eye.iris]
		gx += clamp((iris.X-center.X)/halfW, -1, 1)
		gy += clamp((iris.Y-center.Y)/halfH, -1, 1)
		n++
	}

	if n == 0 {
		return 0, 0
	}
	return gx / float64(n), gy / float64(n)
}

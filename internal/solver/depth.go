package solver

import (
	"math"

	"github.com/ayusman/kathak/internal/landmark"
)

// DepthSynthesizer estimates a pseudo-depth for 2D-only pose landmarks.
//
// The detector's 2D output flattens every limb into the image plane, which
// makes a forward reach indistinguishable from a short arm. The synthesizer
// recovers an approximate Z from foreshortening: the subject's expected limb
// lengths are taken as fixed ratios of the 2D shoulder width, and whatever
// length the projection is missing is attributed to displacement toward the
// camera. The synthesized depth is low-pass filtered per landmark because
// the sqrt amplifies detector noise near full extension.
type DepthSynthesizer struct {
	cfg  Config
	bank *FilterBank
}

// NewDepthSynthesizer creates a synthesizer using the config's limb ratios
// and depth smoothing factor.
func NewDepthSynthesizer(cfg Config) *DepthSynthesizer {
	return &DepthSynthesizer{
		cfg:  cfg,
		bank: NewFilterBank(cfg.SmoothDepth),
	}
}

// Synthesize returns a copy of the pose landmarks with estimated Z values.
// Short arrays are returned unchanged; torso and face points keep Z = 0 and
// define the body reference plane.
func (d *DepthSynthesizer) Synthesize(points []landmark.Point) []landmark.Point {
	if len(points) < landmark.NumPoseLandmarks {
		return points
	}

	out := make([]landmark.Point, len(points))
	copy(out, points)
	for i := range out {
		out[i].Z = 0
	}

	scale := landmark.Distance2D(points[landmark.LeftShoulder], points[landmark.RightShoulder])
	if scale < d.cfg.Epsilon {
		return out
	}

	d.synthesizeLimb(out, scale,
		landmark.RightShoulder, landmark.RightElbow, landmark.RightWrist,
		d.cfg.DepthUpperArmRatio, d.cfg.DepthForearmRatio, true)
	d.synthesizeLimb(out, scale,
		landmark.LeftShoulder, landmark.LeftElbow, landmark.LeftWrist,
		d.cfg.DepthUpperArmRatio, d.cfg.DepthForearmRatio, true)
	d.synthesizeLimb(out, scale,
		landmark.RightHip, landmark.RightKnee, landmark.RightAnkle,
		d.cfg.DepthUpperLegRatio, d.cfg.DepthLowerLegRatio, false)
	d.synthesizeLimb(out, scale,
		landmark.LeftHip, landmark.LeftKnee, landmark.LeftAnkle,
		d.cfg.DepthUpperLegRatio, d.cfg.DepthLowerLegRatio, false)

	return out
}

// synthesizeLimb fills the mid and end joint depth of one root-mid-end
// chain. isArm selects the elbow-height heuristic: an elbow lifted above its
// shoulder usually means the arm goes overhead rather than forward, so the
// forward displacement is halved.
func (d *DepthSynthesizer) synthesizeLimb(out []landmark.Point, scale float64, root, mid, end int, upperRatio, lowerRatio float64, isArm bool) {
	upperLen := upperRatio * scale
	lowerLen := lowerRatio * scale

	midZ := foreshortenedDepth(upperLen, landmark.Distance2D(out[root], out[mid]))
	if isArm && out[mid].Y < out[root].Y {
		midZ *= 0.5
	}
	out[mid].Z = d.bank.Apply(mid, landmark.Point{Z: midZ}).Z

	endZ := out[mid].Z + foreshortenedDepth(lowerLen, landmark.Distance2D(out[mid], out[end]))
	out[end].Z = d.bank.Apply(end, landmark.Point{Z: endZ}).Z
}

// foreshortenedDepth recovers the out-of-plane displacement of a segment of
// known length from its projected 2D length. Projections at or beyond the
// expected length yield zero.
func foreshortenedDepth(expected, projected float64) float64 {
	gap := expected*expected - projected*projected
	if gap <= 0 {
		return 0
	}
	return math.Sqrt(gap)
}

// Reset discards all per-landmark filter state.
func (d *DepthSynthesizer) Reset() {
	d.bank.Reset()
}

package solver

import (
	"math"

	"github.com/ayusman/kathak/internal/landmark"
	"github.com/ayusman/kathak/internal/rig"
)

// ArmRotations holds the solved rotations for one arm.
type ArmRotations struct {
	UpperArm rig.Rotation
	LowerArm rig.Rotation
}

// solveArms computes both arms from the 3D pose landmarks. Hands are
// optional per side and improve the twist estimate.
func solveArms(cfg Config, version rig.Version, points []landmark.Point, leftHand, rightHand []landmark.Point) *rig.Pose {
	pose := rig.NewPose()
	if len(points) < landmark.NumPoseLandmarks {
		return pose
	}

	tilt := 0.0
	if cfg.ShoulderComp {
		tilt = shoulderTilt(points)
	}

	right := solveArm(cfg, version, rig.Right,
		points[landmark.RightShoulder], points[landmark.RightElbow], points[landmark.RightWrist],
		rightHand, tilt)
	left := solveArm(cfg, version, rig.Left,
		points[landmark.LeftShoulder], points[landmark.LeftElbow], points[landmark.LeftWrist],
		leftHand, tilt)

	pose.Bones[rig.RightUpperArm] = right.UpperArm
	pose.Bones[rig.RightLowerArm] = right.LowerArm
	pose.Bones[rig.LeftUpperArm] = left.UpperArm
	pose.Bones[rig.LeftLowerArm] = left.LowerArm
	return pose
}

// solveArm converts one shoulder-elbow-wrist triple into upper-arm and
// lower-arm rotations.
func solveArm(cfg Config, version rig.Version, side rig.Side, shoulder, elbow, wrist landmark.Point, hand []landmark.Point, shoulderTilt float64) ArmRotations {
	var out ArmRotations

	upper, ok := sub(elbow, shoulder).normalize(cfg.Epsilon)
	if !ok {
		// Degenerate shoulder-elbow geometry zeroes the whole arm
		// for this frame, never a partial result.
		return out
	}

	// Raise/lower: angle of the upper arm from the upward vertical.
	// Input Y is downward-positive, hence the negation.
	angleRaw := math.Atan2(upper.horizontal(), -upper.Y)

	// Shoulder-line tilt compensation is additive and applied before
	// the rig-version sign handling.
	angleRaw -= rig.Mirror(side, shoulderTilt)

	out.UpperArm.Z = rig.ArmRaise(version, side, angleRaw)

	// Forward/back tilt. The asin form avoids the zero-denominator
	// branch of the atan2 variant.
	out.UpperArm.X = math.Asin(clamp(upper.Z, -1, 1)) * cfg.ArmXScale

	forearm, forearmOK := sub(wrist, elbow).normalize(cfg.Epsilon)

	// Twist (pronation/supination around the forearm axis).
	if forearmOK {
		out.UpperArm.Y = armTwist(cfg, side, upper, forearm, hand)
	}

	// Elbow bend: inverse cosine of the clamped dot product, 0 when
	// straight, pi when fully folded.
	if forearmOK {
		out.LowerArm.Z = rig.ElbowBend(version, side, angleBetween(upper, forearm))
	}

	return out
}

// armTwist estimates forearm twist. With hand landmarks the palm-plane
// vector is projected onto the plane perpendicular to the forearm, which
// isolates pronation from elbow bend. Without a hand it falls back to the
// azimuth difference between forearm and upper arm in the horizontal plane.
func armTwist(cfg Config, side rig.Side, upper, forearm vec, hand []landmark.Point) float64 {
	if len(hand) >= landmark.NumHandLandmarks {
		palm := sub(hand[landmark.IndexMCP], hand[landmark.PinkyMCP])
		projected := palm.minus(forearm.scale(palm.dot(forearm)))
		if unit, ok := projected.normalize(cfg.Epsilon); ok {
			return rig.Mirror(side, math.Asin(clamp(-unit.Y, -1, 1)))
		}
		return 0
	}

	// Azimuths in the horizontal plane, wrapped into (-pi, pi].
	return wrapAngle(math.Atan2(forearm.Z, forearm.X) - math.Atan2(upper.Z, upper.X))
}

// shoulderTilt measures how far the shoulder line deviates from horizontal.
// Positive means the left shoulder sits lower than the right (input Y is
// downward-positive).
func shoulderTilt(points []landmark.Point) float64 {
	ls := points[landmark.LeftShoulder]
	rs := points[landmark.RightShoulder]
	dx := math.Abs(ls.X - rs.X)
	if dx < 1e-9 {
		return 0
	}
	return math.Atan2(ls.Y-rs.Y, dx)
}

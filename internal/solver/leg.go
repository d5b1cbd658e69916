package solver

import (
	"math"

	"github.com/ayusman/kathak/internal/landmark"
	"github.com/ayusman/kathak/internal/rig"
)

// LegRotations holds the solved rotations for one leg.
type LegRotations struct {
	UpperLeg rig.Rotation
	LowerLeg rig.Rotation
}

// solveLegs computes both legs from the 3D pose landmarks. Legs trade
// responsiveness for stability: small angles are forced to zero because
// standing-pose detector noise otherwise reads as idle jitter.
func solveLegs(cfg Config, points []landmark.Point) *rig.Pose {
	pose := rig.NewPose()
	if len(points) < landmark.NumPoseLandmarks {
		return pose
	}

	right := solveLeg(cfg, rig.Right,
		points[landmark.RightHip], points[landmark.RightKnee], points[landmark.RightAnkle])
	left := solveLeg(cfg, rig.Left,
		points[landmark.LeftHip], points[landmark.LeftKnee], points[landmark.LeftAnkle])

	pose.Bones[rig.RightUpperLeg] = right.UpperLeg
	pose.Bones[rig.RightLowerLeg] = right.LowerLeg
	pose.Bones[rig.LeftUpperLeg] = left.UpperLeg
	pose.Bones[rig.LeftLowerLeg] = left.LowerLeg
	return pose
}

// solveLeg converts one hip-knee-ankle triple into upper-leg and lower-leg
// rotations. The sagittal convention is opposite to arms because legs hang
// downward in rest pose. Ab/adduction stays fixed at zero: the detector's
// lateral noise otherwise produces implausible leg splay.
func solveLeg(cfg Config, side rig.Side, hip, knee, ankle landmark.Point) LegRotations {
	var out LegRotations

	thigh, ok := sub(knee, hip).normalize(cfg.Epsilon)
	if !ok {
		return out
	}

	sagittal := math.Atan2(-thigh.Z, thigh.Y)
	if math.Abs(sagittal) < cfg.LegDeadZone {
		sagittal = 0
	}
	out.UpperLeg.Z = sagittal

	shin, ok := sub(ankle, knee).normalize(cfg.Epsilon)
	if !ok {
		return out
	}

	bend := angleBetween(thigh, shin)
	if bend < cfg.KneeDeadZone {
		bend = 0
	}
	out.LowerLeg.Z = rig.Mirror(side, bend)

	return out
}

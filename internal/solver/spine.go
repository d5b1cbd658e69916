package solver

import (
	"math"

	"github.com/ayusman/kathak/internal/landmark"
	"github.com/ayusman/kathak/internal/rig"
)

// solveSpine derives the torso lean/twist and the neck/head orientation
// from the pose landmarks. The lean is apportioned across the spine chain
// to approximate a distributed spine curve instead of a single rigid joint.
func solveSpine(cfg Config, points []landmark.Point) *rig.Pose {
	pose := rig.NewPose()
	if len(points) < landmark.NumPoseLandmarks {
		return pose
	}

	hipCenter := landmark.Midpoint(points[landmark.LeftHip], points[landmark.RightHip])
	shoulderCenter := landmark.Midpoint(points[landmark.LeftShoulder], points[landmark.RightShoulder])

	// The renderer translates and scales the raw hip center into rig
	// space; this solver only supplies the point.
	pose.HipsPosition = &hipCenter
	pose.Bones[rig.Hips] = rig.Rotation{}

	spineVec, ok := sub(shoulderCenter, hipCenter).normalize(cfg.Epsilon)
	if ok {
		// Lean angles against the upward vertical (-Y).
		lateral := math.Atan2(spineVec.X, -spineVec.Y)
		forward := math.Atan2(spineVec.Z, -spineVec.Y)
		twist := torsoTwist(points)

		for _, part := range []struct {
			bone  rig.Bone
			share float64
		}{
			{rig.Spine, cfg.SpineLeanSplit},
			{rig.Chest, cfg.ChestLeanSplit},
			{rig.UpperChest, cfg.UpperChestLeanSplit},
		} {
			pose.Bones[part.bone] = rig.Rotation{
				X: forward * part.share,
				Y: twist * part.share,
				Z: lateral * part.share,
			}
		}
	}

	neck, head := solveHead(cfg, points)
	pose.Bones[rig.Neck] = neck
	pose.Bones[rig.Head] = head

	return pose
}

// torsoTwist compares the shoulder-line azimuth to the hip-line azimuth in
// the horizontal plane, wrapped into (-pi, pi].
func torsoTwist(points []landmark.Point) float64 {
	shoulders := sub(points[landmark.RightShoulder], points[landmark.LeftShoulder])
	hips := sub(points[landmark.RightHip], points[landmark.LeftHip])
	return wrapAngle(math.Atan2(shoulders.Z, shoulders.X) - math.Atan2(hips.Z, hips.X))
}

// solveHead derives yaw/pitch/roll from the ear-center to nose vector and
// splits the motion between the neck and head bones.
func solveHead(cfg Config, points []landmark.Point) (neck, head rig.Rotation) {
	earCenter := landmark.Midpoint(points[landmark.LeftEar], points[landmark.RightEar])
	facing, ok := sub(points[landmark.Nose], earCenter).normalize(cfg.Epsilon)
	if !ok {
		return rig.Rotation{}, rig.Rotation{}
	}

	// The subject faces the camera but the avatar faces the viewer, a
	// 180-degree scene-facing flip. The pi offset keeps a straight-on
	// face at zero yaw.
	yaw := wrapAngle(math.Atan2(facing.X, -facing.Z) - math.Pi)
	pitch := math.Atan2(facing.Y, facing.horizontal())

	// Roll stays inert until its sign handling is verified against
	// recordings.
	roll := 0.0
	if cfg.EnableHeadRoll {
		ears := sub(points[landmark.RightEar], points[landmark.LeftEar])
		dx := math.Abs(ears.X)
		if dx > 1e-9 {
			roll = math.Atan2(ears.Y, dx)
		}
	}

	full := rig.Rotation{X: pitch, Y: yaw, Z: roll}
	neck = rig.Rotation{
		X: full.X * cfg.NeckSplit,
		Y: full.Y * cfg.NeckSplit,
		Z: full.Z * cfg.NeckSplit,
	}
	head = rig.Rotation{
		X: full.X * (1 - cfg.NeckSplit),
		Y: full.Y * (1 - cfg.NeckSplit),
		Z: full.Z * (1 - cfg.NeckSplit),
	}
	return neck, head
}

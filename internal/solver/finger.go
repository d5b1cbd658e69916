package solver

import (
	"math"

	"github.com/ayusman/kathak/internal/landmark"
	"github.com/ayusman/kathak/internal/rig"
)

// fingerJoint names one bone of a finger chain and the landmark pair whose
// vector drives it.
type fingerJoint struct {
	from, to int
}

// fingerChains lists the three joints of each finger in proximal to distal
// order. The thumb chain starts at the CMC instead of an MCP knuckle.
var fingerChains = []struct {
	name   string
	thumb  bool
	joints [3]fingerJoint
}{
	{"Thumb", true, [3]fingerJoint{
		{landmark.ThumbCMC, landmark.ThumbMCP},
		{landmark.ThumbMCP, landmark.ThumbIP},
		{landmark.ThumbIP, landmark.ThumbTip},
	}},
	{"Index", false, [3]fingerJoint{
		{landmark.IndexMCP, landmark.IndexPIP},
		{landmark.IndexPIP, landmark.IndexDIP},
		{landmark.IndexDIP, landmark.IndexTip},
	}},
	{"Middle", false, [3]fingerJoint{
		{landmark.MiddleMCP, landmark.MiddlePIP},
		{landmark.MiddlePIP, landmark.MiddleDIP},
		{landmark.MiddleDIP, landmark.MiddleTip},
	}},
	{"Ring", false, [3]fingerJoint{
		{landmark.RingMCP, landmark.RingPIP},
		{landmark.RingPIP, landmark.RingDIP},
		{landmark.RingDIP, landmark.RingTip},
	}},
	{"Little", false, [3]fingerJoint{
		{landmark.PinkyMCP, landmark.PinkyPIP},
		{landmark.PinkyPIP, landmark.PinkyDIP},
		{landmark.PinkyDIP, landmark.PinkyTip},
	}},
}

var jointSuffixes = [3]string{"Proximal", "Intermediate", "Distal"}

// fingerBone resolves the VRM bone name, e.g. ("right", "Index", 0) ->
// rightIndexProximal.
func fingerBone(side rig.Side, finger string, joint int) rig.Bone {
	return rig.Bone(side.String() + finger + jointSuffixes[joint])
}

// solveFingers converts a 21-point hand landmark array into three joint
// rotations per finger. A missing or short array yields nil, never a
// partial hand.
func solveFingers(cfg Config, side rig.Side, hand []landmark.Point) *rig.Pose {
	if len(hand) < landmark.NumHandLandmarks {
		return nil
	}

	pose := rig.NewPose()
	for _, chain := range fingerChains {
		for j, joint := range chain.joints {
			v, ok := sub(hand[joint.to], hand[joint.from]).normalize(cfg.Epsilon)
			bone := fingerBone(side, chain.name, j)
			if !ok {
				pose.Bones[bone] = rig.Rotation{}
				continue
			}

			var rot rig.Rotation
			if chain.thumb {
				rot = thumbJointRotation(side, v)
			} else {
				rot = fingerJointRotation(cfg, side, v, j == 0)
			}
			pose.Bones[bone] = rot
		}
	}
	return pose
}

// fingerJointRotation derives the curl (and, for the knuckle joint, the
// spread) of a non-thumb finger segment. The curl reuses the arm's
// angle-from-vertical trick, offset by pi/2 and sign-inverted so positive
// means extended.
func fingerJointRotation(cfg Config, side rig.Side, v vec, knuckle bool) rig.Rotation {
	raw := math.Atan2(v.horizontal(), -v.Y)
	bend := math.Pi/2 - raw

	rot := rig.Rotation{Z: rig.Mirror(side, bend)}
	if knuckle {
		// Spread is visually secondary to the curl, hence the
		// scale-down.
		spread := math.Asin(clamp(v.X, -1, 1)) * cfg.FingerSpreadScale
		rot.Y = rig.Mirror(side, spread)
	}
	return rot
}

// thumbJointRotation handles the thumb's rotated rest orientation: its
// primary curl axis is the inward/outward component relative to the palm,
// not the vertical, and the curl lands on the Y axis.
func thumbJointRotation(side rig.Side, v vec) rig.Rotation {
	inward := -rig.Mirror(side, v.X)
	raw := math.Atan2(math.Sqrt(v.Y*v.Y+v.Z*v.Z), inward)
	bend := math.Pi/2 - raw
	return rig.Rotation{Y: rig.Mirror(side, bend)}
}

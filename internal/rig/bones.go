// Package rig defines the VRM humanoid bone vocabulary and the per-frame
// rigged pose produced by the retargeting solvers.
package rig

// Bone identifies a humanoid bone in the target avatar skeleton. Body bones
// use the VRM humanoid names; finger bones use the lower-camel form the VRM
// runtime expects.
type Bone string

// Body bones.
const (
	Hips       Bone = "Hips"
	Spine      Bone = "Spine"
	Chest      Bone = "Chest"
	UpperChest Bone = "UpperChest"
	Neck       Bone = "Neck"
	Head       Bone = "Head"

	LeftUpperArm  Bone = "LeftUpperArm"
	LeftLowerArm  Bone = "LeftLowerArm"
	RightUpperArm Bone = "RightUpperArm"
	RightLowerArm Bone = "RightLowerArm"

	LeftUpperLeg  Bone = "LeftUpperLeg"
	LeftLowerLeg  Bone = "LeftLowerLeg"
	RightUpperLeg Bone = "RightUpperLeg"
	RightLowerLeg Bone = "RightLowerLeg"
)

// Finger bones, three joints per finger. "Little" is the VRM name for the
// pinky.
const (
	LeftThumbProximal       Bone = "leftThumbProximal"
	LeftThumbIntermediate   Bone = "leftThumbIntermediate"
	LeftThumbDistal         Bone = "leftThumbDistal"
	LeftIndexProximal       Bone = "leftIndexProximal"
	LeftIndexIntermediate   Bone = "leftIndexIntermediate"
	LeftIndexDistal         Bone = "leftIndexDistal"
	LeftMiddleProximal      Bone = "leftMiddleProximal"
	LeftMiddleIntermediate  Bone = "leftMiddleIntermediate"
	LeftMiddleDistal        Bone = "leftMiddleDistal"
	LeftRingProximal        Bone = "leftRingProximal"
	LeftRingIntermediate    Bone = "leftRingIntermediate"
	LeftRingDistal          Bone = "leftRingDistal"
	LeftLittleProximal      Bone = "leftLittleProximal"
	LeftLittleIntermediate  Bone = "leftLittleIntermediate"
	LeftLittleDistal        Bone = "leftLittleDistal"
	RightThumbProximal      Bone = "rightThumbProximal"
	RightThumbIntermediate  Bone = "rightThumbIntermediate"
	RightThumbDistal        Bone = "rightThumbDistal"
	RightIndexProximal      Bone = "rightIndexProximal"
	RightIndexIntermediate  Bone = "rightIndexIntermediate"
	RightIndexDistal        Bone = "rightIndexDistal"
	RightMiddleProximal     Bone = "rightMiddleProximal"
	RightMiddleIntermediate Bone = "rightMiddleIntermediate"
	RightMiddleDistal       Bone = "rightMiddleDistal"
	RightRingProximal       Bone = "rightRingProximal"
	RightRingIntermediate   Bone = "rightRingIntermediate"
	RightRingDistal         Bone = "rightRingDistal"
	RightLittleProximal     Bone = "rightLittleProximal"
	RightLittleIntermediate Bone = "rightLittleIntermediate"
	RightLittleDistal       Bone = "rightLittleDistal"
)

// Side distinguishes the left and right halves of the body.
type Side int

const (
	Left Side = iota
	Right
)

// String returns "left" or "right".
func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Mirror negates v for the right side and keeps it for the left. Left/right
// solvers are mirror images except where the sign-convention table below
// breaks the symmetry.
func Mirror(side Side, v float64) float64 {
	if side == Right {
		return -v
	}
	return v
}

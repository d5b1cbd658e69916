package rig

import (
	"math"
	"strings"
)

// Version distinguishes the two VRM rigging conventions. VRM 0.x and VRM 1.0
// avatars use opposite signs on several axes, so every solver takes the
// version of the currently loaded avatar.
type Version int

const (
	// VRM0 is the legacy 0.x convention.
	VRM0 Version = iota
	// VRM1 is the current 1.0 convention.
	VRM1
)

// String returns "vrm0" or "vrm1".
func (v Version) String() string {
	if v == VRM1 {
		return "vrm1"
	}
	return "vrm0"
}

// ParseVersion maps a version string to a Version. Both avatar metadata
// forms ("1.0", "0.x") and the stored form ("vrm1", "vrm0") are accepted;
// anything that does not look like a 1.x version is treated as legacy.
func ParseVersion(s string) Version {
	s = strings.TrimPrefix(s, "vrm")
	if len(s) > 0 && s[0] == '1' {
		return VRM1
	}
	return VRM0
}

// armRaiseSign pins the four-quadrant sign behavior for the upper-arm
// raise/lower axis. The table reproduces the tuned behavior of the reference
// recordings rather than an anatomical derivation; the two conventions went
// through at least one historical reversal, so the quadrants are kept
// explicit and tested instead of being folded into Mirror.
var armRaiseSign = map[Version]map[Side]float64{
	VRM1: {Right: -1, Left: +1},
	VRM0: {Right: +1, Left: -1},
}

// elbowBendSign gives the sign applied to the LowerArm Z bend.
var elbowBendSign = map[Version]map[Side]float64{
	VRM1: {Right: -1, Left: +1},
	VRM0: {Right: +1, Left: -1},
}

// ArmRaise maps the raw angle-from-vertical of the upper arm onto the rig's
// raise/lower axis. Zero means a horizontal arm, positive means raised. The
// base mapping is version dependent (pi/2 - raw for VRM1, raw - pi/2 for
// VRM0) and the per-side sign comes from the quadrant table.
func ArmRaise(v Version, s Side, angleRaw float64) float64 {
	base := math.Pi/2 - angleRaw
	if v == VRM0 {
		base = angleRaw - math.Pi/2
	}
	return armRaiseSign[v][s] * base
}

// ElbowBend applies the side- and version-dependent sign to an elbow bend
// magnitude in [0, pi].
func ElbowBend(v Version, s Side, magnitude float64) float64 {
	return elbowBendSign[v][s] * magnitude
}

// Package solver converts per-frame landmark detections into VRM bone
// rotations and face expression weights. All functions are pure
// transformations over their inputs; the only carried state is the previous
// smoothed pose and the depth filter bank, both owned by one capture session.
package solver

import "math"

// Config is the tuning surface for the retargeting pipeline. Every numeric
// constant that changed during tuning lives here so the geometry logic never
// embeds magic numbers.
type Config struct {
	// Epsilon guards every division by a vector length, in landmark
	// coordinate units. Vectors shorter than this contribute a zero
	// rotation instead of a division by zero.
	Epsilon float64

	// ArmXScale is the gain on the upper-arm forward/back tilt.
	ArmXScale float64

	// ShoulderComp enables the shoulder-line tilt compensation on the
	// arm raise angle, so a tilted torso does not read as a lowered arm.
	ShoulderComp bool

	// LegDeadZone is the minimum upper-leg sagittal angle accepted as a
	// real movement; smaller magnitudes are forced to zero to suppress
	// standing-pose jitter.
	LegDeadZone float64

	// KneeDeadZone is the minimum knee bend accepted as a real movement.
	KneeDeadZone float64

	// SpineLeanSplit, ChestLeanSplit and UpperChestLeanSplit apportion
	// the torso lean across the spine chain. They should sum to 1.
	SpineLeanSplit      float64
	ChestLeanSplit      float64
	UpperChestLeanSplit float64

	// NeckSplit is the share of head motion assigned to the neck bone;
	// the head bone receives the remainder.
	NeckSplit float64

	// EnableHeadRoll switches on the head roll computation. It is off
	// until the roll sign handling is verified against recordings.
	EnableHeadRoll bool

	// FingerSpreadScale scales finger abduction, which is visually
	// secondary to the curl.
	FingerSpreadScale float64

	// EARClosed and EAROpen are the empirical eye-aspect-ratio bounds
	// for a fully closed and a fully open eye.
	EARClosed float64
	EAROpen   float64

	// BlinkSnap is the blink weight above which the eye is snapped to
	// fully closed, removing lingering partial-blink ambiguity.
	BlinkSnap float64

	// EnableGaze wires the iris-based eye gaze values into the output.
	EnableGaze bool

	// Per-category temporal smoothing factors. Higher means heavier
	// smoothing; the smoother blends as
	// prev + (cur-prev)*(1-factor).
	SmoothBody     float64
	SmoothArmTwist float64
	SmoothHead     float64
	SmoothBlink    float64
	SmoothMouth    float64

	// SmoothDepth is the low-pass factor for synthesized landmark depth.
	SmoothDepth float64

	// Limb length ratios relative to the 2D shoulder width, used by the
	// depth synthesizer when the detector supplies no world landmarks.
	DepthUpperArmRatio float64
	DepthForearmRatio  float64
	DepthUpperLegRatio float64
	DepthLowerLegRatio float64
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		Epsilon: 0.01,

		ArmXScale:    1.2,
		ShoulderComp: true,

		LegDeadZone:  0.15,
		KneeDeadZone: 0.6,

		SpineLeanSplit:      0.5,
		ChestLeanSplit:      0.3,
		UpperChestLeanSplit: 0.2,

		NeckSplit:      0.6,
		EnableHeadRoll: false,

		FingerSpreadScale: 0.5,

		EARClosed: 0.05,
		EAROpen:   0.20,
		BlinkSnap: 0.65,

		EnableGaze: false,

		SmoothBody:     0.4,
		SmoothArmTwist: 0.1,
		SmoothHead:     0.6,
		SmoothBlink:    0.2,
		SmoothMouth:    0.4,

		SmoothDepth: 0.5,

		DepthUpperArmRatio: 0.75,
		DepthForearmRatio:  0.70,
		DepthUpperLegRatio: 1.10,
		DepthLowerLegRatio: 1.00,
	}
}

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrapAngle normalizes an angle into (-pi, pi].
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

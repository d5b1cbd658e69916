package rig

import "github.com/ayusman/kathak/internal/landmark"

// Rotation is a bone rotation offset from rest pose: Euler angles in radians,
// XYZ intrinsic order. It is always a delta relative to the bone's bind
// rotation, never an absolute orientation.
type Rotation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Expression holds the face weights. Blink and vowel weights are in [0,1];
// gaze is in [-1,1] per axis and only meaningful when GazeValid is set.
type Expression struct {
	BlinkLeft  float64 `json:"blinkLeft"`
	BlinkRight float64 `json:"blinkRight"`
	MouthA     float64 `json:"mouthA"`
	MouthI     float64 `json:"mouthI"`
	MouthU     float64 `json:"mouthU"`
	MouthE     float64 `json:"mouthE"`
	MouthO     float64 `json:"mouthO"`
	EyeGazeX   float64 `json:"eyeGazeX,omitempty"`
	EyeGazeY   float64 `json:"eyeGazeY,omitempty"`
	GazeValid  bool    `json:"gazeValid,omitempty"`
}

// Pose is the per-frame mapping from bone to rotation, plus the hip world
// position (the only positional entry) and the face expression block.
//
// A Pose is built fresh every detection frame and never mutated afterwards;
// the temporal smoother produces a new Pose by blending with the previous
// frame's retained one.
type Pose struct {
	Bones        map[Bone]Rotation `json:"bones"`
	HipsPosition *landmark.Point   `json:"hipsPosition,omitempty"`
	Face         *Expression       `json:"face,omitempty"`
	TimestampMs  int64             `json:"timestampMs"`
}

// NewPose returns an empty pose ready for the solvers to fill.
func NewPose() *Pose {
	return &Pose{Bones: make(map[Bone]Rotation)}
}

// Clone returns a value copy of the pose. Bone rotations are value types, so
// a fresh map plus copied scalars is a full snapshot.
func (p *Pose) Clone() *Pose {
	if p == nil {
		return nil
	}
	c := &Pose{
		Bones:       make(map[Bone]Rotation, len(p.Bones)),
		TimestampMs: p.TimestampMs,
	}
	for b, r := range p.Bones {
		c.Bones[b] = r
	}
	if p.HipsPosition != nil {
		pos := *p.HipsPosition
		c.HipsPosition = &pos
	}
	if p.Face != nil {
		face := *p.Face
		c.Face = &face
	}
	return c
}

// Merge copies every entry of other into p, overwriting on key collision.
// The solvers write disjoint bone sets by construction, so the overwrite is
// only a formality.
func (p *Pose) Merge(other *Pose) {
	if other == nil {
		return
	}
	for b, r := range other.Bones {
		p.Bones[b] = r
	}
	if other.HipsPosition != nil {
		pos := *other.HipsPosition
		p.HipsPosition = &pos
	}
	if other.Face != nil {
		face := *other.Face
		p.Face = &face
	}
}

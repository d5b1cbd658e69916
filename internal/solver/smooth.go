package solver

import (
	"github.com/ayusman/kathak/internal/landmark"
	"github.com/ayusman/kathak/internal/rig"
)

// Smoother applies per-bone, per-axis temporal smoothing across frames. It
// blends against the previous frame's smoothed pose, so smoothing
// compounds. The smoother is the only stage that carries pose state between
// frames; one instance belongs to one capture session.
type Smoother struct {
	cfg  Config
	prev *rig.Pose
}

// NewSmoother creates a smoother using the config's per-category factors.
func NewSmoother(cfg Config) *Smoother {
	return &Smoother{cfg: cfg}
}

// Apply blends the current merged pose against the previous smoothed pose
// and retains the result. The first frame passes through unsmoothed. Bones
// present previously but absent this frame ease back toward rest instead of
// freezing.
func (s *Smoother) Apply(cur *rig.Pose) *rig.Pose {
	if s.prev == nil {
		out := cur.Clone()
		s.prev = out.Clone()
		return out
	}

	out := rig.NewPose()
	out.TimestampMs = cur.TimestampMs

	for bone := range unionBones(s.prev, cur) {
		prevR := s.prev.Bones[bone]
		curR := cur.Bones[bone]
		fx, fy, fz := s.factors(bone)
		out.Bones[bone] = rig.Rotation{
			X: smoothValue(prevR.X, curR.X, fx),
			Y: smoothValue(prevR.Y, curR.Y, fy),
			Z: smoothValue(prevR.Z, curR.Z, fz),
		}
	}

	out.HipsPosition = s.smoothHips(cur.HipsPosition)
	out.Face = s.smoothFace(cur.Face)

	s.prev = out.Clone()
	return out
}

// Reset discards the retained pose. Called on session teardown and on
// avatar swap.
func (s *Smoother) Reset() {
	s.prev = nil
}

// factors returns the per-axis smoothing factors for a bone. The arm twist
// axis is markedly lighter than the rest because it must track fast wrist
// rotation; head and neck are heavier to keep the face steady.
func (s *Smoother) factors(bone rig.Bone) (x, y, z float64) {
	switch bone {
	case rig.Neck, rig.Head:
		f := s.cfg.SmoothHead
		return f, f, f
	case rig.LeftUpperArm, rig.RightUpperArm, rig.LeftLowerArm, rig.RightLowerArm:
		f := s.cfg.SmoothBody
		return f, s.cfg.SmoothArmTwist, f
	default:
		f := s.cfg.SmoothBody
		return f, f, f
	}
}

func (s *Smoother) smoothHips(cur *landmark.Point) *landmark.Point {
	if cur == nil {
		if s.prev.HipsPosition == nil {
			return nil
		}
		pos := *s.prev.HipsPosition
		return &pos
	}
	if s.prev.HipsPosition == nil {
		pos := *cur
		return &pos
	}
	f := s.cfg.SmoothBody
	prev := s.prev.HipsPosition
	return &landmark.Point{
		X:          smoothValue(prev.X, cur.X, f),
		Y:          smoothValue(prev.Y, cur.Y, f),
		Z:          smoothValue(prev.Z, cur.Z, f),
		Visibility: cur.Visibility,
	}
}

func (s *Smoother) smoothFace(cur *rig.Expression) *rig.Expression {
	if cur == nil && s.prev.Face == nil {
		return nil
	}

	var curV, prevV rig.Expression
	if cur != nil {
		curV = *cur
	}
	if s.prev.Face != nil {
		prevV = *s.prev.Face
	}

	blink := s.cfg.SmoothBlink
	mouth := s.cfg.SmoothMouth

	out := rig.Expression{
		BlinkLeft:  smoothValue(prevV.BlinkLeft, curV.BlinkLeft, blink),
		BlinkRight: smoothValue(prevV.BlinkRight, curV.BlinkRight, blink),
		MouthA:     smoothValue(prevV.MouthA, curV.MouthA, mouth),
		MouthI:     smoothValue(prevV.MouthI, curV.MouthI, mouth),
		MouthU:     smoothValue(prevV.MouthU, curV.MouthU, mouth),
		MouthE:     smoothValue(prevV.MouthE, curV.MouthE, mouth),
		MouthO:     smoothValue(prevV.MouthO, curV.MouthO, mouth),
		EyeGazeX:   smoothValue(prevV.EyeGazeX, curV.EyeGazeX, blink),
		EyeGazeY:   smoothValue(prevV.EyeGazeY, curV.EyeGazeY, blink),
		GazeValid:  curV.GazeValid,
	}
	return &out
}

// unionBones yields the set of bones present in either pose.
func unionBones(a, b *rig.Pose) map[rig.Bone]struct{} {
	set := make(map[rig.Bone]struct{}, len(a.Bones)+len(b.Bones))
	for bone := range a.Bones {
		set[bone] = struct{}{}
	}
	for bone := range b.Bones {
		set[bone] = struct{}{}
	}
	return set
}

package solver

import (
	"github.com/ayusman/kathak/internal/landmark"
	"github.com/ayusman/kathak/internal/rig"
)

// Input is one frame of landmark detections. Pose is the 2D pose array;
// World, when the detector supplies it, is the matching metric 3D array and
// is preferred over depth synthesis. Hands and Face may be nil.
type Input struct {
	Pose        []landmark.Point
	World       []landmark.Point
	LeftHand    []landmark.Point
	RightHand   []landmark.Point
	Face        []landmark.Point
	TimestampMs int64
}

// Result carries both the merged pre-smoothing pose (recorded for offline
// tuning) and the smoothed pose handed to the renderer.
type Result struct {
	Raw      *rig.Pose
	Smoothed *rig.Pose
}

// Solver runs the full retargeting pipeline for one capture session. It is
// not safe for concurrent use; the pipeline is frame-synchronous by design.
type Solver struct {
	cfg      Config
	version  rig.Version
	depth    *DepthSynthesizer
	smoother *Smoother
}

// New creates a solver for an avatar with the given rig version.
func New(cfg Config, version rig.Version) *Solver {
	return &Solver{
		cfg:      cfg,
		version:  version,
		depth:    NewDepthSynthesizer(cfg),
		smoother: NewSmoother(cfg),
	}
}

// Version returns the rig version the solver targets.
func (s *Solver) Version() rig.Version {
	return s.version
}

// SetVersion switches the target rig version and resets all carried state,
// since poses solved under the old sign conventions must not bleed into the
// new session.
func (s *Solver) SetVersion(v rig.Version) {
	s.version = v
	s.Reset()
}

// Reset discards the previous smoothed pose and the depth filter state.
// Called when capture stops or the avatar is swapped.
func (s *Solver) Reset() {
	s.smoother.Reset()
	s.depth.Reset()
}

// Solve converts one frame of landmarks into a rigged pose. Solvers for
// missing landmark groups contribute zero rotations or nothing at all;
// Solve itself never fails.
func (s *Solver) Solve(in Input) *Result {
	points := in.World
	if len(points) < landmark.NumPoseLandmarks {
		points = s.depth.Synthesize(in.Pose)
	}

	raw := rig.NewPose()
	raw.TimestampMs = in.TimestampMs

	if len(points) >= landmark.NumPoseLandmarks {
		raw.Merge(solveArms(s.cfg, s.version, points, in.LeftHand, in.RightHand))
		raw.Merge(solveLegs(s.cfg, points))
		raw.Merge(solveSpine(s.cfg, points))
	}

	raw.Merge(solveFingers(s.cfg, rig.Left, in.LeftHand))
	raw.Merge(solveFingers(s.cfg, rig.Right, in.RightHand))

	raw.Face = solveFace(s.cfg, in.Face)

	return &Result{
		Raw:      raw,
		Smoothed: s.smoother.Apply(raw),
	}
}

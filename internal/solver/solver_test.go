package solver

import (
	"math"
	"testing"

	"github.com/ayusman/kathak/internal/landmark"
	"github.com/ayusman/kathak/internal/rig"
	"github.com/ayusman/kathak/testdata"
)

func fullInput() Input {
	return Input{
		Pose:        testdata.TPoseLandmarks(),
		LeftHand:    testdata.OpenHandLandmarks("Left"),
		RightHand:   testdata.OpenHandLandmarks("Right"),
		Face:        testdata.NeutralFaceLandmarks(),
		TimestampMs: 100,
	}
}

func TestSolve_FirstFrameRawEqualsSmoothed(t *testing.T) {
	s := New(DefaultConfig(), rig.VRM1)
	res := s.Solve(fullInput())

	for bone, raw := range res.Raw.Bones {
		sm := res.Smoothed.Bones[bone]
		if raw != sm {
			t.Errorf("%s: first frame smoothed %+v != raw %+v", bone, sm, raw)
		}
	}
}

func TestSolve_PopulatesAllGroups(t *testing.T) {
	s := New(DefaultConfig(), rig.VRM1)
	res := s.Solve(fullInput())

	for _, bone := range []rig.Bone{
		rig.LeftUpperArm, rig.RightLowerArm,
		rig.LeftUpperLeg, rig.RightLowerLeg,
		rig.Spine, rig.Chest, rig.Neck, rig.Head,
		rig.LeftIndexProximal, rig.RightLittleDistal,
	} {
		if _, ok := res.Raw.Bones[bone]; !ok {
			t.Errorf("missing bone %s", bone)
		}
	}
	if res.Raw.Face == nil {
		t.Error("missing face expression")
	}
	if res.Raw.HipsPosition == nil {
		t.Error("missing hips position")
	}
	if res.Raw.TimestampMs != 100 {
		t.Errorf("timestamp = %d, want 100", res.Raw.TimestampMs)
	}
}

func TestSolve_DeterministicAfterReset(t *testing.T) {
	s := New(DefaultConfig(), rig.VRM1)

	first := s.Solve(fullInput())
	s.Solve(fullInput())
	s.Reset()
	again := s.Solve(fullInput())

	for bone, want := range first.Smoothed.Bones {
		got := again.Smoothed.Bones[bone]
		if got != want {
			t.Errorf("%s: post-reset %+v != first run %+v", bone, got, want)
		}
	}
}

func TestSolve_WorldLandmarksSkipDepthSynthesis(t *testing.T) {
	s := New(DefaultConfig(), rig.VRM1)

	// A torso lean encoded purely in shoulder Z: depth synthesis would
	// zero it out, world landmarks must keep it.
	world := testdata.TPoseLandmarks()
	world[landmark.LeftShoulder].Z = -0.2
	world[landmark.RightShoulder].Z = -0.2

	res := s.Solve(Input{Pose: testdata.TPoseLandmarks(), World: world})
	if res.Raw.Bones[rig.Spine].X >= 0 {
		t.Errorf("spine X = %f, want a nonzero lean from world Z", res.Raw.Bones[rig.Spine].X)
	}
}

func TestSolve_MissingGroupsContributeNothing(t *testing.T) {
	s := New(DefaultConfig(), rig.VRM1)

	res := s.Solve(Input{Pose: testdata.TPoseLandmarks()})
	if res.Raw.Face != nil {
		t.Error("no face landmarks should mean no expression block")
	}
	if _, ok := res.Raw.Bones[rig.LeftIndexProximal]; ok {
		t.Error("no hand landmarks should mean no finger bones")
	}
	if _, ok := res.Raw.Bones[rig.LeftUpperArm]; !ok {
		t.Error("body solve should still run without hands")
	}
}

func TestSolve_EmptyInputYieldsEmptyPose(t *testing.T) {
	s := New(DefaultConfig(), rig.VRM1)

	res := s.Solve(Input{TimestampMs: 5})
	if len(res.Raw.Bones) != 0 {
		t.Errorf("empty input produced %d bones", len(res.Raw.Bones))
	}
	if res.Smoothed == nil {
		t.Fatal("smoothed pose must always exist")
	}
}

func TestSolve_VersionFlipsArmRaiseSign(t *testing.T) {
	cfg := DefaultConfig()

	down := Input{Pose: testdata.ArmsDownLandmarks()}

	v1 := New(cfg, rig.VRM1).Solve(down).Raw.Bones[rig.RightUpperArm].Z
	v0 := New(cfg, rig.VRM0).Solve(down).Raw.Bones[rig.RightUpperArm].Z

	if math.Abs(v1-v0) > 1e-9 {
		t.Errorf("net raise should agree across versions, VRM1 %f vs VRM0 %f", v1, v0)
	}
	if math.Abs(v1) < 1.0 {
		t.Errorf("hanging arm raise magnitude %f too small", math.Abs(v1))
	}
}

func TestSetVersion_ResetsState(t *testing.T) {
	s := New(DefaultConfig(), rig.VRM1)

	s.Solve(fullInput())
	s.SetVersion(rig.VRM0)

	if s.Version() != rig.VRM0 {
		t.Fatalf("version = %v, want VRM0", s.Version())
	}

	res := s.Solve(fullInput())
	for bone, raw := range res.Raw.Bones {
		if res.Smoothed.Bones[bone] != raw {
			t.Errorf("%s: frame after SetVersion should pass through unsmoothed", bone)
		}
	}
}

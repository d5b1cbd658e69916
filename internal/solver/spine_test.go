package solver

import (
	"math"
	"testing"

	"github.com/ayusman/kathak/internal/landmark"
	"github.com/ayusman/kathak/internal/rig"
	"github.com/ayusman/kathak/testdata"
)

func TestSolveSpine_UprightTorso(t *testing.T) {
	cfg := DefaultConfig()
	pose := solveSpine(cfg, testdata.TPoseLandmarks())

	for _, bone := range []rig.Bone{rig.Spine, rig.Chest, rig.UpperChest} {
		r := pose.Bones[bone]
		if math.Abs(r.X) > 1e-6 || math.Abs(r.Z) > 1e-6 {
			t.Errorf("%s = %+v, want no lean for upright torso", bone, r)
		}
	}
}

func TestSolveSpine_LateralLeanIsDistributed(t *testing.T) {
	cfg := DefaultConfig()
	pts := testdata.TPoseLandmarks()

	// Lean the whole upper body to the subject's left.
	for _, i := range []int{landmark.LeftShoulder, landmark.RightShoulder, landmark.Nose, landmark.LeftEar, landmark.RightEar} {
		pts[i].X += 0.15
	}

	pose := solveSpine(cfg, pts)

	spine := pose.Bones[rig.Spine].Z
	chest := pose.Bones[rig.Chest].Z
	upper := pose.Bones[rig.UpperChest].Z

	if spine == 0 {
		t.Fatal("expected non-zero spine lean")
	}

	// The split follows the configured 50/30/20 shares.
	if math.Abs(chest/spine-cfg.ChestLeanSplit/cfg.SpineLeanSplit) > 1e-6 {
		t.Errorf("chest/spine share = %f, want %f", chest/spine, cfg.ChestLeanSplit/cfg.SpineLeanSplit)
	}
	if math.Abs(upper/spine-cfg.UpperChestLeanSplit/cfg.SpineLeanSplit) > 1e-6 {
		t.Errorf("upperChest/spine share = %f, want %f", upper/spine, cfg.UpperChestLeanSplit/cfg.SpineLeanSplit)
	}
}

func TestSolveSpine_HipsPosition(t *testing.T) {
	cfg := DefaultConfig()
	pts := testdata.TPoseLandmarks()
	pose := solveSpine(cfg, pts)

	if pose.HipsPosition == nil {
		t.Fatal("expected hips world position")
	}

	want := landmark.Midpoint(pts[landmark.LeftHip], pts[landmark.RightHip])
	if pose.HipsPosition.X != want.X || pose.HipsPosition.Y != want.Y {
		t.Errorf("hips position = %+v, want %+v", pose.HipsPosition, want)
	}
}

func TestSolveHead_YawFollowsNose(t *testing.T) {
	cfg := DefaultConfig()
	pts := testdata.TPoseLandmarks()

	// Turn the head: nose moves toward the subject's left.
	pts[landmark.Nose].X = 0.06

	neck, head := solveHead(cfg, pts)

	if neck.Y == 0 || head.Y == 0 {
		t.Fatal("expected non-zero yaw for turned head")
	}

	// 60/40 neck/head split.
	total := neck.Y + head.Y
	if math.Abs(neck.Y/total-cfg.NeckSplit) > 1e-9 {
		t.Errorf("neck share = %f, want %f", neck.Y/total, cfg.NeckSplit)
	}
}

func TestSolveHead_RollDisabledByDefault(t *testing.T) {
	cfg := DefaultConfig()
	pts := testdata.TPoseLandmarks()

	// Tilt the ear line hard.
	pts[landmark.LeftEar].Y -= 0.05
	pts[landmark.RightEar].Y += 0.05

	neck, head := solveHead(cfg, pts)
	if neck.Z != 0 || head.Z != 0 {
		t.Errorf("roll = %f/%f, want 0 while disabled", neck.Z, head.Z)
	}

	cfg.EnableHeadRoll = true
	neck, head = solveHead(cfg, pts)
	if neck.Z == 0 && head.Z == 0 {
		t.Error("expected non-zero roll once enabled")
	}
}

func TestTorsoTwist_SquareTorsoIsZero(t *testing.T) {
	if tw := torsoTwist(testdata.TPoseLandmarks()); math.Abs(tw) > 1e-9 {
		t.Errorf("torso twist = %f, want 0 for square torso", tw)
	}
}

func TestTorsoTwist_RotatedShoulders(t *testing.T) {
	pts := testdata.TPoseLandmarks()

	// Rotate the shoulder line: left shoulder toward the camera, right
	// shoulder away.
	pts[landmark.LeftShoulder].Z = 0.1
	pts[landmark.RightShoulder].Z = -0.1

	tw := torsoTwist(pts)
	if tw == 0 {
		t.Fatal("expected non-zero twist for rotated shoulders")
	}
	if tw <= -math.Pi || tw > math.Pi {
		t.Errorf("twist %f outside (-pi, pi]", tw)
	}
}

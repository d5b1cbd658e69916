package solver

import (
	"math"
	"testing"

	"github.com/ayusman/kathak/internal/landmark"
	"github.com/ayusman/kathak/testdata"
)

func TestDepthSynthesizer_ShortArrayUnchanged(t *testing.T) {
	d := NewDepthSynthesizer(DefaultConfig())
	in := []landmark.Point{{X: 1, Z: 9}}
	out := d.Synthesize(in)
	if len(out) != 1 || out[0].Z != 9 {
		t.Errorf("short array should be returned as-is, got %+v", out)
	}
}

func TestDepthSynthesizer_ZeroesDetectorDepth(t *testing.T) {
	d := NewDepthSynthesizer(DefaultConfig())
	pts := testdata.TPoseLandmarks()
	// Whatever depth guess the detector shipped is discarded.
	pts[landmark.Nose].Z = 0.7

	out := d.Synthesize(pts)
	if out[landmark.Nose].Z != 0 {
		t.Errorf("nose Z = %f, want 0", out[landmark.Nose].Z)
	}
}

func TestDepthSynthesizer_ExtendedArmStaysInPlane(t *testing.T) {
	d := NewDepthSynthesizer(DefaultConfig())
	out := d.Synthesize(testdata.TPoseLandmarks())

	for _, i := range []int{landmark.LeftElbow, landmark.LeftWrist, landmark.RightElbow, landmark.RightWrist} {
		if out[i].Z != 0 {
			t.Errorf("landmark %d Z = %f, want 0 for a fully extended arm", i, out[i].Z)
		}
	}
}

func TestDepthSynthesizer_ForeshortenedArmComesForward(t *testing.T) {
	cfg := DefaultConfig()
	d := NewDepthSynthesizer(cfg)

	// Right arm reaching straight at the camera: elbow and wrist project
	// onto the shoulder.
	pts := testdata.TPoseLandmarks()
	pts[landmark.RightElbow] = pts[landmark.RightShoulder]
	pts[landmark.RightWrist] = pts[landmark.RightShoulder]

	out := d.Synthesize(pts)

	scale := 0.4
	wantElbow := cfg.DepthUpperArmRatio * scale
	if math.Abs(out[landmark.RightElbow].Z-wantElbow) > 1e-9 {
		t.Errorf("elbow Z = %f, want %f", out[landmark.RightElbow].Z, wantElbow)
	}

	wantWrist := wantElbow + cfg.DepthForearmRatio*scale
	if math.Abs(out[landmark.RightWrist].Z-wantWrist) > 1e-9 {
		t.Errorf("wrist Z = %f, want %f", out[landmark.RightWrist].Z, wantWrist)
	}
}

func TestDepthSynthesizer_RaisedElbowHalvesDepth(t *testing.T) {
	cfg := DefaultConfig()
	d := NewDepthSynthesizer(cfg)

	// Elbow above the shoulder at the same image position: the arm is
	// treated as going overhead, not forward.
	pts := testdata.TPoseLandmarks()
	pts[landmark.RightElbow] = landmark.Point{X: -0.2, Y: -0.5, Visibility: 1}
	pts[landmark.RightWrist] = pts[landmark.RightElbow]

	out := d.Synthesize(pts)

	projected := 0.2 // shoulder at Y -0.3, elbow at -0.5
	expected := cfg.DepthUpperArmRatio * 0.4
	want := 0.5 * math.Sqrt(expected*expected-projected*projected)
	if math.Abs(out[landmark.RightElbow].Z-want) > 1e-9 {
		t.Errorf("raised elbow Z = %f, want halved %f", out[landmark.RightElbow].Z, want)
	}
}

func TestDepthSynthesizer_SmoothsAcrossFrames(t *testing.T) {
	d := NewDepthSynthesizer(DefaultConfig())

	reach := testdata.TPoseLandmarks()
	reach[landmark.RightElbow] = reach[landmark.RightShoulder]
	reach[landmark.RightWrist] = reach[landmark.RightShoulder]

	first := d.Synthesize(reach)
	// Back to the extended pose: the filter keeps part of the reach depth
	// for a frame instead of snapping to zero.
	second := d.Synthesize(testdata.TPoseLandmarks())

	if second[landmark.RightElbow].Z <= 0 {
		t.Error("elbow depth should decay gradually, not snap to zero")
	}
	if second[landmark.RightElbow].Z >= first[landmark.RightElbow].Z {
		t.Error("elbow depth should decrease toward the new pose")
	}
}

func TestDepthSynthesizer_DegenerateScale(t *testing.T) {
	d := NewDepthSynthesizer(DefaultConfig())

	pts := testdata.TPoseLandmarks()
	pts[landmark.LeftShoulder] = pts[landmark.RightShoulder]

	out := d.Synthesize(pts)
	for i := range out {
		if out[i].Z != 0 {
			t.Fatalf("landmark %d Z = %f, want all-zero depth for collapsed shoulders", i, out[i].Z)
		}
	}
}

func TestDepthSynthesizer_Reset(t *testing.T) {
	d := NewDepthSynthesizer(DefaultConfig())

	reach := testdata.TPoseLandmarks()
	reach[landmark.RightElbow] = reach[landmark.RightShoulder]
	reach[landmark.RightWrist] = reach[landmark.RightShoulder]
	d.Synthesize(reach)

	d.Reset()

	out := d.Synthesize(testdata.TPoseLandmarks())
	if out[landmark.RightElbow].Z != 0 {
		t.Errorf("post-reset extended arm Z = %f, want 0", out[landmark.RightElbow].Z)
	}
}

// Package analysis computes quality statistics over recorded capture
// sessions: per-bone rotation ranges, frame-to-frame jitter before and after
// smoothing, and timing regularity. It reads frames back from the store, so
// a take can be inspected long after it was captured.
package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/kathak/internal/rig"
	"github.com/ayusman/kathak/internal/store"
)

// Axis labels rotation components in reports.
const (
	AxisX = "x"
	AxisY = "y"
	AxisZ = "z"
)

// Findings thresholds.
const (
	// jitterThreshold is the mean frame-to-frame rotation delta, in radians,
	// above which a smoothed bone axis is flagged as noisy.
	jitterThreshold = 0.05
	// dropoutFactor flags a frame interval as a dropout when it exceeds the
	// median interval by this factor.
	dropoutFactor = 2.5
)

// frameOutput mirrors the recorder's output column.
type frameOutput struct {
	Raw      *rig.Pose `json:"raw"`
	Smoothed *rig.Pose `json:"smoothed"`
}

// axisSeries holds one rotation component of one bone over a whole session.
type axisSeries struct {
	raw      []float64
	smoothed []float64
}

// SessionData is a session's frames decoded into per-bone time series.
type SessionData struct {
	Session *store.Session
	Times   []int64 // frame timestamps in milliseconds

	// bone -> axis -> series; only bones that appeared in at least one
	// frame are present.
	series map[rig.Bone]map[string]*axisSeries
}

// BoneStats summarizes one rotation axis of one bone.
type BoneStats struct {
	Bone   rig.Bone `json:"bone"`
	Axis   string   `json:"axis"`
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
	Mean   float64  `json:"mean"`
	StdDev float64  `json:"stdDev"`

	// RawJitter and SmoothedJitter are the mean absolute frame-to-frame
	// delta before and after temporal smoothing, in radians.
	RawJitter      float64 `json:"rawJitter"`
	SmoothedJitter float64 `json:"smoothedJitter"`

	// TrackingError is the root-mean-square difference between the raw and
	// smoothed series: how far smoothing lags behind the detector.
	TrackingError float64 `json:"trackingError"`
}

// Report is the full quality summary of one session.
type Report struct {
	SessionID  string `json:"sessionId"`
	Name       string `json:"name"`
	RigVersion string `json:"rigVersion"`
	Frames     int    `json:"frames"`

	DurationMs   int64   `json:"durationMs"`
	EffectiveFPS float64 `json:"effectiveFps"`
	Dropouts     int     `json:"dropouts"`

	Bones    []BoneStats `json:"bones"`
	Findings []string    `json:"findings"`
}

// Load reads a session and its frames from the store and decodes them into
// time series ready for analysis.
func Load(st *store.Store, sessionID string) (*SessionData, error) {
	session, err := st.Sessions().GetByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	frames, err := st.Frames().ListBySession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load frames: %w", err)
	}

	data := &SessionData{
		Session: session,
		series:  make(map[rig.Bone]map[string]*axisSeries),
	}

	for _, f := range frames {
		var out frameOutput
		if err := json.Unmarshal(f.Output, &out); err != nil {
			return nil, fmt.Errorf("decode frame %d: %w", f.Sequence, err)
		}
		if out.Raw == nil || out.Smoothed == nil {
			continue
		}
		data.appendFrame(f.TimestampMs, out.Raw, out.Smoothed)
	}

	return data, nil
}

// appendFrame adds one frame's bone rotations to the series. A bone absent
// from a frame contributes its rest rotation, so every series stays aligned
// with Times.
func (d *SessionData) appendFrame(ts int64, raw, smoothed *rig.Pose) {
	d.Times = append(d.Times, ts)
	n := len(d.Times)

	for bone := range raw.Bones {
		d.boneSeries(bone, n)
	}
	for bone := range smoothed.Bones {
		d.boneSeries(bone, n)
	}

	for bone, axes := range d.series {
		rawRot := raw.Bones[bone]
		smoothRot := smoothed.Bones[bone]
		for axis, s := range axes {
			s.raw = append(s.raw, component(rawRot, axis))
			s.smoothed = append(s.smoothed, component(smoothRot, axis))
		}
	}
}

// boneSeries returns the axis map for a bone, creating and backfilling it
// with zeros when the bone first appears mid-session.
func (d *SessionData) boneSeries(bone rig.Bone, frames int) map[string]*axisSeries {
	axes, ok := d.series[bone]
	if ok {
		return axes
	}
	axes = make(map[string]*axisSeries, 3)
	for _, axis := range []string{AxisX, AxisY, AxisZ} {
		s := &axisSeries{
			raw:      make([]float64, frames-1),
			smoothed: make([]float64, frames-1),
		}
		axes[axis] = s
	}
	d.series[bone] = axes
	return axes
}

func component(r rig.Rotation, axis string) float64 {
	switch axis {
	case AxisX:
		return r.X
	case AxisY:
		return r.Y
	default:
		return r.Z
	}
}

// Frames returns how many frames the session data holds.
func (d *SessionData) Frames() int {
	return len(d.Times)
}

// Bones returns the bones present in the session, sorted by name.
func (d *SessionData) Bones() []rig.Bone {
	bones := make([]rig.Bone, 0, len(d.series))
	for b := range d.series {
		bones = append(bones, b)
	}
	sort.Slice(bones, func(i, j int) bool { return bones[i] < bones[j] })
	return bones
}

// Analyze computes the quality report for the loaded session.
func (d *SessionData) Analyze() *Report {
	report := &Report{
		SessionID:  d.Session.ID,
		Name:       d.Session.Name,
		RigVersion: d.Session.RigVersion,
		Frames:     len(d.Times),
	}

	if len(d.Times) > 1 {
		report.DurationMs = d.Times[len(d.Times)-1] - d.Times[0]
		if report.DurationMs > 0 {
			report.EffectiveFPS = float64(len(d.Times)-1) / (float64(report.DurationMs) / 1000)
		}
		report.Dropouts = countDropouts(d.Times)
	}

	for _, bone := range d.Bones() {
		for _, axis := range []string{AxisX, AxisY, AxisZ} {
			s := d.series[bone][axis]
			if len(s.raw) == 0 {
				continue
			}
			bs := BoneStats{
				Bone:           bone,
				Axis:           axis,
				Min:            floats.Min(s.raw),
				Max:            floats.Max(s.raw),
				Mean:           stat.Mean(s.raw, nil),
				RawJitter:      meanAbsDelta(s.raw),
				SmoothedJitter: meanAbsDelta(s.smoothed),
				TrackingError:  rmsError(s.raw, s.smoothed),
			}
			if len(s.raw) > 1 {
				bs.StdDev = stat.StdDev(s.raw, nil)
			}
			report.Bones = append(report.Bones, bs)
		}
	}

	report.Findings = findings(report)
	return report
}

// meanAbsDelta is the mean absolute frame-to-frame change of a series.
func meanAbsDelta(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for i := 1; i < len(values); i++ {
		sum += math.Abs(values[i] - values[i-1])
	}
	return sum / float64(len(values)-1)
}

// rmsError is the root-mean-square difference between two aligned series.
func rmsError(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(a)))
}

// countDropouts counts frame intervals much longer than the median interval.
func countDropouts(times []int64) int {
	if len(times) < 3 {
		return 0
	}
	intervals := make([]float64, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		intervals = append(intervals, float64(times[i]-times[i-1]))
	}
	sorted := append([]float64(nil), intervals...)
	sort.Float64s(sorted)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if median <= 0 {
		return 0
	}

	dropouts := 0
	for _, iv := range intervals {
		if iv > median*dropoutFactor {
			dropouts++
		}
	}
	return dropouts
}

// findings turns raw statistics into human-readable warnings.
func findings(r *Report) []string {
	var out []string

	for _, bs := range r.Bones {
		if bs.SmoothedJitter > jitterThreshold {
			out = append(out, fmt.Sprintf(
				"%s.%s jitters %.3f rad/frame after smoothing (threshold %.3f)",
				bs.Bone, bs.Axis, bs.SmoothedJitter, jitterThreshold))
		}
	}

	if r.Dropouts > 0 {
		out = append(out, fmt.Sprintf("%d frame dropouts detected", r.Dropouts))
	}

	if r.Frames > 1 && r.EffectiveFPS > 0 && r.EffectiveFPS < 15 {
		out = append(out, fmt.Sprintf("effective frame rate %.1f FPS is below 15", r.EffectiveFPS))
	}

	return out
}

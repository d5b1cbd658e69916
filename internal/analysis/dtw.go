package analysis

import (
	"math"
	"sort"

	"github.com/ayusman/kathak/internal/rig"
)

// BoneComparison is the alignment distance of one bone axis between two
// takes.
type BoneComparison struct {
	Bone     rig.Bone `json:"bone"`
	Axis     string   `json:"axis"`
	Distance float64  `json:"distance"`
}

// Comparison summarizes how closely two takes repeat the same motion.
type Comparison struct {
	SessionA string `json:"sessionA"`
	SessionB string `json:"sessionB"`

	Bones []BoneComparison `json:"bones"`

	// MeanDistance averages the per-axis alignment distances, in radians.
	MeanDistance float64 `json:"meanDistance"`
	// Similarity maps MeanDistance into (0,1]: 1 for identical takes.
	Similarity float64 `json:"similarity"`
}

// Compare measures how similar two takes are using dynamic time warping on
// the smoothed rotation series, so takes performed at different speeds still
// align. Only bones present in both sessions are compared; distances are
// sorted worst first.
func Compare(a, b *SessionData) *Comparison {
	cmp := &Comparison{
		SessionA: a.Session.ID,
		SessionB: b.Session.ID,
	}

	sum := 0.0
	for _, bone := range a.Bones() {
		other, ok := b.series[bone]
		if !ok {
			continue
		}
		for _, axis := range []string{AxisX, AxisY, AxisZ} {
			d := dtwDistance(a.series[bone][axis].smoothed, other[axis].smoothed)
			if math.IsInf(d, 1) {
				continue
			}
			cmp.Bones = append(cmp.Bones, BoneComparison{Bone: bone, Axis: axis, Distance: d})
			sum += d
		}
	}

	sort.Slice(cmp.Bones, func(i, j int) bool {
		return cmp.Bones[i].Distance > cmp.Bones[j].Distance
	})

	if len(cmp.Bones) > 0 {
		cmp.MeanDistance = sum / float64(len(cmp.Bones))
	}
	cmp.Similarity = 1.0 / (1.0 + cmp.MeanDistance)
	return cmp
}

// dtwDistance is the dynamic time warping distance between two scalar
// series, normalized by the longer length. Returns infinity if either series
// is empty.
func dtwDistance(a, b []float64) float64 {
	n := len(a)
	m := len(b)
	if n == 0 || m == 0 {
		return math.Inf(1)
	}

	// (n+1) x (m+1) cost matrix initialized to infinity
	dtw := make([][]float64, n+1)
	for i := range dtw {
		dtw[i] = make([]float64, m+1)
		for j := range dtw[i] {
			dtw[i][j] = math.Inf(1)
		}
	}
	dtw[0][0] = 0

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cost := math.Abs(a[i-1] - b[j-1])
			dtw[i][j] = cost + min3(dtw[i-1][j], dtw[i][j-1], dtw[i-1][j-1])
		}
	}

	longer := n
	if m > longer {
		longer = m
	}
	return dtw[n][m] / float64(longer)
}

func min3(a, b, c float64) float64 {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}

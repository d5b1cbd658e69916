package solver

import "github.com/ayusman/kathak/internal/landmark"

// LowPass is an exponential smoother over a landmark point. A factor of 0
// passes values through untouched; a factor approaching 1 freezes the value.
type LowPass struct {
	factor float64
	prev   landmark.Point
	primed bool
}

// NewLowPass creates a low-pass filter with the given smoothing factor.
func NewLowPass(factor float64) *LowPass {
	return &LowPass{factor: factor}
}

// Apply blends the new point against the previous smoothed one and returns
// the result. The first point passes through unsmoothed.
func (f *LowPass) Apply(p landmark.Point) landmark.Point {
	if !f.primed {
		f.prev = p
		f.primed = true
		return p
	}
	out := landmark.Point{
		X:          smoothValue(f.prev.X, p.X, f.factor),
		Y:          smoothValue(f.prev.Y, p.Y, f.factor),
		Z:          smoothValue(f.prev.Z, p.Z, f.factor),
		Visibility: p.Visibility,
	}
	f.prev = out
	return out
}

// Reset discards the filter state.
func (f *LowPass) Reset() {
	f.primed = false
	f.prev = landmark.Point{}
}

// smoothValue is the single smoothing formula used everywhere:
// prev + (cur - prev) * (1 - factor). Smoothing compounds because prev is
// the previous smoothed value, not the previous raw one.
func smoothValue(prev, cur, factor float64) float64 {
	return prev + (cur-prev)*(1-factor)
}

// FilterBank holds one low-pass filter per landmark index.
type FilterBank struct {
	factor  float64
	filters map[int]*LowPass
}

// NewFilterBank creates a bank whose filters all share one factor.
func NewFilterBank(factor float64) *FilterBank {
	return &FilterBank{
		factor:  factor,
		filters: make(map[int]*LowPass),
	}
}

// Apply runs the point through the filter for the given landmark index,
// creating the filter on first use.
func (b *FilterBank) Apply(index int, p landmark.Point) landmark.Point {
	f, ok := b.filters[index]
	if !ok {
		f = NewLowPass(b.factor)
		b.filters[index] = f
	}
	return f.Apply(p)
}

// Reset discards all filter state. Stale state bleeding into a new capture
// session is a correctness bug, so the session driver calls this on
// teardown.
func (b *FilterBank) Reset() {
	b.filters = make(map[int]*LowPass)
}

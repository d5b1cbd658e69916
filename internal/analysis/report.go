package analysis

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// maxChartedBones caps how many bone line charts a report page carries.
const maxChartedBones = 8

// RenderHTML writes an HTML page of charts for the session: rotation curves
// for the most active bones (raw against smoothed) and a jitter bar chart
// across all bone axes.
func (d *SessionData) RenderHTML(w io.Writer, report *Report) error {
	page := components.NewPage()
	page.PageTitle = pageTitle(report)

	for _, bs := range topBonesByRange(report, maxChartedBones) {
		page.AddCharts(d.boneChart(bs))
	}
	page.AddCharts(jitterChart(report))

	return page.Render(w)
}

func pageTitle(report *Report) string {
	if report.Name != "" {
		return "Kathak session: " + report.Name
	}
	return "Kathak session: " + report.SessionID
}

// topBonesByRange picks the bone axes with the widest motion range, one
// entry per bone (its dominant axis).
func topBonesByRange(report *Report, limit int) []BoneStats {
	best := make(map[string]BoneStats)
	for _, bs := range report.Bones {
		key := string(bs.Bone)
		if cur, ok := best[key]; !ok || bs.Max-bs.Min > cur.Max-cur.Min {
			best[key] = bs
		}
	}

	picked := make([]BoneStats, 0, len(best))
	for _, bs := range best {
		picked = append(picked, bs)
	}
	sort.Slice(picked, func(i, j int) bool {
		return picked[i].Max-picked[i].Min > picked[j].Max-picked[j].Min
	})

	if len(picked) > limit {
		picked = picked[:limit]
	}
	return picked
}

// boneChart plots the raw and smoothed series of one bone axis over time.
func (d *SessionData) boneChart(bs BoneStats) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s.%s", bs.Bone, bs.Axis),
			Subtitle: fmt.Sprintf("range %.3f rad, jitter %.4f -> %.4f", bs.Max-bs.Min, bs.RawJitter, bs.SmoothedJitter),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "ms"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "rad"}),
	)

	xs := make([]string, len(d.Times))
	base := int64(0)
	if len(d.Times) > 0 {
		base = d.Times[0]
	}
	for i, t := range d.Times {
		xs[i] = fmt.Sprintf("%d", t-base)
	}

	s := d.series[bs.Bone][bs.Axis]
	line.SetXAxis(xs).
		AddSeries("raw", lineData(s.raw)).
		AddSeries("smoothed", lineData(s.smoothed)).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))
	return line
}

// jitterChart compares raw and smoothed jitter across every bone axis.
func jitterChart(report *Report) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Jitter by bone axis",
			Subtitle: "mean abs frame-to-frame delta (rad)",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := make([]string, 0, len(report.Bones))
	raw := make([]opts.BarData, 0, len(report.Bones))
	smoothed := make([]opts.BarData, 0, len(report.Bones))
	for _, bs := range report.Bones {
		labels = append(labels, fmt.Sprintf("%s.%s", bs.Bone, bs.Axis))
		raw = append(raw, opts.BarData{Value: bs.RawJitter})
		smoothed = append(smoothed, opts.BarData{Value: bs.SmoothedJitter})
	}

	bar.SetXAxis(labels).
		AddSeries("raw", raw).
		AddSeries("smoothed", smoothed)
	return bar
}

func lineData(values []float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		out[i] = opts.LineData{Value: v}
	}
	return out
}

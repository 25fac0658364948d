// Package report renders classification summaries as HTML charts.
package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kozaktomas/pose-detector/internal/pose"
)

// Counts tallies labels over a batch of frames.
type Counts struct {
	labels  map[pose.Label]int
	Skipped int
}

// NewCounts creates an empty tally.
func NewCounts() *Counts {
	return &Counts{labels: make(map[pose.Label]int)}
}

// Add counts one classified frame.
func (c *Counts) Add(l pose.Label) {
	c.labels[l]++
}

// Get returns the number of frames classified as l.
func (c *Counts) Get(l pose.Label) int {
	return c.labels[l]
}

// Classified returns the number of frames that received a label.
func (c *Counts) Classified() int {
	n := 0
	for _, v := range c.labels {
		n += v
	}
	return n
}

// LabelHistogram writes an HTML page with a bar chart of the label counts in
// cascade order. Skipped frames get their own bar when there are any.
func LabelHistogram(w io.Writer, title string, counts *Counts) error {
	var (
		x []string
		y []opts.BarData
	)
	for _, l := range pose.Labels() {
		x = append(x, l.String())
		y = append(y, opts.BarData{Value: counts.Get(l)})
	}
	if counts.Skipped > 0 {
		x = append(x, "Skipped")
		y = append(y, opts.BarData{Value: counts.Skipped})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("classified=%d skipped=%d", counts.Classified(), counts.Skipped),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Pose", AxisLabel: &opts.AxisLabel{Rotate: 30}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Frames"}),
	)
	bar.SetXAxis(x).
		AddSeries("frames", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(bar)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	return nil
}

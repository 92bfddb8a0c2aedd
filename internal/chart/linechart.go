package chart

import (
	"math"
	"time"

	"revcam-dashboard/internal/opt"
)

const (
	DefaultMargin = 30
	DefaultWindow = 4 * time.Hour

	LineColor  = "#5b8cff"
	LabelColor = "#98a2b3"
)

// Label position, fixed regardless of surface size.
const (
	labelX = 8
	labelY = 12
)

// LineChart holds the layout parameters of a single-polyline chart. The zero
// value is not usable; start from NewLineChart.
type LineChart struct {
	Margin float64
	// Window is the trailing x-domain used when there are no points.
	Window time.Duration
	Now    func() time.Time
}

func NewLineChart() LineChart {
	return LineChart{
		Margin: DefaultMargin,
		Window: DefaultWindow,
		Now:    time.Now,
	}
}

// Render clears s and draws pts as one polyline scaled into s minus the
// margin, with label in the top-left corner. yMin and yMax pin the y-domain
// when present. Rendering the same input twice leaves s in the same state.
func (c LineChart) Render(s Surface, pts []Point, yMin, yMax opt.Value[float64], label string) {
	s.Clear()

	w, h := s.Size()
	d := c.domain(pts, yMin, yMax)

	plotW := float64(w) - 2*c.Margin
	plotH := float64(h) - 2*c.Margin
	x := func(v float64) float64 {
		return c.Margin + (v-d.xStart)/nonZero(d.xEnd-d.xStart)*plotW
	}
	y := func(v float64) float64 {
		return float64(h) - c.Margin - (v-d.yStart)/nonZero(d.yEnd-d.yStart)*plotH
	}

	for i, p := range pts {
		if i == 0 {
			s.MoveTo(x(p.X), y(p.Y))
			continue
		}
		s.LineTo(x(p.X), y(p.Y))
	}
	s.Stroke(LineColor)
	s.FillText(label, labelX, labelY, LabelColor)
}

// Render draws with the default layout.
func Render(s Surface, pts []Point, yMin, yMax opt.Value[float64], label string) {
	NewLineChart().Render(s, pts, yMin, yMax, label)
}

type domain struct {
	xStart, xEnd float64
	yStart, yEnd float64
}

func (c LineChart) domain(pts []Point, yMin, yMax opt.Value[float64]) domain {
	var d domain
	if len(pts) == 0 {
		now := c.now()
		d.xStart = float64(now.Add(-c.Window).UnixMilli()) / 1000
		d.xEnd = float64(now.UnixMilli()) / 1000
	} else {
		d.xStart = pts[0].X
		d.xEnd = pts[len(pts)-1].X
	}

	lo, hi := 0.0, 1.0
	for _, p := range pts {
		lo = math.Min(lo, p.Y)
		hi = math.Max(hi, p.Y)
	}
	d.yStart = yMin.Or(lo)
	d.yEnd = yMax.Or(hi)
	return d
}

func (c LineChart) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func nonZero(span float64) float64 {
	if span == 0 {
		return 1
	}
	return span
}

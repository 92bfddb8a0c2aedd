package chart

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"revcam-dashboard/internal/opt"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testChart() LineChart {
	c := NewLineChart()
	c.Now = func() time.Time { return fixedNow }
	return c
}

func drawn(ops []Op) []Op {
	var out []Op
	for _, op := range ops {
		if op.Kind == OpMoveTo || op.Kind == OpLineTo {
			out = append(out, op)
		}
	}
	return out
}

func TestLineChart_Render_batteryScenario(t *testing.T) {
	cv := NewCanvas(400, 200)
	pts := []Point{{X: 0, Y: 50}, {X: 3600, Y: 40}}

	testChart().Render(cv, pts, opt.Some(0.0), opt.Some(100.0), "Battery %")

	path := drawn(cv.Ops())
	require.Len(t, path, 2)
	require.Equal(t, OpMoveTo, path[0].Kind)
	require.Equal(t, OpLineTo, path[1].Kind)

	require.InDelta(t, 30, path[0].X, 1e-9)
	require.InDelta(t, 400-30, path[1].X, 1e-9)

	// y = h - m - (v - 0) / 100 * (h - 2m)
	require.InDelta(t, 200-30-0.5*140, path[0].Y, 1e-9)
	require.InDelta(t, 200-30-0.4*140, path[1].Y, 1e-9)
	for _, p := range path {
		require.GreaterOrEqual(t, p.Y, 30.0)
		require.LessOrEqual(t, p.Y, 200-30.0)
	}
}

func TestLineChart_Render_emptySeries(t *testing.T) {
	cv := NewCanvas(300, 150)
	c := testChart()

	require.NotPanics(t, func() {
		c.Render(cv, nil, opt.Some(0.0), opt.None[float64](), "Motion")
	})

	ops := cv.Ops()
	require.Empty(t, drawn(ops))
	require.Equal(t, Op{Kind: OpText, X: 8, Y: 12, Text: "Motion", Color: LabelColor}, ops[len(ops)-1])

	d := c.domain(nil, opt.None[float64](), opt.None[float64]())
	require.InDelta(t, float64(fixedNow.Unix()), d.xEnd, 1e-9)
	require.InDelta(t, (4 * time.Hour).Seconds(), d.xEnd-d.xStart, 1e-9)
	require.Equal(t, 0.0, d.yStart)
	require.Equal(t, 1.0, d.yEnd)
}

func TestLineChart_Render_singlePoint(t *testing.T) {
	cv := NewCanvas(100, 100)

	testChart().Render(cv, []Point{{X: 1700000000, Y: 5}}, opt.Some(5.0), opt.Some(5.0), "one")

	path := drawn(cv.Ops())
	require.Len(t, path, 1)
	p := path[0]
	require.False(t, math.IsNaN(p.X) || math.IsInf(p.X, 0), "x = %v", p.X)
	require.False(t, math.IsNaN(p.Y) || math.IsInf(p.Y, 0), "y = %v", p.Y)
	require.InDelta(t, 30, p.X, 1e-9)
	require.InDelta(t, 100-30, p.Y, 1e-9)
}

func TestLineChart_Render_autoRange(t *testing.T) {
	tests := []struct {
		name      string
		pts       []Point
		yMin      opt.Value[float64]
		wantStart float64
		wantEnd   float64
	}{
		{name: "values below one keep ceiling", pts: []Point{{0, 0.2}, {1, 0.4}}, yMin: opt.Some(0.0), wantStart: 0, wantEnd: 1},
		{name: "large values raise ceiling", pts: []Point{{0, 3}, {1, 12}}, yMin: opt.Some(0.0), wantStart: 0, wantEnd: 12},
		{name: "negative values lower floor", pts: []Point{{0, -4}, {1, 2}}, yMin: opt.None[float64](), wantStart: -4, wantEnd: 2},
		{name: "explicit zero floor wins", pts: []Point{{0, -4}, {1, 2}}, yMin: opt.Some(0.0), wantStart: 0, wantEnd: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testChart().domain(tt.pts, tt.yMin, opt.None[float64]())
			require.Equal(t, tt.wantStart, d.yStart)
			require.Equal(t, tt.wantEnd, d.yEnd)
		})
	}
}

func TestLineChart_Render_idempotent(t *testing.T) {
	cv := NewCanvas(320, 180)
	pts := []Point{{X: 10, Y: 1}, {X: 20, Y: 3}, {X: 30, Y: 2}}
	c := testChart()

	c.Render(cv, pts, opt.Some(0.0), opt.None[float64](), "Motion")
	first := cv.Ops()
	c.Render(cv, pts, opt.Some(0.0), opt.None[float64](), "Motion")

	require.Equal(t, first, cv.Ops())
}

func TestLineChart_Render_replacesPriorDrawing(t *testing.T) {
	cv := NewCanvas(320, 180)
	c := testChart()

	c.Render(cv, []Point{{0, 1}, {1, 2}, {2, 3}}, opt.None[float64](), opt.None[float64](), "a")
	c.Render(cv, []Point{{0, 1}}, opt.None[float64](), opt.None[float64](), "b")

	ops := cv.Ops()
	require.Len(t, drawn(ops), 1)
	require.Equal(t, "b", ops[len(ops)-1].Text)
}

func TestLineChart_Render_strokeColor(t *testing.T) {
	cv := NewCanvas(100, 100)
	Render(cv, []Point{{0, 0}, {1, 1}}, opt.None[float64](), opt.None[float64](), "x")

	var strokes []Op
	for _, op := range cv.Ops() {
		if op.Kind == OpStroke {
			strokes = append(strokes, op)
		}
	}
	require.Len(t, strokes, 1)
	require.Equal(t, LineColor, strokes[0].Color)
}

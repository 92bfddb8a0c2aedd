package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"revcam-dashboard/internal/chart"
	"revcam-dashboard/internal/device"
	"revcam-dashboard/internal/opt"
)

const (
	ChartBattery = "battery"
	ChartMotion  = "motion"
)

type SeriesSource interface {
	GetSeries(ctx context.Context) (device.Series, error)
}

// ChartPanel owns one chart surface and the outcome of its last load.
type ChartPanel struct {
	name   string
	label  string
	yMin   opt.Value[float64]
	yMax   opt.Value[float64]
	width  int
	height int

	mu       sync.RWMutex
	canvas   *chart.Canvas
	err      error
	loadedAt time.Time
}

func NewChartPanel(name, label string, yMin, yMax opt.Value[float64], width, height int) *ChartPanel {
	return &ChartPanel{
		name:   name,
		label:  label,
		yMin:   yMin,
		yMax:   yMax,
		width:  width,
		height: height,
		canvas: chart.NewCanvas(width, height),
	}
}

func (p *ChartPanel) Name() string  { return p.name }
func (p *ChartPanel) Label() string { return p.label }

func (p *ChartPanel) Size() (int, int) { return p.width, p.height }

// Canvas returns the last completed drawing.
func (p *ChartPanel) Canvas() *chart.Canvas {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.canvas
}

// Err is the error of the last load, nil after a successful one.
func (p *ChartPanel) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

func (p *ChartPanel) LoadedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loadedAt
}

// draw renders pts on a fresh canvas and swaps it in, so readers never see
// a half-drawn chart.
func (p *ChartPanel) draw(lc chart.LineChart, series []device.SeriesPoint, at time.Time) {
	pts := make([]chart.Point, 0, len(series))
	for _, sp := range series {
		pts = append(pts, chart.Point{X: sp.T, Y: sp.Value})
	}
	cv := chart.NewCanvas(p.width, p.height)
	lc.Render(cv, pts, p.yMin, p.yMax, p.label)

	p.mu.Lock()
	p.canvas = cv
	p.err = nil
	p.loadedAt = at
	p.mu.Unlock()
}

func (p *ChartPanel) fail(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// Charts is the fixed pair of history charts.
type Charts struct {
	Battery *ChartPanel
	Motion  *ChartPanel
}

func NewCharts(width, height int) *Charts {
	return &Charts{
		Battery: NewChartPanel(ChartBattery, "Battery %", opt.Some(0.0), opt.Some(100.0), width, height),
		Motion:  NewChartPanel(ChartMotion, "Motion", opt.Some(0.0), opt.None[float64](), width, height),
	}
}

func (c *Charts) Get(name string) (*ChartPanel, bool) {
	switch name {
	case ChartBattery:
		return c.Battery, true
	case ChartMotion:
		return c.Motion, true
	default:
		return nil, false
	}
}

func (c *Charts) All() []*ChartPanel {
	return []*ChartPanel{c.Battery, c.Motion}
}

// SeriesLoader fetches the history once and draws both charts.
type SeriesLoader struct {
	source SeriesSource
	chart  chart.LineChart
	charts *Charts
	now    func() time.Time
}

func NewSeriesLoader(source SeriesSource, lc chart.LineChart, charts *Charts) *SeriesLoader {
	return &SeriesLoader{source: source, chart: lc, charts: charts, now: time.Now}
}

// Load draws battery and motion from one fetch. On failure both panels keep
// their previous drawing and report the error.
func (l *SeriesLoader) Load(ctx context.Context) error {
	s, err := l.source.GetSeries(ctx)
	if err != nil {
		err = fmt.Errorf("load series: %w", err)
		for _, p := range l.charts.All() {
			p.fail(err)
		}
		return err
	}

	at := l.now()
	l.charts.Battery.draw(l.chart, s.Battery, at)
	l.charts.Motion.draw(l.chart, s.Motion, at)
	return nil
}

package chart

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("invalid chart format %q (allowed: png, svg)", s)
	}
}

func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

type OpKind int

const (
	OpMoveTo OpKind = iota
	OpLineTo
	OpStroke
	OpText
)

// Op is one recorded drawing call.
type Op struct {
	Kind  OpKind
	X, Y  float64
	Text  string
	Color string
}

// textSize matches the browser canvas default font of 10px.
const textSize = 10

// Canvas is a Surface that records drawing calls and replays them onto a
// go-chart renderer on Encode. Safe for concurrent use.
type Canvas struct {
	width, height int
	// Background is painted under the recorded ops when set (CSS hex).
	Background string

	mu  sync.RWMutex
	ops []Op
}

func NewCanvas(width, height int) *Canvas {
	return &Canvas{width: width, height: height}
}

func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

func (c *Canvas) Clear() {
	c.mu.Lock()
	c.ops = nil
	c.mu.Unlock()
}

func (c *Canvas) MoveTo(x, y float64) {
	c.record(Op{Kind: OpMoveTo, X: x, Y: y})
}

func (c *Canvas) LineTo(x, y float64) {
	c.record(Op{Kind: OpLineTo, X: x, Y: y})
}

func (c *Canvas) Stroke(color string) {
	c.record(Op{Kind: OpStroke, Color: color})
}

func (c *Canvas) FillText(text string, x, y float64, color string) {
	c.record(Op{Kind: OpText, X: x, Y: y, Text: text, Color: color})
}

// Ops returns a copy of the recorded drawing calls.
func (c *Canvas) Ops() []Op {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Op, len(c.ops))
	copy(out, c.ops)
	return out
}

func (c *Canvas) record(op Op) {
	c.mu.Lock()
	c.ops = append(c.ops, op)
	c.mu.Unlock()
}

// Encode rasterizes (png) or vectorizes (svg) the current drawing into w.
func (c *Canvas) Encode(w io.Writer, f Format) error {
	provider := gochart.PNG
	if f == FormatSVG {
		provider = gochart.SVG
	}
	r, err := provider(c.width, c.height)
	if err != nil {
		return fmt.Errorf("chart renderer: %w", err)
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("chart font: %w", err)
	}
	r.SetFont(font)

	if c.Background != "" {
		r.SetFillColor(parseColor(c.Background))
		r.MoveTo(0, 0)
		r.LineTo(c.width, 0)
		r.LineTo(c.width, c.height)
		r.LineTo(0, c.height)
		r.Close()
		r.Fill()
	}

	pathOpen := false
	for _, op := range c.Ops() {
		switch op.Kind {
		case OpMoveTo:
			r.MoveTo(px(op.X), px(op.Y))
			pathOpen = true
		case OpLineTo:
			r.LineTo(px(op.X), px(op.Y))
			pathOpen = true
		case OpStroke:
			if !pathOpen {
				continue
			}
			r.SetStrokeColor(parseColor(op.Color))
			r.SetStrokeWidth(1)
			r.Stroke()
			pathOpen = false
		case OpText:
			r.SetFontColor(parseColor(op.Color))
			r.SetFontSize(textSize)
			r.Text(op.Text, px(op.X), px(op.Y))
		}
	}

	if err := r.Save(w); err != nil {
		return fmt.Errorf("chart encode %s: %w", f, err)
	}
	return nil
}

func parseColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func px(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

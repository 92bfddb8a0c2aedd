// Package chart draws time-series line charts onto a bounded surface.
package chart

// Surface is a rectangular drawing area addressed in pixels, origin top-left.
type Surface interface {
	Size() (width, height int)
	Clear()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Stroke paints the current path with color (CSS hex) and starts a new one.
	Stroke(color string)
	// FillText draws text with its baseline at y.
	FillText(text string, x, y float64, color string)
}

// Point is one sample in data space: X is unix seconds, Y the value.
type Point struct {
	X float64
	Y float64
}

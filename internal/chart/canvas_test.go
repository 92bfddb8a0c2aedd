package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"revcam-dashboard/internal/opt"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "png", want: FormatPNG},
		{in: " SVG ", want: FormatSVG},
		{in: "gif", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_ContentType(t *testing.T) {
	require.Equal(t, "image/png", FormatPNG.ContentType())
	require.Equal(t, "image/svg+xml", FormatSVG.ContentType())
}

func TestCanvas_ClearResetsOps(t *testing.T) {
	cv := NewCanvas(10, 10)
	cv.MoveTo(1, 1)
	cv.LineTo(2, 2)
	cv.Stroke(LineColor)
	require.Len(t, cv.Ops(), 3)

	cv.Clear()
	require.Empty(t, cv.Ops())
}

func TestCanvas_OpsIsACopy(t *testing.T) {
	cv := NewCanvas(10, 10)
	cv.MoveTo(1, 1)

	ops := cv.Ops()
	ops[0].X = 99
	require.Equal(t, 1.0, cv.Ops()[0].X)
}

func TestCanvas_EncodePNG(t *testing.T) {
	cv := NewCanvas(200, 100)
	cv.Background = "#ffffff"
	Render(cv, []Point{{0, 50}, {3600, 40}}, opt.Some(0.0), opt.Some(100.0), "Battery %")

	var buf bytes.Buffer
	require.NoError(t, cv.Encode(&buf, FormatPNG))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")), "missing PNG signature")
}

func TestCanvas_EncodeSVG(t *testing.T) {
	cv := NewCanvas(200, 100)
	Render(cv, []Point{{0, 1}, {10, 2}}, opt.Some(0.0), opt.None[float64](), "Motion")

	var buf bytes.Buffer
	require.NoError(t, cv.Encode(&buf, FormatSVG))
	out := buf.String()
	require.Contains(t, out, "<svg")
	require.Contains(t, out, "Motion")
	require.Equal(t, 1, strings.Count(out, "</svg>"))
}

func TestCanvas_EncodeTwiceIsStable(t *testing.T) {
	cv := NewCanvas(120, 60)
	Render(cv, []Point{{0, 1}, {10, 2}}, opt.None[float64](), opt.None[float64](), "m")

	var a, b bytes.Buffer
	require.NoError(t, cv.Encode(&a, FormatSVG))
	require.NoError(t, cv.Encode(&b, FormatSVG))
	require.Equal(t, a.String(), b.String())
}

func TestCanvas_EncodeEmpty(t *testing.T) {
	cv := NewCanvas(50, 50)

	var buf bytes.Buffer
	require.NoError(t, cv.Encode(&buf, FormatPNG))
	require.NotZero(t, buf.Len())
}

package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Setting keys as stored in the settings table.
const (
	KeyChartWidth    = "chart.width"
	KeyChartHeight   = "chart.height"
	KeyChartMargin   = "chart.margin"
	KeyWindowMinutes = "chart.window_minutes"
	KeyChartFormat   = "chart.format"
)

// Settings are the dashboard's presentation settings.
type Settings struct {
	ChartWidth    int     `json:"chart_width"`
	ChartHeight   int     `json:"chart_height"`
	ChartMargin   float64 `json:"chart_margin"`
	WindowMinutes int     `json:"window_minutes"`
	ChartFormat   string  `json:"chart_format"`
}

func DefaultSettings() Settings {
	return Settings{
		ChartWidth:    600,
		ChartHeight:   200,
		ChartMargin:   30,
		WindowMinutes: 240,
		ChartFormat:   "png",
	}
}

// WithDefaults fills zero fields from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.ChartWidth <= 0 {
		s.ChartWidth = d.ChartWidth
	}
	if s.ChartHeight <= 0 {
		s.ChartHeight = d.ChartHeight
	}
	if s.ChartMargin <= 0 {
		s.ChartMargin = d.ChartMargin
	}
	if s.WindowMinutes <= 0 {
		s.WindowMinutes = d.WindowMinutes
	}
	if s.ChartFormat == "" {
		s.ChartFormat = d.ChartFormat
	}
	return s
}

func (s Settings) Validate() error {
	if s.ChartWidth < 100 || s.ChartWidth > 4000 {
		return fmt.Errorf("chart width %d out of range (100-4000)", s.ChartWidth)
	}
	if s.ChartHeight < 60 || s.ChartHeight > 2000 {
		return fmt.Errorf("chart height %d out of range (60-2000)", s.ChartHeight)
	}
	if s.ChartMargin <= 0 || 2*s.ChartMargin >= float64(min(s.ChartWidth, s.ChartHeight)) {
		return fmt.Errorf("chart margin %g leaves no plot area", s.ChartMargin)
	}
	if s.WindowMinutes < 1 || s.WindowMinutes > 7*24*60 {
		return fmt.Errorf("window %d minutes out of range (1-10080)", s.WindowMinutes)
	}
	switch s.ChartFormat {
	case "png", "svg":
	default:
		return fmt.Errorf("invalid chart format %q (allowed: png, svg)", s.ChartFormat)
	}
	return nil
}

// ToMap flattens s into setting keys.
func (s Settings) ToMap() map[string]string {
	return map[string]string{
		KeyChartWidth:    strconv.Itoa(s.ChartWidth),
		KeyChartHeight:   strconv.Itoa(s.ChartHeight),
		KeyChartMargin:   strconv.FormatFloat(s.ChartMargin, 'f', -1, 64),
		KeyWindowMinutes: strconv.Itoa(s.WindowMinutes),
		KeyChartFormat:   s.ChartFormat,
	}
}

// SettingsFromMap parses stored values over the defaults. Unknown keys are
// ignored.
func SettingsFromMap(m map[string]string) (Settings, error) {
	s := DefaultSettings()
	var err error
	for k, raw := range m {
		v := strings.TrimSpace(raw)
		switch k {
		case KeyChartWidth:
			s.ChartWidth, err = strconv.Atoi(v)
		case KeyChartHeight:
			s.ChartHeight, err = strconv.Atoi(v)
		case KeyChartMargin:
			s.ChartMargin, err = strconv.ParseFloat(v, 64)
		case KeyWindowMinutes:
			s.WindowMinutes, err = strconv.Atoi(v)
		case KeyChartFormat:
			s.ChartFormat = strings.ToLower(v)
		}
		if err != nil {
			return Settings{}, fmt.Errorf("setting %s=%q: %w", k, raw, err)
		}
	}
	return s, nil
}

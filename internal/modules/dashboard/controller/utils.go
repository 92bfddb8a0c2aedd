package controller

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"revcam-dashboard/internal/chart"
	"revcam-dashboard/internal/display"
	"revcam-dashboard/internal/modules/dashboard/service"
	"revcam-dashboard/internal/modules/dashboard/types"
	"revcam-dashboard/internal/modules/dashboard/views"
)

var slotLabels = map[string]string{
	service.SlotDistance: "Distance",
	service.SlotLED:      "LED",
	service.SlotWifi:     "Wi-Fi",
	service.SlotCPU:      "CPU",
	service.SlotBattery:  "Battery",
	service.SlotLux:      "Light",
}

func slotLabel(name string) string {
	if l, ok := slotLabels[name]; ok {
		return l
	}
	return name
}

func toStatsData(names []string, snap display.Snapshot) views.StatsData {
	slots := make([]views.Slot, 0, len(names))
	for _, n := range names {
		slots = append(slots, views.Slot{Name: n, Label: slotLabel(n), Text: snap.Slots[n]})
	}
	return views.StatsData{Slots: slots, UpdatedAt: snap.UpdatedAt}
}

func toChartData(panels []*service.ChartPanel, format chart.Format) []views.ChartData {
	out := make([]views.ChartData, 0, len(panels))
	for _, p := range panels {
		w, h := p.Size()
		cd := views.ChartData{
			Name:     p.Name(),
			Label:    p.Label(),
			Src:      "/charts/" + url.PathEscape(p.Name()) + "?format=" + string(format),
			Width:    w,
			Height:   h,
			LoadedAt: p.LoadedAt(),
		}
		if err := p.Err(); err != nil {
			cd.Err = err.Error()
		}
		out = append(out, cd)
	}
	return out
}

func toWifiData(v service.WifiView) views.WifiData {
	forms := make([]views.WifiForm, 0, len(v.Forms))
	for _, f := range v.Forms {
		forms = append(forms, views.WifiForm{
			SSID:     f.SSID,
			Signal:   f.Signal,
			Security: f.Security,
			Action:   f.Action,
		})
	}
	return views.WifiData{Forms: forms, Err: v.Err, Scanned: v.Scanned, ScannedAt: v.ScannedAt}
}

// parseChartFormat reads ?format=, falling back when it is absent.
func parseChartFormat(r *http.Request, fallback chart.Format) (chart.Format, error) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		return fallback, nil
	}
	return chart.ParseFormat(raw)
}

func parseSettingsForm(r *http.Request) (types.Settings, error) {
	if err := r.ParseForm(); err != nil {
		return types.Settings{}, fmt.Errorf("invalid form: %w", err)
	}
	var (
		s   types.Settings
		err error
	)
	field := func(name string) string { return strings.TrimSpace(r.PostForm.Get(name)) }

	if s.ChartWidth, err = strconv.Atoi(field("chart_width")); err != nil {
		return types.Settings{}, fmt.Errorf("invalid chart_width %q", field("chart_width"))
	}
	if s.ChartHeight, err = strconv.Atoi(field("chart_height")); err != nil {
		return types.Settings{}, fmt.Errorf("invalid chart_height %q", field("chart_height"))
	}
	if s.ChartMargin, err = strconv.ParseFloat(field("chart_margin"), 64); err != nil {
		return types.Settings{}, fmt.Errorf("invalid chart_margin %q", field("chart_margin"))
	}
	if s.WindowMinutes, err = strconv.Atoi(field("window_minutes")); err != nil {
		return types.Settings{}, fmt.Errorf("invalid window_minutes %q", field("window_minutes"))
	}
	s.ChartFormat = strings.ToLower(field("chart_format"))
	if err := s.Validate(); err != nil {
		return types.Settings{}, err
	}
	return s, nil
}

package service

import (
	"strconv"

	"revcam-dashboard/internal/device"
	"revcam-dashboard/internal/display"
)

const (
	SlotDistance = "distance"
	SlotLED      = "led"
	SlotWifi     = "wifi"
	SlotCPU      = "cpu"
	SlotBattery  = "battery"
	SlotLux      = "lux"

	Placeholder         = "--"
	DistancePlaceholder = "--.- m"
)

// SlotWriter receives one snapshot's slot texts as a single batch.
type SlotWriter interface {
	Apply(updates []display.Update) int
}

type slotFormatter struct {
	slot   string
	format func(device.StatusSnapshot) string
}

var slotFormatters = []slotFormatter{
	{slot: SlotDistance, format: formatDistance},
	{slot: SlotLED, format: formatLED},
	{slot: SlotWifi, format: formatWifi},
	{slot: SlotCPU, format: formatCPU},
	{slot: SlotBattery, format: formatBattery},
	{slot: SlotLux, format: formatLux},
}

// StatSlots lists every slot RenderStats writes, in display order.
func StatSlots() []string {
	out := make([]string, 0, len(slotFormatters))
	for _, f := range slotFormatters {
		out = append(out, f.slot)
	}
	return out
}

// NewStatsBoard returns a board with every stat slot declared.
func NewStatsBoard() *display.Board {
	return display.NewBoard(Placeholder, StatSlots()...)
}

// FormatStats maps a snapshot to the text of every stat slot.
func FormatStats(s device.StatusSnapshot) []display.Update {
	out := make([]display.Update, 0, len(slotFormatters))
	for _, f := range slotFormatters {
		out = append(out, display.Update{Slot: f.slot, Text: f.format(s)})
	}
	return out
}

// RenderStats writes s into w. Slots w does not have are skipped by w.
func RenderStats(w SlotWriter, s device.StatusSnapshot) {
	w.Apply(FormatStats(s))
}

func formatDistance(s device.StatusSnapshot) string {
	d, ok := s.DistanceM.Get()
	if !ok {
		return DistancePlaceholder
	}
	return toFixed(d, 1) + " m"
}

func formatLED(s device.StatusSnapshot) string {
	if led := s.LEDStatus.Or(""); led != "" {
		return led
	}
	return Placeholder
}

func formatWifi(s device.StatusSnapshot) string {
	ssid := s.WifiSSID.Or("")
	if ssid == "" {
		return Placeholder
	}
	rssi := Placeholder
	if v, ok := s.WifiRSSI.Get(); ok {
		rssi = strconv.Itoa(v)
	}
	return ssid + " (" + rssi + "%)"
}

func formatCPU(s device.StatusSnapshot) string {
	temp, ok := s.CPUTempC.Get()
	if !ok {
		return Placeholder
	}
	return toFixed(temp, 1) + "°C / " + optFixed(s.CPULoad.Ptr(), 2)
}

func formatBattery(s device.StatusSnapshot) string {
	pct, ok := s.BatteryPct.Get()
	if !ok {
		return Placeholder
	}
	return toFixed(pct, 0) + "% (" + optFixed(s.Voltage.Ptr(), 2) + "V)"
}

func formatLux(s device.StatusSnapshot) string {
	lux, ok := s.Lux.Get()
	if !ok {
		return Placeholder
	}
	return toFixed(lux, 0)
}

// optFixed renders an absent sub-field as empty text.
func optFixed(v *float64, digits int) string {
	if v == nil {
		return ""
	}
	return toFixed(*v, digits)
}

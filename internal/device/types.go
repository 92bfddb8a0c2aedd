package device

import "revcam-dashboard/internal/opt"

// StatusSnapshot is one reading of GET /api/stats. Every field may be null
// or missing.
type StatusSnapshot struct {
	DistanceM  opt.Value[float64] `json:"distance_m"`
	LEDStatus  opt.Value[string]  `json:"led_status"`
	WifiSSID   opt.Value[string]  `json:"wifi_ssid"`
	WifiRSSI   opt.Value[int]     `json:"wifi_rssi"`
	CPUTempC   opt.Value[float64] `json:"cpu_temp_c"`
	CPULoad    opt.Value[float64] `json:"cpu_load"`
	BatteryPct opt.Value[float64] `json:"battery_pct"`
	Voltage    opt.Value[float64] `json:"voltage"`
	Current    opt.Value[float64] `json:"current"`
	Power      opt.Value[float64] `json:"power"`
	Lux        opt.Value[float64] `json:"lux"`
}

// SeriesPoint is one sample of a historical series; T is unix seconds.
type SeriesPoint struct {
	T     float64 `json:"t"`
	Value float64 `json:"value"`
}

// Series is the decoded GET /api/series payload, each slice oldest first.
type Series struct {
	Battery []SeriesPoint `json:"battery"`
	Motion  []SeriesPoint `json:"motion"`
}

type WifiNetwork struct {
	SSID     string `json:"ssid"`
	Signal   int    `json:"signal"`
	Security string `json:"security"`
}

type batteryPoint struct {
	T   float64 `json:"t"`
	Pct float64 `json:"pct"`
}

type motionPoint struct {
	T float64 `json:"t"`
	M float64 `json:"m"`
}

type seriesPayload struct {
	Battery *[]batteryPoint `json:"battery"`
	Motion  *[]motionPoint  `json:"motion"`
}

type scanPayload struct {
	Networks *[]WifiNetwork `json:"networks"`
}

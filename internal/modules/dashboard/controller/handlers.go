package controller

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/url"

	"revcam-dashboard/internal/chart"
	"revcam-dashboard/internal/modules/dashboard/views"
	"revcam-dashboard/internal/utils"
)

func (c *dashboardControllerImpl) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := views.DashboardData{
		Stats:      toStatsData(c.dashboard.SlotNames(), c.dashboard.Slots()),
		Charts:     toChartData(c.dashboard.Charts(), c.chartFormat(r)),
		Wifi:       toWifiData(c.dashboard.WifiView()),
		ConnectErr: r.URL.Query().Get("connect_error"),
	}
	var buf bytes.Buffer
	if err := views.RenderDashboard(&buf, &data); err != nil {
		slog.Error("dashboard template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	writeHTML(w, &buf, "dashboard")
}

func (c *dashboardControllerImpl) handleStatsPartial(w http.ResponseWriter, r *http.Request) {
	data := toStatsData(c.dashboard.SlotNames(), c.dashboard.Slots())
	var buf bytes.Buffer
	if err := views.RenderStatsPartial(&buf, &data); err != nil {
		slog.Error("stats partial render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
		return
	}
	writeHTML(w, &buf, "stats")
}

func (c *dashboardControllerImpl) handleSlots(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, c.dashboard.Slots())
}

func (c *dashboardControllerImpl) handleChart(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	panel, ok := c.dashboard.Chart(name)
	if !ok {
		utils.WriteError(w, http.StatusNotFound, "unknown chart "+name)
		return
	}
	format, err := parseChartFormat(r, c.chartFormat(r))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := panel.Canvas().Encode(&buf, format); err != nil {
		slog.Error("chart encode failed", "chart", name, "format", format, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("chart: write response failed", "chart", name, "error", err)
	}
}

// handleWifiScan always answers with the list partial so a failed scan
// still replaces the list with its error state.
func (c *dashboardControllerImpl) handleWifiScan(w http.ResponseWriter, r *http.Request) {
	_ = c.dashboard.ScanWifi(r.Context())
	c.writeWifiPartial(w)
}

func (c *dashboardControllerImpl) handleWifiPartial(w http.ResponseWriter, r *http.Request) {
	c.writeWifiPartial(w)
}

func (c *dashboardControllerImpl) writeWifiPartial(w http.ResponseWriter) {
	data := toWifiData(c.dashboard.WifiView())
	var buf bytes.Buffer
	if err := views.RenderWifiPartial(&buf, &data); err != nil {
		slog.Error("wifi partial render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
		return
	}
	writeHTML(w, &buf, "wifi")
}

func (c *dashboardControllerImpl) handleWifiConnect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid form")
		return
	}
	ssid := r.PostForm.Get("ssid")
	if err := c.dashboard.ConnectWifi(r.Context(), ssid, r.PostForm.Get("password")); err != nil {
		slog.Warn("wifi connect failed", "ssid", ssid, "error", err)
		http.Redirect(w, r, "/?connect_error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *dashboardControllerImpl) handleVideo(w http.ResponseWriter, r *http.Request) {
	data := views.VideoData{StreamURL: c.dashboard.StreamURL()}
	var buf bytes.Buffer
	if err := views.RenderVideo(&buf, &data); err != nil {
		slog.Error("video template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	writeHTML(w, &buf, "video")
}

func (c *dashboardControllerImpl) handleSettings(w http.ResponseWriter, r *http.Request) {
	st, err := c.settings.GetSettings(r.Context())
	if err != nil {
		slog.Error("settings: load failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	c.writeSettings(w, http.StatusOK, &views.SettingsData{Settings: st, Saved: r.URL.Query().Get("saved") == "1"})
}

func (c *dashboardControllerImpl) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	st, err := parseSettingsForm(r)
	if err != nil {
		current, loadErr := c.settings.GetSettings(r.Context())
		if loadErr != nil {
			slog.Error("settings: load failed", "error", loadErr)
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.writeSettings(w, http.StatusBadRequest, &views.SettingsData{Settings: current, Err: err.Error()})
		return
	}
	if err := c.settings.SaveSettings(r.Context(), st); err != nil {
		slog.Error("settings: save failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	slog.Info("settings saved", "settings", st)
	http.Redirect(w, r, "/settings?saved=1", http.StatusSeeOther)
}

func (c *dashboardControllerImpl) writeSettings(w http.ResponseWriter, status int, data *views.SettingsData) {
	var buf bytes.Buffer
	if err := views.RenderSettings(&buf, data); err != nil {
		slog.Error("settings template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("settings: write response failed", "error", err)
	}
}

// chartFormat is the stored default image format. A settings read failure
// falls back to PNG so charts keep loading.
func (c *dashboardControllerImpl) chartFormat(r *http.Request) chart.Format {
	st, err := c.settings.GetSettings(r.Context())
	if err != nil {
		slog.Warn("chart format: settings unavailable", "error", err)
		return chart.FormatPNG
	}
	f, err := chart.ParseFormat(st.ChartFormat)
	if err != nil {
		return chart.FormatPNG
	}
	return f
}

func writeHTML(w http.ResponseWriter, buf *bytes.Buffer, what string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error(what+": write response failed", "error", err)
	}
}

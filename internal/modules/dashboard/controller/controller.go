package controller

import (
	"context"
	"net/http"

	"revcam-dashboard/internal/display"
	"revcam-dashboard/internal/modules/dashboard/repository"
	"revcam-dashboard/internal/modules/dashboard/service"
)

// Dashboard is what the handlers need from the running dashboard service.
type Dashboard interface {
	Slots() display.Snapshot
	SlotNames() []string
	Chart(name string) (*service.ChartPanel, bool)
	Charts() []*service.ChartPanel
	WifiView() service.WifiView
	ScanWifi(ctx context.Context) error
	ConnectWifi(ctx context.Context, ssid, password string) error
	StreamURL() string
}

type DashboardController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type dashboardControllerImpl struct {
	dashboard Dashboard
	settings  repository.SettingsRepository
}

func NewDashboardController(dashboard Dashboard, settings repository.SettingsRepository) DashboardController {
	return &dashboardControllerImpl{dashboard: dashboard, settings: settings}
}

func (c *dashboardControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handleDashboard)
	mux.HandleFunc("GET /partials/stats", c.handleStatsPartial)
	mux.HandleFunc("GET /api/slots", c.handleSlots)
	mux.HandleFunc("GET /charts/{name}", c.handleChart)
	mux.HandleFunc("POST /wifi/scan", c.handleWifiScan)
	mux.HandleFunc("GET /partials/wifi", c.handleWifiPartial)
	mux.HandleFunc("POST /wifi/connect", c.handleWifiConnect)
	mux.HandleFunc("GET /video", c.handleVideo)
	mux.HandleFunc("GET /settings", c.handleSettings)
	mux.HandleFunc("POST /settings", c.handleSaveSettings)
}

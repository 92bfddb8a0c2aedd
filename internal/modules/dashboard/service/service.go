package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"revcam-dashboard/internal/chart"
	"revcam-dashboard/internal/device"
	"revcam-dashboard/internal/display"
	"revcam-dashboard/internal/modules/dashboard/types"
)

// Device is the slice of the device API the dashboard consumes.
type Device interface {
	StatsSource
	SeriesSource
	WifiSource
	Connect(ctx context.Context, ssid, password string) error
}

type Options struct {
	PollInterval time.Duration
	Settings     types.Settings
	// StreamURL is the camera stream the video page embeds.
	StreamURL string
}

// Service wires the poller, loader and scanner to the board, charts and
// Wi-Fi list they render into.
type Service struct {
	device    Device
	streamURL string
	logger    *slog.Logger
	board     *display.Board
	charts    *Charts
	wifi      *WifiList
	poller    *StatsPoller
	loader    *SeriesLoader
	scanner   *WifiScanner
}

func NewService(dev Device, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	st := opts.Settings.WithDefaults()
	lc := chart.NewLineChart()
	lc.Margin = st.ChartMargin
	lc.Window = time.Duration(st.WindowMinutes) * time.Minute

	board := NewStatsBoard()
	charts := NewCharts(st.ChartWidth, st.ChartHeight)
	wifi := NewWifiList()
	return &Service{
		device:    dev,
		streamURL: opts.StreamURL,
		logger:    logger,
		board:     board,
		charts:    charts,
		wifi:      wifi,
		poller:    NewStatsPoller(dev, board, opts.PollInterval),
		loader:    NewSeriesLoader(dev, lc, charts),
		scanner:   NewWifiScanner(dev, wifi),
	}
}

// Start loads the history once and polls stats until ctx is done.
func (s *Service) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.loader.Load(ctx); err != nil {
			s.logger.Error("series load failed", "error", err)
			return
		}
		s.logger.Info("series loaded")
	}()

	err := s.poller.Run(ctx)
	wg.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Service) StreamURL() string {
	return s.streamURL
}

func (s *Service) Slots() display.Snapshot {
	return s.board.Snapshot()
}

func (s *Service) SlotNames() []string {
	return s.board.Slots()
}

func (s *Service) Chart(name string) (*ChartPanel, bool) {
	return s.charts.Get(name)
}

func (s *Service) Charts() []*ChartPanel {
	return s.charts.All()
}

func (s *Service) WifiView() WifiView {
	return s.wifi.View()
}

// RenderSnapshot renders a snapshot that arrived without polling.
func (s *Service) RenderSnapshot(snap device.StatusSnapshot) {
	RenderStats(s.board, snap)
}

func (s *Service) ScanWifi(ctx context.Context) error {
	if err := s.scanner.Scan(ctx); err != nil {
		s.logger.Error("wifi scan failed", "error", err)
		return err
	}
	s.logger.Debug("wifi scan complete", "networks", s.wifi.Len())
	return nil
}

func (s *Service) ConnectWifi(ctx context.Context, ssid, password string) error {
	if ssid == "" {
		return errors.New("ssid is required")
	}
	if err := s.device.Connect(ctx, ssid, password); err != nil {
		s.logger.Error("wifi connect failed", "ssid", ssid, "error", err)
		return fmt.Errorf("connect %q: %w", ssid, err)
	}
	s.logger.Info("wifi connect requested", "ssid", ssid)
	return nil
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"revcam-dashboard/internal/device"
)

// ConnectAction is where every generated form posts.
const ConnectAction = "/wifi/connect"

type WifiSource interface {
	ScanNetworks(ctx context.Context) ([]device.WifiNetwork, error)
}

// ConnectForm is one network row: hidden ssid, visible label, password
// input and a submit to Action.
type ConnectForm struct {
	SSID     string
	Signal   int
	Security string
	Action   string
}

// WifiView is a consistent copy of the list for rendering.
type WifiView struct {
	Forms     []ConnectForm
	Err       string
	ScannedAt time.Time
	Scanned   bool
}

// WifiList is the container the scanner fills.
type WifiList struct {
	mu        sync.RWMutex
	forms     []ConnectForm
	err       error
	scannedAt time.Time
}

func NewWifiList() *WifiList {
	return &WifiList{}
}

func (l *WifiList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.forms)
}

func (l *WifiList) View() WifiView {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v := WifiView{
		Forms:     make([]ConnectForm, len(l.forms)),
		ScannedAt: l.scannedAt,
		Scanned:   !l.scannedAt.IsZero(),
	}
	copy(v.Forms, l.forms)
	if l.err != nil {
		v.Err = l.err.Error()
	}
	return v
}

// replace clears the list and appends forms in order.
func (l *WifiList) replace(forms []ConnectForm, at time.Time) {
	l.mu.Lock()
	l.forms = l.forms[:0]
	l.forms = append(l.forms, forms...)
	l.err = nil
	l.scannedAt = at
	l.mu.Unlock()
}

// fail clears the list and records err.
func (l *WifiList) fail(err error, at time.Time) {
	l.mu.Lock()
	l.forms = nil
	l.err = err
	l.scannedAt = at
	l.mu.Unlock()
}

// WifiScanner runs only on request.
type WifiScanner struct {
	source WifiSource
	list   *WifiList
	now    func() time.Time
}

func NewWifiScanner(source WifiSource, list *WifiList) *WifiScanner {
	return &WifiScanner{source: source, list: list, now: time.Now}
}

// Scan replaces the list with one form per network, in received order.
func (s *WifiScanner) Scan(ctx context.Context) error {
	nets, err := s.source.ScanNetworks(ctx)
	if err != nil {
		err = fmt.Errorf("wifi scan: %w", err)
		s.list.fail(err, s.now())
		return err
	}

	forms := make([]ConnectForm, 0, len(nets))
	for _, n := range nets {
		forms = append(forms, ConnectForm{
			SSID:     n.SSID,
			Signal:   n.Signal,
			Security: n.Security,
			Action:   ConnectAction,
		})
	}
	s.list.replace(forms, s.now())
	return nil
}

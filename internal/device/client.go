// Package device is the HTTP client for the device API the dashboard renders.
package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	StatsPath   = "/api/stats"
	SeriesPath  = "/api/series"
	ScanPath    = "/wifi/scan"
	ConnectPath = "/wifi/connect"
	StreamPath  = "/stream.mjpg"
)

// StatusCodeError is returned when the device answers with a non-2xx status.
type StatusCodeError struct {
	Path   string
	Status int
}

func (e *StatusCodeError) Error() string {
	return fmt.Sprintf("device %s: unexpected status %d", e.Path, e.Status)
}

// DefaultResponseHeaderTimeout bounds how long the transport waits for a
// device that accepted the connection but has not answered.
const DefaultResponseHeaderTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the device at baseURL. A zero timeout leaves
// requests bounded only by the transport's response header timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return newClient(baseURL, timeout, DefaultResponseHeaderTimeout)
}

func newClient(baseURL string, timeout, headerTimeout time.Duration) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = headerTimeout
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// StreamURL is the device's MJPEG camera stream, loaded directly by browsers.
func (c *Client) StreamURL() string {
	return c.baseURL + StreamPath
}

func (c *Client) GetStats(ctx context.Context) (StatusSnapshot, error) {
	var s StatusSnapshot
	if err := c.getJSON(ctx, StatsPath, &s); err != nil {
		return StatusSnapshot{}, err
	}
	return s, nil
}

// GetSeries fetches the battery and motion history. Both keys must be present.
func (c *Client) GetSeries(ctx context.Context) (Series, error) {
	var p seriesPayload
	if err := c.getJSON(ctx, SeriesPath, &p); err != nil {
		return Series{}, err
	}
	if p.Battery == nil {
		return Series{}, errors.New("device /api/series: missing \"battery\"")
	}
	if p.Motion == nil {
		return Series{}, errors.New("device /api/series: missing \"motion\"")
	}

	out := Series{
		Battery: make([]SeriesPoint, 0, len(*p.Battery)),
		Motion:  make([]SeriesPoint, 0, len(*p.Motion)),
	}
	for _, b := range *p.Battery {
		out.Battery = append(out.Battery, SeriesPoint{T: b.T, Value: b.Pct})
	}
	for _, m := range *p.Motion {
		out.Motion = append(out.Motion, SeriesPoint{T: m.T, Value: m.M})
	}
	return out, nil
}

// ScanNetworks returns the visible networks in the order the device lists them.
func (c *Client) ScanNetworks(ctx context.Context) ([]WifiNetwork, error) {
	var p scanPayload
	if err := c.getJSON(ctx, ScanPath, &p); err != nil {
		return nil, err
	}
	if p.Networks == nil {
		return nil, errors.New("device /wifi/scan: missing \"networks\"")
	}
	return *p.Networks, nil
}

// Connect posts the connect form to the device. The response body is not
// inspected beyond its status.
func (c *Client) Connect(ctx context.Context, ssid, password string) error {
	form := url.Values{}
	form.Set("ssid", ssid)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ConnectPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("device %s: %w", ConnectPath, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("device %s: %w", ConnectPath, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	// The device answers with a redirect to its own settings page.
	if resp.StatusCode >= 400 {
		return &StatusCodeError{Path: ConnectPath, Status: resp.StatusCode}
	}
	return nil
}

// DecodeSnapshot parses a stats payload received outside of HTTP (e.g. MQTT).
func DecodeSnapshot(payload []byte) (StatusSnapshot, error) {
	var s StatusSnapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		return StatusSnapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("device %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("device %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &StatusCodeError{Path: path, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("device %s: decode: %w", path, err)
	}
	return nil
}

package device

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestClient serves h on path only; other paths answer 404.
func newTestClient(t *testing.T, path string, h http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(path, h)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 0)
}

func TestClient_GetStats(t *testing.T) {
	c := newTestClient(t, StatsPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"distance_m": 12.34, "battery_pct": null, "wifi_ssid": "home", "wifi_rssi": 71, "power": 3.2}`))
	})

	s, err := c.GetStats(context.Background())
	require.NoError(t, err)

	d, ok := s.DistanceM.Get()
	require.True(t, ok)
	require.InDelta(t, 12.34, d, 1e-9)
	require.False(t, s.BatteryPct.IsSome())
	require.False(t, s.Lux.IsSome())
	require.Equal(t, "home", s.WifiSSID.Or(""))
	require.Equal(t, 71, s.WifiRSSI.Or(0))
}

func TestClient_GetStats_errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"distance_m": `))
			},
		},
		{
			name: "wrong field type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"distance_m": "far"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, StatsPath, tt.handler)
			_, err := c.GetStats(context.Background())
			require.Error(t, err)
		})
	}
}

func TestClient_GetStats_statusCodeError(t *testing.T) {
	c := newTestClient(t, StatsPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.GetStats(context.Background())
	var sce *StatusCodeError
	require.True(t, errors.As(err, &sce))
	require.Equal(t, http.StatusServiceUnavailable, sce.Status)
	require.Equal(t, StatsPath, sce.Path)
}

func TestClient_GetSeries(t *testing.T) {
	c := newTestClient(t, SeriesPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"battery":[{"t":0,"pct":50},{"t":3600,"pct":40}],"motion":[{"t":10,"m":0.7}]}`))
	})

	s, err := c.GetSeries(context.Background())
	require.NoError(t, err)
	require.Equal(t, []SeriesPoint{{T: 0, Value: 50}, {T: 3600, Value: 40}}, s.Battery)
	require.Equal(t, []SeriesPoint{{T: 10, Value: 0.7}}, s.Motion)
}

func TestClient_GetSeries_missingKeys(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "no battery", body: `{"motion":[]}`, want: `missing "battery"`},
		{name: "no motion", body: `{"battery":[]}`, want: `missing "motion"`},
		{name: "null battery", body: `{"battery":null,"motion":[]}`, want: `missing "battery"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, SeriesPath, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.GetSeries(context.Background())
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestClient_GetSeries_emptyArrays(t *testing.T) {
	c := newTestClient(t, SeriesPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"battery":[],"motion":[]}`))
	})

	s, err := c.GetSeries(context.Background())
	require.NoError(t, err)
	require.Empty(t, s.Battery)
	require.Empty(t, s.Motion)
}

func TestClient_ScanNetworks(t *testing.T) {
	c := newTestClient(t, ScanPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"networks":[{"ssid":"b","signal":40,"security":"WPA2"},{"ssid":"a","signal":90,"security":""}]}`))
	})

	nets, err := c.ScanNetworks(context.Background())
	require.NoError(t, err)
	require.Equal(t, []WifiNetwork{
		{SSID: "b", Signal: 40, Security: "WPA2"},
		{SSID: "a", Signal: 90, Security: ""},
	}, nets)
}

func TestClient_ScanNetworks_missingKey(t *testing.T) {
	c := newTestClient(t, ScanPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.ScanNetworks(context.Background())
	require.ErrorContains(t, err, `missing "networks"`)
}

func TestClient_Connect(t *testing.T) {
	var gotSSID, gotPassword, gotMethod string
	c := newTestClient(t, ConnectPath, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_ = r.ParseForm()
		gotSSID = r.PostForm.Get("ssid")
		gotPassword = r.PostForm.Get("password")
		w.WriteHeader(http.StatusOK)
	})

	err := c.Connect(context.Background(), `cafe "guest"`, "s3cret&x=1")
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, `cafe "guest"`, gotSSID)
	require.Equal(t, "s3cret&x=1", gotPassword)
}

func TestClient_Connect_errorStatus(t *testing.T) {
	c := newTestClient(t, ConnectPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.Connect(context.Background(), "x", "y")
	var sce *StatusCodeError
	require.ErrorAs(t, err, &sce)
	require.Equal(t, ConnectPath, sce.Path)
}

func TestClient_canceledContext(t *testing.T) {
	c := newTestClient(t, StatsPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetStats(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_hungDeviceTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	c := newClient(srv.URL, 0, 50*time.Millisecond)

	start := time.Now()
	_, err := c.GetStats(context.Background())
	require.Error(t, err)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestNewClient_setsResponseHeaderTimeout(t *testing.T) {
	c := NewClient("http://device", 0)
	tr, ok := c.httpClient.Transport.(*http.Transport)
	require.True(t, ok)
	require.Equal(t, DefaultResponseHeaderTimeout, tr.ResponseHeaderTimeout)
}

func TestClient_StreamURL(t *testing.T) {
	require.Equal(t, "http://cam:8000/stream.mjpg", NewClient("http://cam:8000/", 0).StreamURL())
}

func TestDecodeSnapshot(t *testing.T) {
	s, err := DecodeSnapshot([]byte(`{"lux": 250.4, "led_status": "auto"}`))
	require.NoError(t, err)
	require.Equal(t, "auto", s.LEDStatus.Or(""))
	require.InDelta(t, 250.4, s.Lux.Or(0), 1e-9)

	_, err = DecodeSnapshot([]byte(`not json`))
	require.Error(t, err)
}

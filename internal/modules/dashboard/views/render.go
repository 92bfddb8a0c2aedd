package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/dustin/go-humanize"

	"revcam-dashboard/internal/modules/dashboard/types"
)

//go:embed templates
var viewsFS embed.FS

var dashboardTmpl *template.Template

var funcs = template.FuncMap{
	"ago": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return humanize.Time(t)
	},
	"iso": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
}

// loadTemplatesFromFS loads dashboard templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	dashboardTmpl, err = template.New("dashboard").Funcs(funcs).ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded dashboard templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// Slot is one labelled stat on the page.
type Slot struct {
	Name  string
	Label string
	Text  string
}

type StatsData struct {
	Slots     []Slot
	UpdatedAt time.Time
}

type ChartData struct {
	Name     string
	Label    string
	Src      string
	Width    int
	Height   int
	Err      string
	LoadedAt time.Time
}

// WifiForm is the view model of one connect form.
type WifiForm struct {
	SSID     string
	Signal   int
	Security string
	Action   string
}

type WifiData struct {
	Forms     []WifiForm
	Err       string
	Scanned   bool
	ScannedAt time.Time
}

type DashboardData struct {
	Stats  StatsData
	Charts []ChartData
	Wifi   WifiData
	// ConnectErr is set after a failed connect redirect.
	ConnectErr string
}

func RenderDashboard(w io.Writer, data *DashboardData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "dashboard.html", data)
}

// RenderStatsPartial executes only the stats partial into w.
// Use for HTMX fragment refresh.
func RenderStatsPartial(w io.Writer, data *StatsData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "partials/stats.html", data)
}

func RenderWifiPartial(w io.Writer, data *WifiData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "partials/wifi.html", data)
}

type VideoData struct {
	StreamURL string
}

func RenderVideo(w io.Writer, data *VideoData) error {
	if dashboardTmpl == nil {
		return errors.New("video template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "video.html", data)
}

type SettingsData struct {
	Settings types.Settings
	Saved    bool
	Err      string
}

func RenderSettings(w io.Writer, data *SettingsData) error {
	if dashboardTmpl == nil {
		return errors.New("settings template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "settings.html", data)
}

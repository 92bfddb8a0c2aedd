package httpapi

import (
	"database/sql"
	"log/slog"
	"net/http"

	"revcam-dashboard/internal/utils"
)

// Connectivity reports a link state for the health response.
type Connectivity interface {
	IsConnected() bool
}

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	db   *sql.DB
	mqtt Connectivity
}

func NewHealthchecker(db *sql.DB, mqtt Connectivity) healthchecker {
	return &healthcheckerImpl{db: db, mqtt: mqtt}
}

// handleHealthz fails only on the database; MQTT is optional and reported.
func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	var ok int
	if err := h.db.QueryRowContext(r.Context(), `SELECT 1`).Scan(&ok); err != nil {
		slog.Error("failed to check database connectivity", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to check database connectivity")
		return
	}
	body := map[string]string{"status": "ok", "mqtt": "disabled"}
	if h.mqtt != nil {
		body["mqtt"] = "disconnected"
		if h.mqtt.IsConnected() {
			body["mqtt"] = "connected"
		}
	}
	utils.WriteJSON(w, http.StatusOK, body)
}

func registerHealthcheck(mux *http.ServeMux, db *sql.DB, mqtt Connectivity) {
	healthchecker := NewHealthchecker(db, mqtt)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}

package httpapi

import (
	"database/sql"
	"net/http"
)

// NewMux returns a mux with /healthz registered. mqtt may be nil when the
// subscription is disabled.
func NewMux(db *sql.DB, mqtt Connectivity) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db, mqtt)
	return mux
}

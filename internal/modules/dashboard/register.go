package dashboard

import (
	"database/sql"
	"net/http"

	"revcam-dashboard/internal/modules/dashboard/controller"
	"revcam-dashboard/internal/modules/dashboard/repository"
	"revcam-dashboard/internal/modules/dashboard/service"
)

func RegisterFeature(mux *http.ServeMux, svc *service.Service, db *sql.DB) {
	settingsRepository := repository.NewRepository(db)
	dashboardController := controller.NewDashboardController(svc, settingsRepository)
	dashboardController.RegisterRoutes(mux)
}

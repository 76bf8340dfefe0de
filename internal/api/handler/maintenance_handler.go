package handler

import (
	"net/http"
	"time"

	"algopulse/internal/api/middleware"
	"algopulse/internal/app/service"
	"algopulse/internal/common"

	"github.com/go-chi/chi/v5"
)

// MaintenanceHandler exposes the daily sweep to the admin console, next to
// the scheduler that runs it at midnight. Useful after restoring a backup
// or when a missed run needs replaying.
type MaintenanceHandler struct {
	maintenanceService *service.MaintenanceService
}

func NewMaintenanceHandler(ms *service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: ms}
}

func (h *MaintenanceHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.AdminOnly)
	r.Post("/daily", h.runDaily)
}

func (h *MaintenanceHandler) runDaily(w http.ResponseWriter, r *http.Request) {
	summary, err := h.maintenanceService.RunDailyMaintenance(r.Context(), time.Now())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, summary)
}

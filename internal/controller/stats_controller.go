// internal/controller/stats_controller.go
package controller

import (
	"net/http"

	"github.com/wasendio/wasend-backend/internal/service"
)

type StatsController struct {
	StatsService *service.StatsService
}

// Dashboard returns the headline numbers the frontend landing page
// shows: entity totals, delivery rate and the most recent campaigns.
func (c *StatsController) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := c.StatsService.Dashboard(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

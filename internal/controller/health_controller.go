// internal/controller/health_controller.go
package controller

import (
	"net/http"

	"github.com/wasendio/wasend-backend/internal/provider"
)

const apiVersion = "1.0.0"

type HealthController struct {
	Registry *provider.Registry
}

// Root serves the API banner.
func (c *HealthController) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "WhatsApp Bulk Sender API",
		"version": apiVersion,
	})
}

// Health reports liveness plus whether a messaging provider is ready,
// so operators can tell an unconfigured deployment from a broken one.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":              "healthy",
		"provider_configured": c.Registry.Configured(),
	})
}

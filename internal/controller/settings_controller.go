// internal/controller/settings_controller.go
package controller

import (
	"net/http"

	"github.com/wasendio/wasend-backend/internal/service"
)

type SettingsController struct {
	SettingsService *service.SettingsService
}

// ConfigureProvider stores provider credentials and swaps the live
// sender, so the change applies without a restart.
func (c *SettingsController) ConfigureProvider(w http.ResponseWriter, r *http.Request) {
	var body service.ProviderConfigInput
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.AccountSID == "" || body.AuthToken == "" {
		writeDetail(w, http.StatusBadRequest, "account_sid and auth_token are required")
		return
	}

	if _, err := c.SettingsService.ConfigureProvider(r.Context(), body); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Provider configured successfully",
	})
}

// ListProviders returns the stored configurations. Auth tokens never
// serialize out.
func (c *SettingsController) ListProviders(w http.ResponseWriter, r *http.Request) {
	configs, err := c.SettingsService.ListProviders(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"providers": configs})
}

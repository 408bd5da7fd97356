// internal/controller/campaign_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wasendio/wasend-backend/internal/model"
	"github.com/wasendio/wasend-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
}

// createCampaignBody is the create payload. A scheduled_at timestamp
// turns the draft into a scheduled campaign the scheduler will pick up.
type createCampaignBody struct {
	Name             string                  `json:"name"`
	MessageBody      string                  `json:"message_body"`
	MediaAttachments []model.MediaAttachment `json:"media_attachments"`
	Recipients       []string                `json:"recipients"`
	Provider         model.ProviderType      `json:"provider"`
	ScheduledAt      *time.Time              `json:"scheduled_at"`
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body createCampaignBody
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Name == "" {
		writeDetail(w, http.StatusBadRequest, "name is required")
		return
	}
	if body.MessageBody == "" {
		writeDetail(w, http.StatusBadRequest, "message_body is required")
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(r.Context(), service.CreateCampaignRequest{
		Name:             body.Name,
		MessageBody:      body.MessageBody,
		MediaAttachments: body.MediaAttachments,
		Recipients:       body.Recipients,
		Provider:         body.Provider,
		ScheduledAt:      body.ScheduledAt,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"campaign": campaign,
	})
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	limit := queryInt64(r, "limit", 20)
	skip := queryInt64(r, "skip", 0)

	campaigns, total, err := c.CampaignService.ListCampaigns(r.Context(), limit, skip)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"campaigns": campaigns,
		"total":     total,
		"limit":     limit,
		"skip":      skip,
	})
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := c.CampaignService.GetCampaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

// GetCampaignStatus reports the live per-status message breakdown and
// delivery rate for one campaign.
func (c *CampaignController) GetCampaignStatus(w http.ResponseWriter, r *http.Request) {
	report, err := c.CampaignService.GetCampaignStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

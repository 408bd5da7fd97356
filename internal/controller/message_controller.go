// internal/controller/message_controller.go
package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/wasendio/wasend-backend/internal/model"
	"github.com/wasendio/wasend-backend/internal/provider"
	"github.com/wasendio/wasend-backend/internal/repository"
	"github.com/wasendio/wasend-backend/internal/service"
)

type MessageController struct {
	Dispatch    *service.DispatchService
	MessageRepo repository.MessageRepositoryInterface
}

// SendMessage dispatches one ad-hoc message. The form carries the
// recipient, the body and an optional comma separated media URL list.
// A failed single send is a request failure, unlike bulk sends.
func (c *MessageController) SendMessage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form: "+err.Error())
		return
	}

	recipient := r.FormValue("recipient_phone")
	body := r.FormValue("message_body")
	if recipient == "" || body == "" {
		writeDetail(w, http.StatusBadRequest, "recipient_phone and message_body are required")
		return
	}

	msg, err := c.Dispatch.SendSingle(r.Context(), recipient, body, splitMediaURLs(r.FormValue("media_urls")))
	if err != nil {
		if errors.Is(err, provider.ErrNotConfigured) {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		// The provider's reason goes back to the caller.
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message_id": msg.ProviderMessageID,
		"status":     msg.Status,
	})
}

// bulkSendBody is the bulk request payload.
type bulkSendBody struct {
	Recipients       []string                `json:"recipients"`
	MessageBody      string                  `json:"message_body"`
	MediaAttachments []model.MediaAttachment `json:"media_attachments"`
	CampaignName     string                  `json:"campaign_name"`
	Provider         model.ProviderType      `json:"provider"`
}

// SendBulkMessages runs a whole campaign inside the request. Recipient
// failures are expected outcomes reported through the counts, so the
// endpoint answers 200 even when every single send failed; only a
// missing provider or a storage fault makes the request itself fail.
func (c *MessageController) SendBulkMessages(w http.ResponseWriter, r *http.Request) {
	var body bulkSendBody
	if !decodeJSON(w, r, &body) {
		return
	}
	if len(body.Recipients) == 0 {
		writeDetail(w, http.StatusBadRequest, "recipients must not be empty")
		return
	}
	if body.MessageBody == "" {
		writeDetail(w, http.StatusBadRequest, "message_body is required")
		return
	}

	result, err := c.Dispatch.SendBulk(r.Context(), service.BulkSendRequest{
		Recipients:       body.Recipients,
		MessageBody:      body.MessageBody,
		MediaAttachments: body.MediaAttachments,
		CampaignName:     body.CampaignName,
		Provider:         body.Provider,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		service.BulkSendResult
	}{true, *result})
}

// ListMessages pages through the send log, optionally narrowed to one
// campaign or status.
func (c *MessageController) ListMessages(w http.ResponseWriter, r *http.Request) {
	filter := repository.MessageFilter{
		CampaignID: r.URL.Query().Get("campaign_id"),
		Limit:      queryInt64(r, "limit", 50),
		Skip:       queryInt64(r, "skip", 0),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := model.ParseMessageStatus(raw)
		if !ok {
			writeDetail(w, http.StatusBadRequest, "unknown message status "+raw)
			return
		}
		filter.Status = status
	}

	messages, total, err := c.MessageRepo.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messages": messages,
		"total":    total,
		"limit":    filter.Limit,
		"skip":     filter.Skip,
	})
}

// splitMediaURLs turns the form's comma separated URL list into a
// slice, dropping empty entries.
func splitMediaURLs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}

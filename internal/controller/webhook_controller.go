// internal/controller/webhook_controller.go
package controller

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/wasendio/wasend-backend/internal/model"
	"github.com/wasendio/wasend-backend/internal/repository"
)

// WebhookController ingests delivery status callbacks from the
// provider. It always acknowledges with 200: a non-2xx answer would make
// the provider retry the callback, so problems are logged and reported
// in the response body only.
type WebhookController struct {
	MessageRepo repository.MessageRepositoryInterface
	Logger      *slog.Logger
}

// StatusCallback handles the form encoded status webhook Twilio posts
// for every message. Delivered and read stamp their timestamps on the
// matching message; failed and undelivered record the error code.
func (c *WebhookController) StatusCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		c.Logger.Error("webhook form unreadable", "error", err)
		ackError(w, "unreadable form payload")
		return
	}

	sid := r.FormValue("MessageSid")
	rawStatus := r.FormValue("MessageStatus")
	if sid == "" || rawStatus == "" {
		c.Logger.Warn("webhook missing fields", "message_sid", sid, "message_status", rawStatus)
		ackError(w, "MessageSid and MessageStatus are required")
		return
	}

	status, ok := model.ParseMessageStatus(rawStatus)
	if !ok {
		c.Logger.Warn("webhook carried unknown status", "message_sid", sid, "message_status", rawStatus)
		ackError(w, "unknown message status "+rawStatus)
		return
	}

	var errorCode *int
	if raw := r.FormValue("ErrorCode"); raw != "" {
		if code, err := strconv.Atoi(raw); err == nil {
			errorCode = &code
		}
	}

	matched, err := c.MessageRepo.UpdateStatusByProviderID(
		r.Context(), sid, status, errorCode, r.FormValue("ChannelStatusMessage"))
	if err != nil {
		c.Logger.Error("webhook status update failed", "message_sid", sid, "error", err)
		ackError(w, "status update failed")
		return
	}
	if !matched {
		// A callback for a message we never stored. Acknowledged and dropped.
		c.Logger.Warn("webhook matched no message", "message_sid", sid, "status", status)
	} else {
		c.Logger.Info("message status updated", "message_sid", sid, "status", status)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ackError acknowledges a webhook the service could not process.
func ackError(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "error", "detail": detail})
}

// internal/controller/contact_controller.go
package controller

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/wasendio/wasend-backend/internal/service"
)

type ContactController struct {
	ContactService *service.ContactService
}

func (c *ContactController) CreateContact(w http.ResponseWriter, r *http.Request) {
	var body service.ContactInput
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.PhoneNumber == "" {
		writeDetail(w, http.StatusBadRequest, "phone_number is required")
		return
	}

	contact, err := c.ContactService.CreateContact(r.Context(), body)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"contact": contact,
	})
}

func (c *ContactController) ListContacts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt64(r, "limit", 100)
	skip := queryInt64(r, "skip", 0)

	contacts, total, err := c.ContactService.ListContacts(r.Context(), limit, skip)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"contacts": contacts,
		"total":    total,
		"limit":    limit,
		"skip":     skip,
	})
}

// BulkImportContacts loads a JSON array of contacts, skipping entries
// that are already stored or lack a phone number, and reports both
// counts.
func (c *ContactController) BulkImportContacts(w http.ResponseWriter, r *http.Request) {
	var body []service.ContactInput
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := c.ContactService.BulkImport(r.Context(), body)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"added":   result.Added,
		"skipped": result.Skipped,
		"total":   len(body),
	})
}

func (c *ContactController) DeleteContact(w http.ResponseWriter, r *http.Request) {
	// Phone numbers arrive percent encoded ("+" as %2B).
	phone := chi.URLParam(r, "phoneNumber")
	if decoded, err := url.PathUnescape(phone); err == nil {
		phone = decoded
	}

	if err := c.ContactService.DeleteContact(r.Context(), phone); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Contact deleted",
	})
}

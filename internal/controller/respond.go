// internal/controller/respond.go
package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	appErrors "github.com/wasendio/wasend-backend/internal/errors"
	"github.com/wasendio/wasend-backend/internal/provider"
)

// writeJSON writes data with the given status code. By the time encoding
// could fail the status line is already on the wire, so failures are only
// logged.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("controller: encode response: %v", err)
	}
}

// writeDetail writes the {"detail": ...} error envelope every endpoint
// uses for failures.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// decodeJSON reads the request body into dst, answering 400 on bad
// input. A false return means the request has already been answered.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// respondError maps service errors onto HTTP statuses: duplicates to
// 409, unknown entities to 404, rejected input and a missing provider to
// 400, anything unexpected to a generic 500.
func respondError(w http.ResponseWriter, err error) {
	var (
		campaignNotFound *appErrors.ErrCampaignNotFound
		contactNotFound  *appErrors.ErrContactNotFound
		mediaNotFound    *appErrors.ErrMediaNotFound
		fileTooLarge     *appErrors.ErrFileTooLarge
		badContentType   *appErrors.ErrUnsupportedContentType
	)

	switch {
	case errors.Is(err, appErrors.ErrContactExists):
		writeDetail(w, http.StatusConflict, err.Error())
	case errors.As(err, &campaignNotFound),
		errors.As(err, &contactNotFound),
		errors.As(err, &mediaNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, provider.ErrNotConfigured),
		errors.Is(err, appErrors.ErrInvalidMediaType),
		errors.Is(err, appErrors.ErrUnsupportedProvider),
		errors.As(err, &fileTooLarge),
		errors.As(err, &badContentType):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("controller: internal error: %v", err)
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

// queryInt64 reads an integer query parameter, falling back on missing
// or unparsable values.
func queryInt64(r *http.Request, name string, fallback int64) int64 {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

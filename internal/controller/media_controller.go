// internal/controller/media_controller.go
package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wasendio/wasend-backend/internal/service"
)

// maxUploadMemory caps how much of a multipart body stays in memory
// before spilling to temp files. Size limits proper are enforced
// per category by the media service.
const maxUploadMemory = 32 << 20

type MediaController struct {
	MediaService *service.MediaService
}

// UploadMedia accepts a multipart form with a file part and a
// media_type field naming the category the file is validated against.
func (c *MediaController) UploadMedia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	uploaded, err := c.MediaService.Save(
		r.FormValue("media_type"),
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"filename":   header.Filename,
		"media_url":  uploaded.MediaURL,
		"media_type": uploaded.MediaType,
		"file_size":  uploaded.FileSize,
	})
}

// ServeMedia streams a stored upload back by filename.
func (c *MediaController) ServeMedia(w http.ResponseWriter, r *http.Request) {
	path, err := c.MediaService.Resolve(chi.URLParam(r, "filename"))
	if err != nil {
		respondError(w, err)
		return
	}
	http.ServeFile(w, r, path)
}

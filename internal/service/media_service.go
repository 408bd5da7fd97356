// internal/service/media_service.go
package service

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	appErrors "github.com/wasendio/wasend-backend/internal/errors"
	"github.com/wasendio/wasend-backend/internal/model"
)

// Per-category upload rules. WhatsApp caps media at 16MB except images,
// which Twilio limits to 5MB.
type mediaLimit struct {
	maxBytes     int64
	contentTypes []string
}

var mediaLimits = map[model.MediaType]mediaLimit{
	model.MediaImage: {
		maxBytes:     5 * 1024 * 1024,
		contentTypes: []string{"image/jpeg", "image/png", "image/jpg"},
	},
	model.MediaAudio: {
		maxBytes:     16 * 1024 * 1024,
		contentTypes: []string{"audio/ogg", "audio/mpeg", "audio/mp3"},
	},
	model.MediaVideo: {
		maxBytes:     16 * 1024 * 1024,
		contentTypes: []string{"video/mp4"},
	},
	model.MediaDocument: {
		maxBytes: 16 * 1024 * 1024,
		contentTypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
	},
}

type MediaService struct {
	Dir    string
	Logger *slog.Logger
}

// UploadedMedia describes a stored upload. MediaURL is the API path the
// file is served from and what send requests reference.
type UploadedMedia struct {
	MediaURL    string          `json:"media_url"`
	MediaType   model.MediaType `json:"media_type"`
	Filename    string          `json:"filename"`
	FileSize    int64           `json:"file_size"`
	ContentType string          `json:"content_type"`
}

// Save validates an upload against its category's size cap and content
// type allowlist, then stores it under a random filename that keeps the
// original extension.
func (s *MediaService) Save(mediaType, originalName, contentType string, r io.Reader) (*UploadedMedia, error) {
	mt, ok := model.ParseMediaType(mediaType)
	if !ok {
		return nil, appErrors.ErrInvalidMediaType
	}
	limit := mediaLimits[mt]

	if !allowedContentType(limit.contentTypes, contentType) {
		return nil, appErrors.NewUnsupportedContentType(contentType, mediaType)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, limit.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if n > limit.maxBytes {
		return nil, appErrors.NewFileTooLarge(limit.maxBytes)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, name), buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	s.Logger.Info("media stored", "filename", name, "media_type", mt, "size", n)

	return &UploadedMedia{
		MediaURL:    "/api/media/" + name,
		MediaType:   mt,
		Filename:    name,
		FileSize:    n,
		ContentType: contentType,
	}, nil
}

// Resolve maps a stored filename to its path on disk. Names that try to
// step outside the upload dir are treated as missing.
func (s *MediaService) Resolve(filename string) (string, error) {
	if filename == "" ||
		strings.ContainsAny(filename, `/\`) ||
		strings.Contains(filename, "..") {
		return "", appErrors.NewMediaNotFound(filename)
	}

	path := filepath.Join(s.Dir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", appErrors.NewMediaNotFound(filename)
	}
	return path, nil
}

func allowedContentType(allowed []string, contentType string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, contentType) {
			return true
		}
	}
	return false
}

// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services and controllers.
var (
	// ErrContactExists is returned when a contact with the same phone
	// number is already stored.
	ErrContactExists = errors.New("contact with this phone number already exists")

	// ErrInvalidMediaType is returned for media categories outside
	// image, audio, video and document.
	ErrInvalidMediaType = errors.New("invalid media type")

	// ErrUnsupportedProvider is returned when a settings update names a
	// provider the service cannot drive yet.
	ErrUnsupportedProvider = errors.New("only the twilio provider is currently supported")
)

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %s not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id string) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrContactNotFound is a sentinel error
type ErrContactNotFound struct {
	PhoneNumber string
}

func (e *ErrContactNotFound) Error() string {
	return fmt.Sprintf("contact with phone number %s not found", e.PhoneNumber)
}

// Helper constructor
func NewContactNotFound(phone string) error {
	return &ErrContactNotFound{PhoneNumber: phone}
}

// ErrMediaNotFound is a sentinel error
type ErrMediaNotFound struct {
	Filename string
}

func (e *ErrMediaNotFound) Error() string {
	return fmt.Sprintf("media file %s not found", e.Filename)
}

// Helper constructor
func NewMediaNotFound(filename string) error {
	return &ErrMediaNotFound{Filename: filename}
}

// ErrFileTooLarge reports an upload over the per-category size cap.
type ErrFileTooLarge struct {
	MaxBytes int64
}

func (e *ErrFileTooLarge) Error() string {
	return fmt.Sprintf("file too large, maximum size is %d bytes", e.MaxBytes)
}

func NewFileTooLarge(maxBytes int64) error {
	return &ErrFileTooLarge{MaxBytes: maxBytes}
}

// ErrUnsupportedContentType reports an upload whose content type is not
// allowed for the requested media category.
type ErrUnsupportedContentType struct {
	ContentType string
	MediaType   string
}

func (e *ErrUnsupportedContentType) Error() string {
	return fmt.Sprintf("invalid content type %s for media type %s", e.ContentType, e.MediaType)
}

func NewUnsupportedContentType(contentType, mediaType string) error {
	return &ErrUnsupportedContentType{ContentType: contentType, MediaType: mediaType}
}

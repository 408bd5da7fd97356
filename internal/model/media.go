// internal/model/media.go
package model

type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaAudio    MediaType = "audio"
	MediaVideo    MediaType = "video"
	MediaDocument MediaType = "document"
)

// ParseMediaType validates a media category received from a client.
func ParseMediaType(s string) (MediaType, bool) {
	switch MediaType(s) {
	case MediaImage, MediaAudio, MediaVideo, MediaDocument:
		return MediaType(s), true
	}
	return "", false
}

type MediaAttachment struct {
	MediaType MediaType `bson:"media_type,omitempty" json:"media_type,omitempty"`
	MediaURL  string    `bson:"media_url" json:"media_url"`
	Filename  string    `bson:"filename,omitempty" json:"filename,omitempty"`
	FileSize  int64     `bson:"file_size,omitempty" json:"file_size,omitempty"`
}

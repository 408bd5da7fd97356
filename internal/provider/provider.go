// internal/provider/provider.go
package provider

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no messaging provider has been set up
// yet, either from the environment or through the settings API.
var ErrNotConfigured = errors.New("messaging provider not configured")

// SendResult is the normalized outcome of a successful provider dispatch.
type SendResult struct {
	MessageID string
	Status    string
}

// Sender dispatches a single WhatsApp message through a messaging
// provider. Implementations must be safe for concurrent use.
type Sender interface {
	// Send delivers body (and optional media) to the given phone number
	// and returns the provider's message id and initial status.
	Send(ctx context.Context, to, body string, mediaURLs []string) (*SendResult, error)

	// Identity returns the sender number this sender dispatches from.
	// Rate limiting is keyed by this value.
	Identity() string
}

// internal/model/message.go
package model

import "time"

type MessageStatus string

const (
	MessageQueued      MessageStatus = "queued"
	MessageSent        MessageStatus = "sent"
	MessageDelivered   MessageStatus = "delivered"
	MessageRead        MessageStatus = "read"
	MessageFailed      MessageStatus = "failed"
	MessageUndelivered MessageStatus = "undelivered"
)

// ParseMessageStatus maps a provider status string onto a known message
// status. The boolean is false for statuses we do not track.
func ParseMessageStatus(s string) (MessageStatus, bool) {
	switch MessageStatus(s) {
	case MessageQueued, MessageSent, MessageDelivered, MessageRead, MessageFailed, MessageUndelivered:
		return MessageStatus(s), true
	}
	return "", false
}

type Message struct {
	ID                string            `bson:"id" json:"id"`
	RecipientPhone    string            `bson:"recipient_phone" json:"recipient_phone"`
	MessageBody       string            `bson:"message_body" json:"message_body"`
	MediaAttachments  []MediaAttachment `bson:"media_attachments" json:"media_attachments"`
	SenderNumber      string            `bson:"sender_number" json:"sender_number"`
	Provider          ProviderType      `bson:"provider" json:"provider"`
	CampaignID        string            `bson:"campaign_id,omitempty" json:"campaign_id,omitempty"`
	ProviderMessageID string            `bson:"provider_message_id,omitempty" json:"provider_message_id,omitempty"`
	Status            MessageStatus     `bson:"status" json:"status"`
	ErrorCode         *int              `bson:"error_code,omitempty" json:"error_code,omitempty"`
	ErrorMessage      string            `bson:"error_message,omitempty" json:"error_message,omitempty"`
	CreatedAt         time.Time         `bson:"created_at" json:"created_at"`
	SentAt            *time.Time        `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
	DeliveredAt       *time.Time        `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	ReadAt            *time.Time        `bson:"read_at,omitempty" json:"read_at,omitempty"`
}

// internal/model/campaign.go
package model

import "time"

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSending   CampaignStatus = "sending"
	CampaignCompleted CampaignStatus = "completed"
	CampaignFailed    CampaignStatus = "failed"
)

type Campaign struct {
	ID               string            `bson:"id" json:"id"`
	Name             string            `bson:"name" json:"name"`
	MessageBody      string            `bson:"message_body" json:"message_body"`
	MediaAttachments []MediaAttachment `bson:"media_attachments" json:"media_attachments"`
	Recipients       []string          `bson:"recipients" json:"recipients"`
	Provider         ProviderType      `bson:"provider" json:"provider"`
	Status           CampaignStatus    `bson:"status" json:"status"`
	ScheduledAt      *time.Time        `bson:"scheduled_at,omitempty" json:"scheduled_at,omitempty"`
	CreatedAt        time.Time         `bson:"created_at" json:"created_at"`
	SentAt           *time.Time        `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
	CompletedAt      *time.Time        `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	TotalRecipients  int               `bson:"total_recipients" json:"total_recipients"`
	SuccessfulSends  int               `bson:"successful_sends" json:"successful_sends"`
	FailedSends      int               `bson:"failed_sends" json:"failed_sends"`
}

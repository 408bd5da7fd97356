// internal/model/provider.go
package model

import "time"

type ProviderType string

const (
	ProviderTwilio  ProviderType = "twilio"
	ProviderBaileys ProviderType = "baileys"
)

// ProviderConfig holds messaging provider credentials saved through the
// settings API. AuthToken is stored but never serialized back to clients.
type ProviderConfig struct {
	Provider       ProviderType `bson:"provider" json:"provider"`
	AccountSID     string       `bson:"account_sid" json:"account_sid"`
	AuthToken      string       `bson:"auth_token" json:"-"`
	WhatsAppNumber string       `bson:"whatsapp_number" json:"whatsapp_number"`
	IsActive       bool         `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time    `bson:"created_at" json:"created_at"`
}

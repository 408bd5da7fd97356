// internal/service/settings_service.go
package service

import (
	"context"
	"log/slog"
	"time"

	appErrors "github.com/wasendio/wasend-backend/internal/errors"
	"github.com/wasendio/wasend-backend/internal/model"
	"github.com/wasendio/wasend-backend/internal/provider"
	"github.com/wasendio/wasend-backend/internal/repository"
)

// SettingsService persists provider credentials and keeps the live
// sender registry in step with them.
type SettingsService struct {
	ConfigRepo        repository.ProviderConfigRepositoryInterface
	Registry          *provider.Registry
	StatusCallbackURL string
	Logger            *slog.Logger
}

// ProviderConfigInput is a credentials update from the settings API.
type ProviderConfigInput struct {
	Provider       model.ProviderType `json:"provider"`
	AccountSID     string             `json:"account_sid"`
	AuthToken      string             `json:"auth_token"`
	WhatsAppNumber string             `json:"whatsapp_number"`
}

// ConfigureProvider stores the credentials and swaps the live sender so
// the change takes effect without a restart.
func (s *SettingsService) ConfigureProvider(ctx context.Context, in ProviderConfigInput) (*model.ProviderConfig, error) {
	if in.Provider != model.ProviderTwilio {
		return nil, appErrors.ErrUnsupportedProvider
	}

	cfg := &model.ProviderConfig{
		Provider:       in.Provider,
		AccountSID:     in.AccountSID,
		AuthToken:      in.AuthToken,
		WhatsAppNumber: in.WhatsAppNumber,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.ConfigRepo.Upsert(ctx, cfg); err != nil {
		return nil, err
	}

	s.Registry.Configure(provider.NewTwilioSender(
		cfg.AccountSID, cfg.AuthToken, cfg.WhatsAppNumber, s.StatusCallbackURL))
	s.Logger.Info("provider configured", "provider", cfg.Provider, "sender", cfg.WhatsAppNumber)

	return cfg, nil
}

func (s *SettingsService) ListProviders(ctx context.Context) ([]*model.ProviderConfig, error) {
	return s.ConfigRepo.List(ctx)
}

// Bootstrap installs a sender at startup: environment credentials first,
// then any stored active config on top, so a config saved through the
// API survives restarts.
func (s *SettingsService) Bootstrap(ctx context.Context, accountSID, authToken, whatsappNumber string) error {
	if accountSID != "" && authToken != "" {
		s.Registry.Configure(provider.NewTwilioSender(
			accountSID, authToken, whatsappNumber, s.StatusCallbackURL))
		s.Logger.Info("provider configured from environment", "sender", whatsappNumber)
	}

	stored, err := s.ConfigRepo.GetActive(ctx, model.ProviderTwilio)
	if err != nil {
		return err
	}
	if stored != nil {
		s.Registry.Configure(provider.NewTwilioSender(
			stored.AccountSID, stored.AuthToken, stored.WhatsAppNumber, s.StatusCallbackURL))
		s.Logger.Info("stored provider config applied", "sender", stored.WhatsAppNumber)
	}
	return nil
}

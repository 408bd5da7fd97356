// internal/service/dispatch_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wasendio/wasend-backend/internal/model"
	"github.com/wasendio/wasend-backend/internal/provider"
	"github.com/wasendio/wasend-backend/internal/ratelimit"
	"github.com/wasendio/wasend-backend/internal/repository"
)

// sendBackoff is how long a send waits after the rate limiter rejects
// it. The send then proceeds regardless; throttling is best effort and
// never drops a message.
const sendBackoff = 500 * time.Millisecond

// DispatchService pushes messages through the configured provider. Bulk
// sends run strictly sequentially so the limiter stays the single point
// of admission and provider-side ordering matches the recipient list.
type DispatchService struct {
	Registry     *provider.Registry
	Limiter      *ratelimit.Limiter
	CampaignRepo repository.CampaignRepositoryInterface
	MessageRepo  repository.MessageRepositoryInterface
	Logger       *slog.Logger

	sleep func(time.Duration)
}

func NewDispatchService(
	registry *provider.Registry,
	limiter *ratelimit.Limiter,
	campaignRepo repository.CampaignRepositoryInterface,
	messageRepo repository.MessageRepositoryInterface,
	logger *slog.Logger,
) *DispatchService {
	return &DispatchService{
		Registry:     registry,
		Limiter:      limiter,
		CampaignRepo: campaignRepo,
		MessageRepo:  messageRepo,
		Logger:       logger,
		sleep:        time.Sleep,
	}
}

// BulkSendRequest carries one campaign's worth of recipients.
type BulkSendRequest struct {
	Recipients       []string
	MessageBody      string
	MediaAttachments []model.MediaAttachment
	CampaignName     string
	Provider         model.ProviderType
}

// Result struct for SendBulk
type BulkSendResult struct {
	CampaignID      string               `json:"campaign_id"`
	TotalRecipients int                  `json:"total_recipients"`
	Successful      int                  `json:"successful"`
	Failed          int                  `json:"failed"`
	Status          model.CampaignStatus `json:"status"`
}

// SendDirect performs one provider dispatch guarded by the rate limiter.
// On rejection it backs off once and then sends anyway.
func (s *DispatchService) SendDirect(ctx context.Context, to, body string, mediaURLs []string) (*provider.SendResult, error) {
	sender, ok := s.Registry.Current()
	if !ok {
		return nil, provider.ErrNotConfigured
	}

	if !s.Limiter.Allow(sender.Identity()) {
		s.Logger.Warn("rate limit reached, backing off",
			"sender", sender.Identity(), "backoff", sendBackoff)
		s.sleep(sendBackoff)
	}

	return sender.Send(ctx, to, body, mediaURLs)
}

// SendSingle dispatches one ad-hoc message and records it. A provider
// failure surfaces to the caller and leaves no message record.
func (s *DispatchService) SendSingle(ctx context.Context, to, body string, mediaURLs []string) (*model.Message, error) {
	// A message the provider accepted must be recorded, so the send does
	// not stop on caller cancellation.
	ctx = context.WithoutCancel(ctx)

	res, err := s.SendDirect(ctx, to, body, mediaURLs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg := &model.Message{
		ID:                uuid.NewString(),
		RecipientPhone:    to,
		MessageBody:       body,
		MediaAttachments:  attachmentsFromURLs(mediaURLs),
		SenderNumber:      s.Registry.Identity(),
		Provider:          model.ProviderTwilio,
		ProviderMessageID: res.MessageID,
		Status:            model.MessageSent,
		CreatedAt:         now,
		SentAt:            &now,
	}
	if err := s.MessageRepo.Insert(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// SendBulk creates a campaign for the batch and dispatches it to every
// recipient in order. The provider must be configured before anything is
// written; once the loop starts, per-recipient failures are recorded and
// counted but never abort the batch.
func (s *DispatchService) SendBulk(ctx context.Context, req BulkSendRequest) (*BulkSendResult, error) {
	if !s.Registry.Configured() {
		return nil, provider.ErrNotConfigured
	}

	// The batch runs to completion once started; a client disconnect must
	// not strand the campaign in sending state.
	ctx = context.WithoutCancel(ctx)

	now := time.Now().UTC()
	name := req.CampaignName
	if name == "" {
		name = fmt.Sprintf("Campaign %s", now.Format("2006-01-02 15:04"))
	}
	prov := req.Provider
	if prov == "" {
		prov = model.ProviderTwilio
	}

	campaign := &model.Campaign{
		ID:               uuid.NewString(),
		Name:             name,
		MessageBody:      req.MessageBody,
		MediaAttachments: req.MediaAttachments,
		Recipients:       req.Recipients,
		Provider:         prov,
		Status:           model.CampaignSending,
		CreatedAt:        now,
		SentAt:           &now,
		TotalRecipients:  len(req.Recipients),
	}
	if err := s.CampaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}

	return s.runCampaign(ctx, campaign)
}

// runCampaign drives the per-recipient loop for a campaign already in
// sending state. Storage failures abort the run; the campaign is then
// left partially dispatched, which the caller surfaces as a server error.
func (s *DispatchService) runCampaign(ctx context.Context, c *model.Campaign) (*BulkSendResult, error) {
	successful, failed := 0, 0
	mediaURLs := urlsFromAttachments(c.MediaAttachments)

	for _, recipient := range c.Recipients {
		res, err := s.SendDirect(ctx, recipient, c.MessageBody, mediaURLs)
		now := time.Now().UTC()

		msg := &model.Message{
			ID:               uuid.NewString(),
			RecipientPhone:   recipient,
			MessageBody:      c.MessageBody,
			MediaAttachments: c.MediaAttachments,
			SenderNumber:     s.Registry.Identity(),
			Provider:         c.Provider,
			CampaignID:       c.ID,
			CreatedAt:        now,
		}
		if err != nil {
			s.Logger.Error("send failed",
				"campaign", c.ID, "recipient", recipient, "error", err)
			msg.Status = model.MessageFailed
			msg.ErrorMessage = err.Error()
			failed++
		} else {
			msg.Status = model.MessageSent
			msg.ProviderMessageID = res.MessageID
			msg.SentAt = &now
			successful++
		}

		if err := s.MessageRepo.Insert(ctx, msg); err != nil {
			return nil, fmt.Errorf("record message for %s: %w", recipient, err)
		}
	}

	if err := s.CampaignRepo.Complete(ctx, c.ID, successful, failed); err != nil {
		return nil, err
	}

	s.Logger.Info("campaign dispatched",
		"campaign", c.ID, "total", c.TotalRecipients,
		"successful", successful, "failed", failed)

	return &BulkSendResult{
		CampaignID:      c.ID,
		TotalRecipients: c.TotalRecipients,
		Successful:      successful,
		Failed:          failed,
		Status:          model.CampaignCompleted,
	}, nil
}

func attachmentsFromURLs(urls []string) []model.MediaAttachment {
	attachments := make([]model.MediaAttachment, 0, len(urls))
	for _, u := range urls {
		attachments = append(attachments, model.MediaAttachment{MediaURL: u})
	}
	return attachments
}

func urlsFromAttachments(attachments []model.MediaAttachment) []string {
	urls := make([]string, 0, len(attachments))
	for _, a := range attachments {
		if a.MediaURL != "" {
			urls = append(urls, a.MediaURL)
		}
	}
	return urls
}

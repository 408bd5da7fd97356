// internal/service/campaign_service.go
package service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/wasendio/wasend-backend/internal/model"
	"github.com/wasendio/wasend-backend/internal/repository"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	MessageRepo  repository.MessageRepositoryInterface
	Logger       *slog.Logger
}

// CreateCampaignRequest carries the fields a client may set on a new
// campaign. A scheduled_at in the payload makes the campaign scheduled;
// otherwise it stays a draft until sent.
type CreateCampaignRequest struct {
	Name             string
	MessageBody      string
	MediaAttachments []model.MediaAttachment
	Recipients       []string
	Provider         model.ProviderType
	ScheduledAt      *time.Time
}

type CampaignStatusReport struct {
	CampaignID      string                        `json:"campaign_id"`
	CampaignStatus  model.CampaignStatus          `json:"campaign_status"`
	TotalMessages   int64                         `json:"total_messages"`
	StatusBreakdown map[model.MessageStatus]int64 `json:"status_breakdown"`
	DeliveryRate    float64                       `json:"delivery_rate"`
}

func (s *CampaignService) CreateCampaign(ctx context.Context, req CreateCampaignRequest) (*model.Campaign, error) {
	status := model.CampaignDraft
	if req.ScheduledAt != nil {
		status = model.CampaignScheduled
	}
	prov := req.Provider
	if prov == "" {
		prov = model.ProviderTwilio
	}

	c := &model.Campaign{
		ID:               uuid.NewString(),
		Name:             req.Name,
		MessageBody:      req.MessageBody,
		MediaAttachments: req.MediaAttachments,
		Recipients:       req.Recipients,
		Provider:         prov,
		Status:           status,
		ScheduledAt:      req.ScheduledAt,
		CreatedAt:        time.Now().UTC(),
		TotalRecipients:  len(req.Recipients),
	}
	if err := s.CampaignRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Info("campaign created", "campaign", c.ID, "status", c.Status)
	return c, nil
}

// ListCampaigns fetches campaigns with pagination
func (s *CampaignService) ListCampaigns(ctx context.Context, limit, skip int64) ([]*model.Campaign, int64, error) {
	if limit < 1 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	if skip < 0 {
		skip = 0
	}
	return s.CampaignRepo.List(ctx, limit, skip)
}

// GetCampaign fetches a campaign by ID
func (s *CampaignService) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	return s.CampaignRepo.GetByID(ctx, id)
}

// GetCampaignStatus reports the per-status message breakdown for a
// campaign. Delivery rate counts delivered and read messages against
// everything sent in the campaign.
func (s *CampaignService) GetCampaignStatus(ctx context.Context, id string) (*CampaignStatusReport, error) {
	campaign, err := s.CampaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := s.MessageRepo.StatusCounts(ctx, id)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	return &CampaignStatusReport{
		CampaignID:      campaign.ID,
		CampaignStatus:  campaign.Status,
		TotalMessages:   total,
		StatusBreakdown: counts,
		DeliveryRate:    deliveryRate(counts[model.MessageDelivered]+counts[model.MessageRead], total),
	}, nil
}

// deliveryRate is the percentage of delivered messages out of total,
// rounded to two decimals. Zero total means zero rate.
func deliveryRate(delivered, total int64) float64 {
	if total == 0 {
		return 0
	}
	rate := float64(delivered) / float64(total) * 100
	return math.Round(rate*100) / 100
}

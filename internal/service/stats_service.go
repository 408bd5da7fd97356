// internal/service/stats_service.go
package service

import (
	"context"

	"github.com/wasendio/wasend-backend/internal/model"
	"github.com/wasendio/wasend-backend/internal/repository"
)

type StatsService struct {
	ContactRepo  repository.ContactRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
	MessageRepo  repository.MessageRepositoryInterface
}

type DashboardStats struct {
	TotalContacts     int64             `json:"total_contacts"`
	TotalCampaigns    int64             `json:"total_campaigns"`
	TotalMessages     int64             `json:"total_messages"`
	DeliveredMessages int64             `json:"delivered_messages"`
	FailedMessages    int64             `json:"failed_messages"`
	DeliveryRate      float64           `json:"delivery_rate"`
	RecentCampaigns   []*model.Campaign `json:"recent_campaigns"`
}

// Dashboard gathers the headline numbers plus the five most recent
// campaigns. Read messages count toward the delivery rate since read
// implies delivered.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	totalContacts, err := s.ContactRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalCampaigns, err := s.CampaignRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalMessages, err := s.MessageRepo.Count(ctx, "")
	if err != nil {
		return nil, err
	}
	delivered, err := s.MessageRepo.Count(ctx, model.MessageDelivered)
	if err != nil {
		return nil, err
	}
	read, err := s.MessageRepo.Count(ctx, model.MessageRead)
	if err != nil {
		return nil, err
	}
	failed, err := s.MessageRepo.Count(ctx, model.MessageFailed)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.CampaignRepo.List(ctx, 5, 0)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalContacts:     totalContacts,
		TotalCampaigns:    totalCampaigns,
		TotalMessages:     totalMessages,
		DeliveredMessages: delivered,
		FailedMessages:    failed,
		DeliveryRate:      deliveryRate(delivered+read, totalMessages),
		RecentCampaigns:   recent,
	}, nil
}

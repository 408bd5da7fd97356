// internal/service/scheduler.go
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wasendio/wasend-backend/internal/repository"
)

const (
	defaultPollInterval = 30 * time.Second
	dueBatchSize        = 20
)

// Scheduler polls for scheduled campaigns whose time has come and runs
// them through the dispatcher, inside the same process so rate limiting
// keeps a single enforcement point.
type Scheduler struct {
	Dispatch     *DispatchService
	CampaignRepo repository.CampaignRepositoryInterface
	Logger       *slog.Logger
	Interval     time.Duration

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}

	now func() time.Time
}

func NewScheduler(dispatch *DispatchService, campaignRepo repository.CampaignRepositoryInterface, logger *slog.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Scheduler{
		Dispatch:     dispatch,
		CampaignRepo: campaignRepo,
		Logger:       logger,
		Interval:     interval,
		now:          time.Now,
	}
}

// Start launches the polling loop. Calling Start on a running scheduler
// is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})

	ticker := time.NewTicker(s.Interval)
	go func(t *time.Ticker, stop <-chan struct{}) {
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.tick(context.Background())
			case <-stop:
				return
			}
		}
	}(ticker, s.stopChan)

	s.Logger.Info("campaign scheduler started", "interval", s.Interval)
}

// Stop halts the polling loop. A tick already in flight finishes.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	close(s.stopChan)
	s.running = false

	s.Logger.Info("campaign scheduler stopped")
}

// tick claims and dispatches every due scheduled campaign. The claim is
// a conditional status flip, so a campaign dispatches at most once even
// with several server instances polling.
func (s *Scheduler) tick(ctx context.Context) {
	due, err := s.CampaignRepo.FindDueScheduled(ctx, s.now().UTC(), dueBatchSize)
	if err != nil {
		s.Logger.Error("scheduled campaign lookup failed", "error", err)
		return
	}
	if len(due) == 0 {
		return
	}

	// Claiming flips scheduled to sending and never flips back, so due
	// campaigns stay scheduled until a provider can actually send them.
	if !s.Dispatch.Registry.Configured() {
		s.Logger.Warn("due campaigns held, no provider configured", "count", len(due))
		return
	}

	for _, campaign := range due {
		claimed, err := s.CampaignRepo.MarkSending(ctx, campaign.ID, s.now().UTC())
		if err != nil {
			s.Logger.Error("claim failed", "campaign", campaign.ID, "error", err)
			continue
		}
		if !claimed {
			continue
		}

		s.Logger.Info("dispatching scheduled campaign",
			"campaign", campaign.ID, "recipients", len(campaign.Recipients))

		result, err := s.Dispatch.runCampaign(ctx, campaign)
		if err != nil {
			s.Logger.Error("scheduled campaign dispatch failed",
				"campaign", campaign.ID, "error", err)
			continue
		}
		s.Logger.Info("scheduled campaign completed",
			"campaign", result.CampaignID,
			"successful", result.Successful, "failed", result.Failed)
	}
}

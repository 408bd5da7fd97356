// internal/service/fakes_test.go
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	appErrors "github.com/wasendio/wasend-backend/internal/errors"
	"github.com/wasendio/wasend-backend/internal/model"
	"github.com/wasendio/wasend-backend/internal/provider"
	"github.com/wasendio/wasend-backend/internal/ratelimit"
	"github.com/wasendio/wasend-backend/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---------- fake sender ----------

type fakeSender struct {
	mu      sync.Mutex
	from    string
	failFor map[string]error
	calls   []string
	nextSid int
}

func newFakeSender(from string) *fakeSender {
	return &fakeSender{from: from, failFor: map[string]error{}}
}

func (f *fakeSender) Send(_ context.Context, to, _ string, _ []string) (*provider.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, to)
	if err, ok := f.failFor[to]; ok {
		return nil, err
	}
	f.nextSid++
	return &provider.SendResult{MessageID: fmt.Sprintf("SM%03d", f.nextSid), Status: "queued"}, nil
}

func (f *fakeSender) Identity() string { return f.from }

func (f *fakeSender) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// ---------- in-memory campaign repo ----------

type memCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[string]*model.Campaign
	order     []string
	denyClaim bool
}

func newMemCampaignRepo() *memCampaignRepo {
	return &memCampaignRepo{campaigns: map[string]*model.Campaign{}}
}

func (m *memCampaignRepo) Create(_ context.Context, c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *c
	m.campaigns[c.ID] = &stored
	m.order = append(m.order, c.ID)
	return nil
}

func (m *memCampaignRepo) List(_ context.Context, limit, skip int64) ([]*model.Campaign, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	newestFirst := make([]*model.Campaign, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		newestFirst = append(newestFirst, m.campaigns[m.order[i]])
	}
	total := int64(len(newestFirst))
	if skip >= total {
		return []*model.Campaign{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return newestFirst[skip:end], total, nil
}

func (m *memCampaignRepo) GetByID(_ context.Context, id string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return c, nil
}

func (m *memCampaignRepo) Complete(_ context.Context, id string, successful, failed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	now := time.Now().UTC()
	c.SuccessfulSends = successful
	c.FailedSends = failed
	c.Status = model.CampaignCompleted
	c.CompletedAt = &now
	return nil
}

func (m *memCampaignRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.campaigns)), nil
}

func (m *memCampaignRepo) FindDueScheduled(_ context.Context, now time.Time, limit int64) ([]*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	due := []*model.Campaign{}
	for _, id := range m.order {
		c := m.campaigns[id]
		if c.Status == model.CampaignScheduled && c.ScheduledAt != nil && !c.ScheduledAt.After(now) {
			due = append(due, c)
		}
		if int64(len(due)) == limit {
			break
		}
	}
	return due, nil
}

func (m *memCampaignRepo) MarkSending(_ context.Context, id string, sentAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.denyClaim {
		return false, nil
	}
	c, ok := m.campaigns[id]
	if !ok || c.Status != model.CampaignScheduled {
		return false, nil
	}
	c.Status = model.CampaignSending
	c.SentAt = &sentAt
	return true, nil
}

var _ repository.CampaignRepositoryInterface = (*memCampaignRepo)(nil)

// ---------- in-memory message repo ----------

type memMessageRepo struct {
	mu        sync.Mutex
	messages  []*model.Message
	failPhone string
	failErr   error
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{}
}

func (m *memMessageRepo) Insert(_ context.Context, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPhone != "" && msg.RecipientPhone == m.failPhone {
		return m.failErr
	}
	stored := *msg
	m.messages = append(m.messages, &stored)
	return nil
}

func (m *memMessageRepo) List(_ context.Context, f repository.MessageFilter) ([]*model.Message, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := []*model.Message{}
	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		if f.CampaignID != "" && msg.CampaignID != f.CampaignID {
			continue
		}
		if f.Status != "" && msg.Status != f.Status {
			continue
		}
		matched = append(matched, msg)
	}
	total := int64(len(matched))
	if f.Skip >= total {
		return []*model.Message{}, total, nil
	}
	end := f.Skip + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}
	return matched[f.Skip:end], total, nil
}

func (m *memMessageRepo) UpdateStatusByProviderID(_ context.Context, providerMessageID string, status model.MessageStatus, errorCode *int, providerNote string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.ProviderMessageID != providerMessageID {
			continue
		}
		msg.Status = status
		now := time.Now().UTC()
		switch status {
		case model.MessageDelivered:
			msg.DeliveredAt = &now
		case model.MessageRead:
			msg.ReadAt = &now
		case model.MessageFailed, model.MessageUndelivered:
			msg.ErrorCode = errorCode
			if providerNote != "" {
				msg.ErrorMessage = providerNote
			}
		}
		return true, nil
	}
	return false, nil
}

func (m *memMessageRepo) Count(_ context.Context, status model.MessageStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if status == "" {
		return int64(len(m.messages)), nil
	}
	var n int64
	for _, msg := range m.messages {
		if msg.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *memMessageRepo) StatusCounts(_ context.Context, campaignID string) (map[model.MessageStatus]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[model.MessageStatus]int64{}
	for _, msg := range m.messages {
		if msg.CampaignID == campaignID {
			counts[msg.Status]++
		}
	}
	return counts, nil
}

func (m *memMessageRepo) all() []*model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Message(nil), m.messages...)
}

var _ repository.MessageRepositoryInterface = (*memMessageRepo)(nil)

// ---------- in-memory contact repo ----------

type memContactRepo struct {
	mu       sync.Mutex
	contacts map[string]*model.Contact
	order    []string
}

func newMemContactRepo() *memContactRepo {
	return &memContactRepo{contacts: map[string]*model.Contact{}}
}

func (m *memContactRepo) Create(_ context.Context, c *model.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.contacts[c.PhoneNumber]; exists {
		return appErrors.ErrContactExists
	}
	stored := *c
	m.contacts[c.PhoneNumber] = &stored
	m.order = append(m.order, c.PhoneNumber)
	return nil
}

func (m *memContactRepo) List(_ context.Context, limit, skip int64) ([]*model.Contact, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	newestFirst := make([]*model.Contact, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		newestFirst = append(newestFirst, m.contacts[m.order[i]])
	}
	total := int64(len(newestFirst))
	if skip >= total {
		return []*model.Contact{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return newestFirst[skip:end], total, nil
}

func (m *memContactRepo) DeleteByPhone(_ context.Context, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.contacts[phone]; !ok {
		return appErrors.NewContactNotFound(phone)
	}
	delete(m.contacts, phone)
	for i, p := range m.order {
		if p == phone {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memContactRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.contacts)), nil
}

var _ repository.ContactRepositoryInterface = (*memContactRepo)(nil)

// ---------- in-memory provider config repo ----------

type memConfigRepo struct {
	mu      sync.Mutex
	configs map[model.ProviderType]*model.ProviderConfig
}

func newMemConfigRepo() *memConfigRepo {
	return &memConfigRepo{configs: map[model.ProviderType]*model.ProviderConfig{}}
}

func (m *memConfigRepo) Upsert(_ context.Context, cfg *model.ProviderConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *cfg
	m.configs[cfg.Provider] = &stored
	return nil
}

func (m *memConfigRepo) List(_ context.Context) ([]*model.ProviderConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.ProviderConfig{}
	for _, cfg := range m.configs {
		out = append(out, cfg)
	}
	return out, nil
}

func (m *memConfigRepo) GetActive(_ context.Context, p model.ProviderType) (*model.ProviderConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, ok := m.configs[p]
	if !ok || !cfg.IsActive {
		return nil, nil
	}
	return cfg, nil
}

var _ repository.ProviderConfigRepositoryInterface = (*memConfigRepo)(nil)

// ---------- assembly helper ----------

type dispatchFixture struct {
	dispatch  *DispatchService
	sender    *fakeSender
	registry  *provider.Registry
	campaigns *memCampaignRepo
	messages  *memMessageRepo
	slept     []time.Duration
}

func newDispatchFixture(maxPerSecond int) *dispatchFixture {
	f := &dispatchFixture{
		sender:    newFakeSender("whatsapp:+14155238886"),
		registry:  provider.NewRegistry(),
		campaigns: newMemCampaignRepo(),
		messages:  newMemMessageRepo(),
	}
	f.registry.Configure(f.sender)
	f.dispatch = NewDispatchService(f.registry, ratelimit.New(maxPerSecond), f.campaigns, f.messages, testLogger())
	f.dispatch.sleep = func(d time.Duration) { f.slept = append(f.slept, d) }
	return f
}

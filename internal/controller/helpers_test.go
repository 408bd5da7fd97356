// internal/controller/helpers_test.go
package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wasendio/wasend-backend/internal/controller"
	appErrors "github.com/wasendio/wasend-backend/internal/errors"
	"github.com/wasendio/wasend-backend/internal/model"
	"github.com/wasendio/wasend-backend/internal/provider"
	"github.com/wasendio/wasend-backend/internal/ratelimit"
	"github.com/wasendio/wasend-backend/internal/repository"
	"github.com/wasendio/wasend-backend/internal/service"
)

// In-memory repositories so controller tests drive the full stack below
// the HTTP layer without MongoDB.

// ---------- contacts ----------

type memContacts struct {
	mu      sync.Mutex
	byPhone map[string]*model.Contact
	order   []string
}

func newMemContacts() *memContacts {
	return &memContacts{byPhone: map[string]*model.Contact{}}
}

func (m *memContacts) Create(_ context.Context, c *model.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byPhone[c.PhoneNumber]; exists {
		return appErrors.ErrContactExists
	}
	stored := *c
	m.byPhone[c.PhoneNumber] = &stored
	m.order = append(m.order, c.PhoneNumber)
	return nil
}

func (m *memContacts) List(_ context.Context, limit, skip int64) ([]*model.Contact, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	newestFirst := make([]*model.Contact, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		newestFirst = append(newestFirst, m.byPhone[m.order[i]])
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

func (m *memContacts) DeleteByPhone(_ context.Context, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byPhone[phone]; !ok {
		return appErrors.NewContactNotFound(phone)
	}
	delete(m.byPhone, phone)
	for i, p := range m.order {
		if p == phone {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memContacts) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byPhone)), nil
}

var _ repository.ContactRepositoryInterface = (*memContacts)(nil)

// ---------- campaigns ----------

type memCampaigns struct {
	mu    sync.Mutex
	byID  map[string]*model.Campaign
	order []string
}

func newMemCampaigns() *memCampaigns {
	return &memCampaigns{byID: map[string]*model.Campaign{}}
}

func (m *memCampaigns) Create(_ context.Context, c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *c
	m.byID[c.ID] = &stored
	m.order = append(m.order, c.ID)
	return nil
}

func (m *memCampaigns) List(_ context.Context, limit, skip int64) ([]*model.Campaign, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	newestFirst := make([]*model.Campaign, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		newestFirst = append(newestFirst, m.byID[m.order[i]])
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

func (m *memCampaigns) GetByID(_ context.Context, id string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return c, nil
}

func (m *memCampaigns) Complete(_ context.Context, id string, successful, failed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
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

func (m *memCampaigns) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

func (m *memCampaigns) FindDueScheduled(_ context.Context, now time.Time, limit int64) ([]*model.Campaign, error) {
	return []*model.Campaign{}, nil
}

func (m *memCampaigns) MarkSending(_ context.Context, id string, sentAt time.Time) (bool, error) {
	return false, nil
}

var _ repository.CampaignRepositoryInterface = (*memCampaigns)(nil)

// ---------- messages ----------

type memMessages struct {
	mu       sync.Mutex
	messages []*model.Message
}

func newMemMessages() *memMessages {
	return &memMessages{}
}

func (m *memMessages) Insert(_ context.Context, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *msg
	m.messages = append(m.messages, &stored)
	return nil
}

func (m *memMessages) List(_ context.Context, f repository.MessageFilter) ([]*model.Message, int64, error) {
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

func (m *memMessages) UpdateStatusByProviderID(_ context.Context, providerMessageID string, status model.MessageStatus, errorCode *int, providerNote string) (bool, error) {
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

func (m *memMessages) Count(_ context.Context, status model.MessageStatus) (int64, error) {
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

func (m *memMessages) StatusCounts(_ context.Context, campaignID string) (map[model.MessageStatus]int64, error) {
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

func (m *memMessages) all() []*model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Message(nil), m.messages...)
}

var _ repository.MessageRepositoryInterface = (*memMessages)(nil)

// ---------- provider configs ----------

type memConfigs struct {
	mu      sync.Mutex
	configs map[model.ProviderType]*model.ProviderConfig
}

func newMemConfigs() *memConfigs {
	return &memConfigs{configs: map[model.ProviderType]*model.ProviderConfig{}}
}

func (m *memConfigs) Upsert(_ context.Context, cfg *model.ProviderConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *cfg
	m.configs[cfg.Provider] = &stored
	return nil
}

func (m *memConfigs) List(_ context.Context) ([]*model.ProviderConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.ProviderConfig{}
	for _, cfg := range m.configs {
		out = append(out, cfg)
	}
	return out, nil
}

func (m *memConfigs) GetActive(_ context.Context, p model.ProviderType) (*model.ProviderConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, ok := m.configs[p]
	if !ok || !cfg.IsActive {
		return nil, nil
	}
	return cfg, nil
}

var _ repository.ProviderConfigRepositoryInterface = (*memConfigs)(nil)

// ---------- fake sender ----------

type fakeSender struct {
	mu      sync.Mutex
	from    string
	failFor map[string]error
	nextSid int
}

func newFakeSender(from string) *fakeSender {
	return &fakeSender{from: from, failFor: map[string]error{}}
}

func (f *fakeSender) Send(_ context.Context, to, _ string, _ []string) (*provider.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[to]; ok {
		return nil, err
	}
	f.nextSid++
	return &provider.SendResult{MessageID: fmt.Sprintf("SM%03d", f.nextSid), Status: "queued"}, nil
}

func (f *fakeSender) Identity() string { return f.from }

var _ provider.Sender = (*fakeSender)(nil)

// ---------- fixture ----------

// testApp wires every controller against in-memory repositories and a
// fake sender behind the real router.
type testApp struct {
	handler   http.Handler
	contacts  *memContacts
	campaigns *memCampaigns
	messages  *memMessages
	configs   *memConfigs
	sender    *fakeSender
	registry  *provider.Registry
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := &testApp{
		contacts:  newMemContacts(),
		campaigns: newMemCampaigns(),
		messages:  newMemMessages(),
		configs:   newMemConfigs(),
		sender:    newFakeSender("whatsapp:+14155238886"),
		registry:  provider.NewRegistry(),
	}
	app.registry.Configure(app.sender)

	dispatch := service.NewDispatchService(
		app.registry, ratelimit.New(100), app.campaigns, app.messages, logger)

	app.handler = controller.NewRouter(controller.Controllers{
		Health:    &controller.HealthController{Registry: app.registry},
		Contacts:  &controller.ContactController{ContactService: &service.ContactService{ContactRepo: app.contacts, Logger: logger}},
		Media:     &controller.MediaController{MediaService: &service.MediaService{Dir: t.TempDir(), Logger: logger}},
		Campaigns: &controller.CampaignController{CampaignService: &service.CampaignService{CampaignRepo: app.campaigns, MessageRepo: app.messages, Logger: logger}},
		Messages:  &controller.MessageController{Dispatch: dispatch, MessageRepo: app.messages},
		Webhooks:  &controller.WebhookController{MessageRepo: app.messages, Logger: logger},
		Settings:  &controller.SettingsController{SettingsService: &service.SettingsService{ConfigRepo: app.configs, Registry: app.registry, Logger: logger}},
		Stats:     &controller.StatsController{StatsService: &service.StatsService{ContactRepo: app.contacts, CampaignRepo: app.campaigns, MessageRepo: app.messages}},
	}, []string{"*"})

	return app
}

// unconfigure removes the live sender, as on a fresh deployment without
// credentials.
func (a *testApp) unconfigure() {
	a.registry.Configure(nil)
}

func (a *testApp) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func (a *testApp) doForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

// doUpload posts a multipart form with one file part plus the
// media_type field.
func (a *testApp) doUpload(t *testing.T, mediaType, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	require.NoError(t, mw.WriteField("media_type", mediaType))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/media/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

// jsonBody decodes a response body into a generic map.
func jsonBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// internal/service/contact_service.go
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/wasendio/wasend-backend/internal/errors"
	"github.com/wasendio/wasend-backend/internal/model"
	"github.com/wasendio/wasend-backend/internal/repository"
)

type ContactService struct {
	ContactRepo repository.ContactRepositoryInterface
	Logger      *slog.Logger
}

// ContactInput is one contact as submitted by a client.
type ContactInput struct {
	PhoneNumber string   `json:"phone_number"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Tags        []string `json:"tags"`
}

// Result struct for BulkImport
type BulkImportResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

func (s *ContactService) CreateContact(ctx context.Context, in ContactInput) (*model.Contact, error) {
	c := &model.Contact{
		ID:          uuid.NewString(),
		PhoneNumber: in.PhoneNumber,
		Name:        in.Name,
		Email:       in.Email,
		Tags:        in.Tags,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.ContactRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// BulkImport inserts a batch of contacts. Entries whose phone number is
// already stored, or missing entirely, count as skipped.
func (s *ContactService) BulkImport(ctx context.Context, inputs []ContactInput) (*BulkImportResult, error) {
	result := &BulkImportResult{}
	for _, in := range inputs {
		if in.PhoneNumber == "" {
			result.Skipped++
			continue
		}
		_, err := s.CreateContact(ctx, in)
		if err != nil {
			if errors.Is(err, appErrors.ErrContactExists) {
				result.Skipped++
				continue
			}
			return nil, err
		}
		result.Added++
	}

	s.Logger.Info("contacts imported", "added", result.Added, "skipped", result.Skipped)
	return result, nil
}

func (s *ContactService) ListContacts(ctx context.Context, limit, skip int64) ([]*model.Contact, int64, error) {
	if limit < 1 {
		limit = 1000
	}
	if limit > 5000 {
		limit = 5000
	}
	if skip < 0 {
		skip = 0
	}
	return s.ContactRepo.List(ctx, limit, skip)
}

func (s *ContactService) DeleteContact(ctx context.Context, phone string) error {
	return s.ContactRepo.DeleteByPhone(ctx, phone)
}

package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appErrors "github.com/wasendio/wasend-backend/internal/errors"
	"github.com/wasendio/wasend-backend/internal/model"
)

// ContactRepositoryInterface defines methods used by service
type ContactRepositoryInterface interface {
	Create(ctx context.Context, c *model.Contact) error
	List(ctx context.Context, limit, skip int64) ([]*model.Contact, int64, error)
	DeleteByPhone(ctx context.Context, phone string) error
	Count(ctx context.Context) (int64, error)
}

// ContactRepository is the concrete implementation
type ContactRepository struct {
	DB *mongo.Database
}

func (r *ContactRepository) collection() *mongo.Collection {
	return r.DB.Collection("contacts")
}

// Create inserts a contact. The unique index on phone_number turns
// duplicate inserts into appErrors.ErrContactExists.
func (r *ContactRepository) Create(ctx context.Context, c *model.Contact) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	_, err := r.collection().InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return appErrors.ErrContactExists
	}
	return err
}

// List fetches contacts newest first along with the total count
func (r *ContactRepository) List(ctx context.Context, limit, skip int64) ([]*model.Contact, int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}

	contacts := []*model.Contact{}
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, 0, err
	}

	total, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (r *ContactRepository) DeleteByPhone(ctx context.Context, phone string) error {
	res, err := r.collection().DeleteOne(ctx, bson.M{"phone_number": phone})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return appErrors.NewContactNotFound(phone)
	}
	return nil
}

func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	return r.collection().CountDocuments(ctx, bson.M{})
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)

package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wasendio/wasend-backend/internal/model"
)

type ProviderConfigRepositoryInterface interface {
	Upsert(ctx context.Context, cfg *model.ProviderConfig) error
	List(ctx context.Context) ([]*model.ProviderConfig, error)
	GetActive(ctx context.Context, p model.ProviderType) (*model.ProviderConfig, error)
}

type ProviderConfigRepository struct {
	DB *mongo.Database
}

func (r *ProviderConfigRepository) collection() *mongo.Collection {
	return r.DB.Collection("provider_configs")
}

// Upsert stores the configuration for a provider, replacing any
// previous one for the same provider type.
func (r *ProviderConfigRepository) Upsert(ctx context.Context, cfg *model.ProviderConfig) error {
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection().UpdateOne(ctx,
		bson.M{"provider": cfg.Provider},
		bson.M{"$set": cfg},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *ProviderConfigRepository) List(ctx context.Context) ([]*model.ProviderConfig, error) {
	cur, err := r.collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	configs := []*model.ProviderConfig{}
	if err := cur.All(ctx, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

// GetActive fetches the active configuration for a provider, or nil
// when none is stored.
func (r *ProviderConfigRepository) GetActive(ctx context.Context, p model.ProviderType) (*model.ProviderConfig, error) {
	var cfg model.ProviderConfig
	err := r.collection().FindOne(ctx, bson.M{"provider": p, "is_active": true}).Decode(&cfg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // not found
		}
		return nil, err
	}
	return &cfg, nil
}

var _ ProviderConfigRepositoryInterface = (*ProviderConfigRepository)(nil)

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

type CampaignRepositoryInterface interface {
	// Campaign CRUD
	Create(ctx context.Context, c *model.Campaign) error
	List(ctx context.Context, limit, skip int64) ([]*model.Campaign, int64, error)
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	Complete(ctx context.Context, id string, successful, failed int) error
	Count(ctx context.Context) (int64, error)

	// Scheduled dispatch
	FindDueScheduled(ctx context.Context, now time.Time, limit int64) ([]*model.Campaign, error)
	MarkSending(ctx context.Context, id string, sentAt time.Time) (bool, error)
}

type CampaignRepository struct {
	DB *mongo.Database
}

func (r *CampaignRepository) collection() *mongo.Collection {
	return r.DB.Collection("campaigns")
}

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = model.CampaignDraft
	}
	if c.MediaAttachments == nil {
		c.MediaAttachments = []model.MediaAttachment{}
	}
	if c.Recipients == nil {
		c.Recipients = []string{}
	}
	_, err := r.collection().InsertOne(ctx, c)
	return err
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	var c model.Campaign
	err := r.collection().FindOne(ctx, bson.M{"id": id}).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) List(ctx context.Context, limit, skip int64) ([]*model.Campaign, int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}

	campaigns := []*model.Campaign{}
	if err := cur.All(ctx, &campaigns); err != nil {
		return nil, 0, err
	}

	total, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// Complete records the final counters and flips the campaign to completed.
func (r *CampaignRepository) Complete(ctx context.Context, id string, successful, failed int) error {
	update := bson.M{"$set": bson.M{
		"successful_sends": successful,
		"failed_sends":     failed,
		"status":           model.CampaignCompleted,
		"completed_at":     time.Now().UTC(),
	}}
	_, err := r.collection().UpdateOne(ctx, bson.M{"id": id}, update)
	return err
}

func (r *CampaignRepository) Count(ctx context.Context) (int64, error) {
	return r.collection().CountDocuments(ctx, bson.M{})
}

// ====================== Scheduled dispatch ======================

// FindDueScheduled returns scheduled campaigns whose scheduled_at has
// passed, oldest first.
func (r *CampaignRepository) FindDueScheduled(ctx context.Context, now time.Time, limit int64) ([]*model.Campaign, error) {
	filter := bson.M{
		"status":       model.CampaignScheduled,
		"scheduled_at": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_at", Value: 1}}).
		SetLimit(limit)

	cur, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	campaigns := []*model.Campaign{}
	if err := cur.All(ctx, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// MarkSending flips a scheduled campaign to sending. The status guard in
// the filter makes the claim atomic, so two pollers cannot both win.
func (r *CampaignRepository) MarkSending(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	filter := bson.M{"id": id, "status": model.CampaignScheduled}
	update := bson.M{"$set": bson.M{
		"status":  model.CampaignSending,
		"sent_at": sentAt,
	}}
	res, err := r.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)

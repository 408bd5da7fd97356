package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wasendio/wasend-backend/internal/model"
)

// MessageFilter narrows message listings. Zero values mean "no filter".
type MessageFilter struct {
	CampaignID string
	Status     model.MessageStatus
	Limit      int64
	Skip       int64
}

type MessageRepositoryInterface interface {
	Insert(ctx context.Context, m *model.Message) error
	List(ctx context.Context, f MessageFilter) ([]*model.Message, int64, error)
	UpdateStatusByProviderID(ctx context.Context, providerMessageID string, status model.MessageStatus, errorCode *int, providerNote string) (bool, error)
	Count(ctx context.Context, status model.MessageStatus) (int64, error)
	StatusCounts(ctx context.Context, campaignID string) (map[model.MessageStatus]int64, error)
}

type MessageRepository struct {
	DB *mongo.Database
}

func (r *MessageRepository) collection() *mongo.Collection {
	return r.DB.Collection("messages")
}

// Insert stores a send attempt record
func (r *MessageRepository) Insert(ctx context.Context, m *model.Message) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.MediaAttachments == nil {
		m.MediaAttachments = []model.MediaAttachment{}
	}
	_, err := r.collection().InsertOne(ctx, m)
	return err
}

// List fetches messages newest first, optionally filtered by campaign
// and status, along with the total matching count.
func (r *MessageRepository) List(ctx context.Context, f MessageFilter) ([]*model.Message, int64, error) {
	filter := bson.M{}
	if f.CampaignID != "" {
		filter["campaign_id"] = f.CampaignID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(f.Skip).
		SetLimit(f.Limit)

	cur, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}

	messages := []*model.Message{}
	if err := cur.All(ctx, &messages); err != nil {
		return nil, 0, err
	}

	total, err := r.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// UpdateStatusByProviderID applies a delivery status callback to the
// message carrying the given provider message id. Delivered and read
// statuses stamp their timestamps; failure statuses record the error
// code and the provider's note. Returns false when no message matches.
func (r *MessageRepository) UpdateStatusByProviderID(ctx context.Context, providerMessageID string, status model.MessageStatus, errorCode *int, providerNote string) (bool, error) {
	set := bson.M{"status": status}
	now := time.Now().UTC()

	switch status {
	case model.MessageDelivered:
		set["delivered_at"] = now
	case model.MessageRead:
		set["read_at"] = now
	case model.MessageFailed, model.MessageUndelivered:
		if errorCode != nil {
			set["error_code"] = *errorCode
		}
		if providerNote != "" {
			set["error_message"] = providerNote
		}
	}

	res, err := r.collection().UpdateOne(ctx,
		bson.M{"provider_message_id": providerMessageID},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Count counts messages, optionally restricted to one status.
func (r *MessageRepository) Count(ctx context.Context, status model.MessageStatus) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.collection().CountDocuments(ctx, filter)
}

// StatusCounts groups a campaign's messages by status.
func (r *MessageRepository) StatusCounts(ctx context.Context, campaignID string) (map[model.MessageStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"campaign_id": campaignID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cur, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Status model.MessageStatus `bson:"_id"`
		Count  int64               `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[model.MessageStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

var _ MessageRepositoryInterface = (*MessageRepository)(nil)

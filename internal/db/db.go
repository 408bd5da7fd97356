// internal/db/db.go
package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout = 10 * time.Second
	pingRetries    = 5
	pingInterval   = 2 * time.Second
)

// Connect opens a MongoDB client and verifies the deployment is reachable,
// retrying the ping a few times so the server survives a database that is
// still starting up.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := pingWithRetry(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client.Database(dbName), nil
}

func pingWithRetry(ctx context.Context, client *mongo.Client) error {
	var err error
	for attempt := 1; attempt <= pingRetries; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		err = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pingInterval):
		}
	}
	return fmt.Errorf("ping mongodb after %d attempts: %w", pingRetries, err)
}

// Disconnect closes the client behind the database handle.
func Disconnect(ctx context.Context, database *mongo.Database) error {
	return database.Client().Disconnect(ctx)
}

// EnsureIndexes creates the indexes the query paths rely on. Creation is
// idempotent, so this runs on every startup.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	contactIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "phone_number", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := database.Collection("contacts").Indexes().CreateMany(ctx, contactIndexes); err != nil {
		return fmt.Errorf("create contact indexes: %w", err)
	}

	messageIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "campaign_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "provider_message_id", Value: 1}}},
	}
	if _, err := database.Collection("messages").Indexes().CreateMany(ctx, messageIndexes); err != nil {
		return fmt.Errorf("create message indexes: %w", err)
	}

	campaignIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "scheduled_at", Value: 1}}},
	}
	if _, err := database.Collection("campaigns").Indexes().CreateMany(ctx, campaignIndexes); err != nil {
		return fmt.Errorf("create campaign indexes: %w", err)
	}

	return nil
}

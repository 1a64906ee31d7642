package database

import (
	"context"
	"fmt"

	"overlaysvc/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectMongo opens a pooled client and verifies the deployment answers a ping.
// Embedded documents decode as bson.M so free-form fields render as JSON objects.
func ConnectMongo(ctx context.Context, uri string, p RetryPolicy) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open mongo client: %w", err)
	}

	err = pingWithRetry(ctx, p, func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Sugar.Info("Successfully connected to the document store")
	return client, nil
}

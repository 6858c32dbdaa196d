// Package dbmongo is the MongoDB message store.
package dbmongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"messageapi/internal/config"
)

const connectTimeout = 10 * time.Second

type MongoClient struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoConnection(c *config.Config) (*MongoClient, error) {
	uri := c.GetMongoURI()
	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(connectTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoClient{
		Client:   client,
		Database: client.Database(c.MongoDB.Database),
	}, nil
}

func (mc *MongoClient) Close(ctx context.Context) error {
	return mc.Client.Disconnect(ctx)
}

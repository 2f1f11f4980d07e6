package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Config holds configuration for the MongoDB connection
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Client wraps the MongoDB client and database
type Client struct {
	client   *mongo.Client
	database *mongo.Database
	config   *Config
}

// NewClient connects to MongoDB and verifies the connection.
func NewClient(config *Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(config.URI).
		SetServerSelectionTimeout(config.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{
		client:   client,
		database: client.Database(config.Database),
		config:   config,
	}, nil
}

// Database returns the configured database handle.
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Ping verifies the connection is still alive.
func (c *Client) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.Timeout)
	defer cancel()
	return c.client.Ping(ctx, nil)
}

// Close disconnects from MongoDB.
func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.Timeout)
	defer cancel()
	return c.client.Disconnect(ctx)
}

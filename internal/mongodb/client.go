package mongodb

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
	collProducts = "products"
	collOrders   = "orders"
)

// Store implements shop.Store on a MongoDB database. The client inside is a
// pool and is shared by all requests.
type Store struct {
	client   *mongo.Client
	products *mongo.Collection
	orders   *mongo.Collection
}

// Connect opens the client, pings the primary and makes sure the order
// listing index exists. It fails when the server is unreachable.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(16).
		SetMinPoolSize(1).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	s := New(client.Database(database))

	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// New wraps an already connected database.
func New(db *mongo.Database) *Store {
	return &Store{
		client:   db.Client(),
		products: db.Collection(collProducts),
		orders:   db.Collection(collOrders),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("userId_id"),
	})
	if err != nil {
		return fmt.Errorf("create orders index: %w", err)
	}
	return nil
}

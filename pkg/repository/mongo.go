package repository

import (
	"context"
	"time"

	"github.com/example/tuuze/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	storesCollection   = "stores"
	productsCollection = "products"
	ordersCollection   = "orders"
)

type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoRepository) Users() *MongoUsers {
	return &MongoUsers{coll: m.database.Collection(usersCollection)}
}

func (m *MongoRepository) Stores() *MongoStores {
	return &MongoStores{coll: m.database.Collection(storesCollection)}
}

func (m *MongoRepository) Products() *MongoProducts {
	return &MongoProducts{coll: m.database.Collection(productsCollection)}
}

func (m *MongoRepository) Orders() *MongoOrders {
	return &MongoOrders{coll: m.database.Collection(ordersCollection)}
}

// EnsureIndexes creates the indexes the query paths rely on. Safe to call on
// every startup; Mongo treats existing definitions as no-ops.
func (m *MongoRepository) EnsureIndexes(ctx context.Context) error {
	users := m.database.Collection(usersCollection)
	if _, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	stores := m.database.Collection(storesCollection)
	if _, err := stores.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
	}); err != nil {
		return err
	}

	products := m.database.Collection(productsCollection)
	if _, err := products.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "store_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}, {Key: "tags", Value: "text"}}},
	}); err != nil {
		return err
	}

	orders := m.database.Collection(ordersCollection)
	_, err := orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "store_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/example/tuuze/pkg/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStores struct {
	coll *mongo.Collection
}

var _ StoreRepository = (*MongoStores)(nil)

func (r *MongoStores) Create(ctx context.Context, s *models.Store) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, s)
	return err
}

func (r *MongoStores) GetByID(ctx context.Context, id string) (*models.Store, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoStores) GetByOwner(ctx context.Context, ownerID string) (*models.Store, error) {
	return r.findOne(ctx, bson.M{"owner_id": ownerID})
}

func (r *MongoStores) findOne(ctx context.Context, filter bson.M) (*models.Store, error) {
	var s models.Store
	err := r.coll.FindOne(ctx, filter).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *MongoStores) Update(ctx context.Context, s *models.Store) error {
	s.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoStores) List(ctx context.Context) ([]models.Store, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stores []models.Store
	if err = cursor.All(ctx, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *MongoStores) Nearby(ctx context.Context, longitude, latitude float64, maxDistance int64) ([]models.Store, error) {
	filter := bson.M{
		"location": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{longitude, latitude},
				},
				"$maxDistance": maxDistance,
			},
		},
		"is_active":   true,
		"is_verified": true,
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stores []models.Store
	if err = cursor.All(ctx, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *MongoStores) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *MongoStores) CountVerified(ctx context.Context, verified bool) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"is_verified": verified})
}

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

type MongoProducts struct {
	coll *mongo.Collection
}

var _ ProductRepository = (*MongoProducts)(nil)

func (r *MongoProducts) Create(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, p)
	return err
}

func (r *MongoProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MongoProducts) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProducts) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProducts) ListByStore(ctx context.Context, storeID string, onlyAvailable bool) ([]models.Product, error) {
	filter := bson.M{"store_id": storeID}
	if onlyAvailable {
		filter["is_available"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *MongoProducts) Search(ctx context.Context, s ProductSearch) ([]models.Product, error) {
	filter := bson.M{"is_available": true}
	if s.Query != "" {
		filter["$text"] = bson.M{"$search": s.Query}
	}
	if s.Category != "" {
		filter["category"] = s.Category
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *MongoProducts) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// Reserve performs the decrement-if-sufficient as a single conditional
// update, so two concurrent reservations can never over-commit the same
// stock. When the guarded update matches nothing the product is re-read
// once to report which precondition failed.
func (r *MongoProducts) Reserve(ctx context.Context, id string, quantity int64) error {
	filter := bson.M{
		"_id":          id,
		"is_available": true,
		"inventory":    bson.M{"$gte": quantity},
	}
	update := bson.M{
		"$inc": bson.M{"inventory": -quantity},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	err := r.coll.FindOneAndUpdate(ctx, filter, update).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	p, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.IsAvailable {
		return ErrProductUnavailable
	}
	return ErrInsufficientInventory
}

func (r *MongoProducts) Release(ctx context.Context, id string, quantity int64) error {
	update := bson.M{
		"$inc": bson.M{"inventory": quantity},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	// Zero matches means the product was deleted since the order was
	// placed; the cancellation must still go through.
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/example/tuuze/pkg/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoOrders struct {
	coll *mongo.Collection
}

var _ OrderRepository = (*MongoOrders)(nil)

func (r *MongoOrders) Create(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, o)
	return err
}

func (r *MongoOrders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *MongoOrders) Update(ctx context.Context, o *models.Order) error {
	o.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": o.ID}, o)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoOrders) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"customer_id": customerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoOrders) ListByStore(ctx context.Context, storeID string, f OrderFilter) ([]models.Order, error) {
	filter := bson.M{"store_id": storeID}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	opts := options.Find().SetSort(sortSpec(f.Sort))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoOrders) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *MongoOrders) CountByStatus(ctx context.Context, statuses ...models.OrderStatus) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"status": bson.M{"$in": statuses}})
}

// sortSpec translates a "-field" style expression into a sort document,
// defaulting to newest first. Only created_at and status are sortable.
func sortSpec(sort string) bson.D {
	if sort == "" {
		sort = "-created_at"
	}
	dir := 1
	field := sort
	if strings.HasPrefix(sort, "-") {
		dir = -1
		field = sort[1:]
	}
	switch field {
	case "created_at", "status":
	default:
		field, dir = "created_at", -1
	}
	return bson.D{{Key: field, Value: dir}}
}

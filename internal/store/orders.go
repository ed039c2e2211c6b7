package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/nabhcare/nabh-backend/internal/model"
)

// OrderFilter narrows order counts. Zero values mean "no bound"; the time
// bounds apply to createdAt.
type OrderFilter struct {
	Status model.OrderStatus
	From   *time.Time
	To     *time.Time
}

type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	ListByPharmacy(ctx context.Context, pharmacy bson.ObjectID) ([]model.Order, error)
	GetOwned(ctx context.Context, id, pharmacy bson.ObjectID) (*model.Order, error)
	UpdateStatus(ctx context.Context, id bson.ObjectID, status model.OrderStatus) (*model.Order, error)
	// Count returns the total number of orders across all pharmacies. It
	// feeds the sequential orderId; reading it outside a transaction is the
	// documented duplicate-id race.
	Count(ctx context.Context) (int64, error)
	CountByPharmacy(ctx context.Context, pharmacy bson.ObjectID, f OrderFilter) (int64, error)
}

type orderStore struct {
	coll *mongo.Collection
}

func (s *orderStore) Create(ctx context.Context, o *model.Order) error {
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	res, err := s.coll.InsertOne(ctx, o)
	if err != nil {
		return mapErr(err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		o.ID = id
	}
	return nil
}

func (s *orderStore) ListByPharmacy(ctx context.Context, pharmacy bson.ObjectID) ([]model.Order, error) {
	cur, err := s.coll.Find(ctx, bson.M{"pharmacy": pharmacy},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var out []model.Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *orderStore) GetOwned(ctx context.Context, id, pharmacy bson.ObjectID) (*model.Order, error) {
	var o model.Order
	err := s.coll.FindOne(ctx, bson.M{"_id": id, "pharmacy": pharmacy}).Decode(&o)
	if err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

func (s *orderStore) UpdateStatus(ctx context.Context, id bson.ObjectID, status model.OrderStatus) (*model.Order, error) {
	var o model.Order
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

func (s *orderStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

func (s *orderStore) CountByPharmacy(ctx context.Context, pharmacy bson.ObjectID, f OrderFilter) (int64, error) {
	q := bson.M{"pharmacy": pharmacy}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.From != nil || f.To != nil {
		created := bson.M{}
		if f.From != nil {
			created["$gte"] = *f.From
		}
		if f.To != nil {
			created["$lt"] = *f.To
		}
		q["createdAt"] = created
	}
	return s.coll.CountDocuments(ctx, q)
}

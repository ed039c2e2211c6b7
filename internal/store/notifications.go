package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/nabhcare/nabh-backend/internal/model"
)

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, user bson.ObjectID) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, user bson.ObjectID) error
}

type notificationStore struct {
	coll *mongo.Collection
}

func (s *notificationStore) Create(ctx context.Context, n *model.Notification) error {
	n.CreatedAt = time.Now()

	res, err := s.coll.InsertOne(ctx, n)
	if err != nil {
		return mapErr(err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		n.ID = id
	}
	return nil
}

func (s *notificationStore) ListByUser(ctx context.Context, user bson.ObjectID) ([]model.Notification, error) {
	cur, err := s.coll.Find(ctx, bson.M{"user": user},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var out []model.Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *notificationStore) MarkRead(ctx context.Context, id, user bson.ObjectID) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "user": user},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/nabhcare/nabh-backend/internal/model"
)

type MedicalRecordStore interface {
	Create(ctx context.Context, r *model.MedicalRecord) error
	ListByPatient(ctx context.Context, patient bson.ObjectID) ([]model.MedicalRecord, error)
	CountByPatient(ctx context.Context, patient bson.ObjectID) (int64, error)
}

type recordStore struct {
	coll *mongo.Collection
}

func (s *recordStore) Create(ctx context.Context, r *model.MedicalRecord) error {
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Date.IsZero() {
		r.Date = now
	}
	if r.Status == "" {
		r.Status = model.RecordActive
	}

	res, err := s.coll.InsertOne(ctx, r)
	if err != nil {
		return mapErr(err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		r.ID = id
	}
	return nil
}

func (s *recordStore) ListByPatient(ctx context.Context, patient bson.ObjectID) ([]model.MedicalRecord, error) {
	cur, err := s.coll.Find(ctx, bson.M{"patient": patient},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var out []model.MedicalRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *recordStore) CountByPatient(ctx context.Context, patient bson.ObjectID) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{"patient": patient})
}

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/nabhcare/nabh-backend/internal/model"
)

type PrescriptionStore interface {
	Create(ctx context.Context, p *model.Prescription) error
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Prescription, error)
	ListByDoctor(ctx context.Context, doctor bson.ObjectID) ([]model.Prescription, error)
	CountByDoctor(ctx context.Context, doctor bson.ObjectID) (int64, error)
}

type prescriptionStore struct {
	coll *mongo.Collection
}

func (s *prescriptionStore) Create(ctx context.Context, p *model.Prescription) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = model.PrescriptionActive
	}

	res, err := s.coll.InsertOne(ctx, p)
	if err != nil {
		return mapErr(err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		p.ID = id
	}
	return nil
}

func (s *prescriptionStore) GetByID(ctx context.Context, id bson.ObjectID) (*model.Prescription, error) {
	var p model.Prescription
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *prescriptionStore) ListByDoctor(ctx context.Context, doctor bson.ObjectID) ([]model.Prescription, error) {
	cur, err := s.coll.Find(ctx, bson.M{"doctor": doctor},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var out []model.Prescription
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *prescriptionStore) CountByDoctor(ctx context.Context, doctor bson.ObjectID) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{"doctor": doctor})
}

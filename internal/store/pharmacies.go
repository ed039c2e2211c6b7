package store

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/nabhcare/nabh-backend/internal/model"
)

// PharmacyStore persists the Pharmacy aggregate. Medicines are embedded and
// only ever written through Save, so the aggregate stays the unit of change.
type PharmacyStore interface {
	Create(ctx context.Context, p *model.Pharmacy) error
	GetByOwner(ctx context.Context, owner bson.ObjectID) (*model.Pharmacy, error)
	// Save replaces the aggregate's mutable fields, medicines included.
	Save(ctx context.Context, p *model.Pharmacy) error
	// SearchByMedicineName matches medicine names case-insensitively by
	// substring across all pharmacies.
	SearchByMedicineName(ctx context.Context, name string) ([]model.Pharmacy, error)
}

type pharmacyStore struct {
	coll *mongo.Collection
}

func (s *pharmacyStore) Create(ctx context.Context, p *model.Pharmacy) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Medicines == nil {
		p.Medicines = []model.Medicine{}
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

func (s *pharmacyStore) GetByOwner(ctx context.Context, owner bson.ObjectID) (*model.Pharmacy, error) {
	var p model.Pharmacy
	if err := s.coll.FindOne(ctx, bson.M{"owner": owner}).Decode(&p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *pharmacyStore) Save(ctx context.Context, p *model.Pharmacy) error {
	p.UpdatedAt = time.Now()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": p.ID},
		bson.M{"$set": bson.M{
			"name":          p.Name,
			"licenseNumber": p.LicenseNumber,
			"location":      p.Location,
			"rating":        p.Rating,
			"medicines":     p.Medicines,
			"updatedAt":     p.UpdatedAt,
		}},
	)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pharmacyStore) SearchByMedicineName(ctx context.Context, name string) ([]model.Pharmacy, error) {
	pattern := bson.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}
	cur, err := s.coll.Find(ctx, bson.M{"medicines.name": pattern})
	if err != nil {
		return nil, err
	}
	var out []model.Pharmacy
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

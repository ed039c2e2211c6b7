package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/nabhcare/nabh-backend/internal/model"
)

// UserStore persists the unified user collection.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*model.User, error)
	// UpdateFields applies a partial update and returns the new document.
	UpdateFields(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.User, error)
	ListDoctors(ctx context.Context) ([]model.DoctorSummary, error)
	// DoctorSummaries and PatientSummaries batch-resolve display projections
	// for list joins.
	DoctorSummaries(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]model.DoctorSummary, error)
	PatientSummaries(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]model.PatientSummary, error)
}

type userStore struct {
	coll *mongo.Collection
}

func (s *userStore) Create(ctx context.Context, u *model.User) error {
	now := time.Now()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = now
	u.UpdatedAt = now

	res, err := s.coll.InsertOne(ctx, u)
	if err != nil {
		return mapErr(err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		u.ID = id
	}
	return nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (s *userStore) GetByID(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	var u model.User
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (s *userStore) UpdateFields(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.User, error) {
	fields["updatedAt"] = time.Now()

	var u model.User
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (s *userStore) ListDoctors(ctx context.Context) ([]model.DoctorSummary, error) {
	cur, err := s.coll.Find(ctx, bson.M{"role": model.RoleDoctor})
	if err != nil {
		return nil, err
	}
	var out []model.DoctorSummary
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *userStore) DoctorSummaries(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]model.DoctorSummary, error) {
	out := make(map[bson.ObjectID]model.DoctorSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []model.DoctorSummary
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d
	}
	return out, nil
}

func (s *userStore) PatientSummaries(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]model.PatientSummary, error) {
	out := make(map[bson.ObjectID]model.PatientSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []model.PatientSummary
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, p := range docs {
		out[p.ID] = p
	}
	return out, nil
}

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/nabhcare/nabh-backend/internal/model"
)

// AppointmentFilter narrows appointment counts. Zero values mean "no bound".
type AppointmentFilter struct {
	Statuses []model.AppointmentStatus
	From     *time.Time
	To       *time.Time
}

type AppointmentStore interface {
	Create(ctx context.Context, a *model.Appointment) error
	ListByPatient(ctx context.Context, patient bson.ObjectID) ([]model.Appointment, error)
	ListByDoctor(ctx context.Context, doctor bson.ObjectID) ([]model.Appointment, error)
	// GetOwned resolves an appointment only when the given owner field
	// ("patient" or "doctor") matches; handlers never trust a bare id.
	GetOwned(ctx context.Context, id bson.ObjectID, ownerField string, owner bson.ObjectID) (*model.Appointment, error)
	UpdateFields(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.Appointment, error)
	CountByPatient(ctx context.Context, patient bson.ObjectID, f AppointmentFilter) (int64, error)
	CountByDoctor(ctx context.Context, doctor bson.ObjectID, f AppointmentFilter) (int64, error)
	DistinctPatients(ctx context.Context, doctor bson.ObjectID) ([]bson.ObjectID, error)
}

type appointmentStore struct {
	coll *mongo.Collection
}

var newestDateFirst = options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

func (s *appointmentStore) Create(ctx context.Context, a *model.Appointment) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	res, err := s.coll.InsertOne(ctx, a)
	if err != nil {
		return mapErr(err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		a.ID = id
	}
	return nil
}

func (s *appointmentStore) ListByPatient(ctx context.Context, patient bson.ObjectID) ([]model.Appointment, error) {
	return s.list(ctx, bson.M{"patient": patient})
}

func (s *appointmentStore) ListByDoctor(ctx context.Context, doctor bson.ObjectID) ([]model.Appointment, error) {
	return s.list(ctx, bson.M{"doctor": doctor})
}

func (s *appointmentStore) list(ctx context.Context, filter bson.M) ([]model.Appointment, error) {
	cur, err := s.coll.Find(ctx, filter, newestDateFirst)
	if err != nil {
		return nil, err
	}
	var out []model.Appointment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *appointmentStore) GetOwned(ctx context.Context, id bson.ObjectID, ownerField string, owner bson.ObjectID) (*model.Appointment, error) {
	var a model.Appointment
	err := s.coll.FindOne(ctx, bson.M{"_id": id, ownerField: owner}).Decode(&a)
	if err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (s *appointmentStore) UpdateFields(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.Appointment, error) {
	fields["updatedAt"] = time.Now()

	var a model.Appointment
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (s *appointmentStore) CountByPatient(ctx context.Context, patient bson.ObjectID, f AppointmentFilter) (int64, error) {
	return s.coll.CountDocuments(ctx, filterQuery(bson.M{"patient": patient}, f))
}

func (s *appointmentStore) CountByDoctor(ctx context.Context, doctor bson.ObjectID, f AppointmentFilter) (int64, error) {
	return s.coll.CountDocuments(ctx, filterQuery(bson.M{"doctor": doctor}, f))
}

func (s *appointmentStore) DistinctPatients(ctx context.Context, doctor bson.ObjectID) ([]bson.ObjectID, error) {
	var ids []bson.ObjectID
	res := s.coll.Distinct(ctx, "patient", bson.M{"doctor": doctor})
	if err := res.Decode(&ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func filterQuery(q bson.M, f AppointmentFilter) bson.M {
	if len(f.Statuses) == 1 {
		q["status"] = f.Statuses[0]
	} else if len(f.Statuses) > 1 {
		q["status"] = bson.M{"$in": f.Statuses}
	}
	if f.From != nil || f.To != nil {
		dateRange := bson.M{}
		if f.From != nil {
			dateRange["$gte"] = *f.From
		}
		if f.To != nil {
			dateRange["$lt"] = *f.To
		}
		q["date"] = dateRange
	}
	return q
}

// Package store owns the document-store connection and the per-collection
// persistence interfaces. The Store handle is created once at startup,
// injected into services, and closed through the application lifecycle.
// It is never held as an ambient singleton.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/nabhcare/nabh-backend/config"
)

// ErrNotFound is returned by every lookup whose target document is absent.
var ErrNotFound = errors.New("document not found")

// ErrDuplicate is returned when a unique index rejects a write.
var ErrDuplicate = errors.New("duplicate key")

const (
	collUsers         = "users"
	collAppointments  = "appointments"
	collRecords       = "medical_records"
	collPrescriptions = "prescriptions"
	collPharmacies    = "pharmacies"
	collOrders        = "orders"
	collNotifications = "notifications"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database

	Users         UserStore
	Appointments  AppointmentStore
	Records       MedicalRecordStore
	Prescriptions PrescriptionStore
	Pharmacies    PharmacyStore
	Orders        OrderStore
	Notifications NotificationStore
}

// Connect establishes the process-wide client and wires the per-collection
// stores. The caller owns the returned handle and must Close it on shutdown.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	if cfg.URI == "" {
		return nil, config.ErrMissingDatabaseURI
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(secondsOr(cfg.ConnectTimeoutSec, 10)).
		SetServerSelectionTimeout(secondsOr(cfg.ServerSelectionSec, 10)).
		SetTimeout(secondsOr(cfg.SocketTimeoutSeconds, 20))

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "nabh"
	}
	db := client.Database(name)

	return &Store{
		client:        client,
		db:            db,
		Users:         &userStore{coll: db.Collection(collUsers)},
		Appointments:  &appointmentStore{coll: db.Collection(collAppointments)},
		Records:       &recordStore{coll: db.Collection(collRecords)},
		Prescriptions: &prescriptionStore{coll: db.Collection(collPrescriptions)},
		Pharmacies:    &pharmacyStore{coll: db.Collection(collPharmacies)},
		Orders:        &orderStore{coll: db.Collection(collOrders)},
		Notifications: &notificationStore{coll: db.Collection(collNotifications)},
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique and query indexes the handlers rely on:
// a globally unique user email, one pharmacy per owner, the human-readable
// orderId, and the ownership/scoping keys.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	type idxSet struct {
		coll   string
		models []mongo.IndexModel
	}

	sets := []idxSet{
		{collUsers, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		}},
		{collAppointments, []mongo.IndexModel{
			{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "doctor", Value: 1}, {Key: "date", Value: -1}}},
		}},
		{collRecords, []mongo.IndexModel{
			{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "date", Value: -1}}},
		}},
		{collPrescriptions, []mongo.IndexModel{
			{Keys: bson.D{{Key: "doctor", Value: 1}, {Key: "createdAt", Value: -1}}},
		}},
		{collPharmacies, []mongo.IndexModel{
			{Keys: bson.D{{Key: "owner", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "medicines.name", Value: 1}}},
		}},
		{collOrders, []mongo.IndexModel{
			// Lookup only, deliberately not unique: orderId is minted from a
			// count and two racing creates may mint the same code. _id stays
			// the uniqueness guarantee.
			{Keys: bson.D{{Key: "orderId", Value: 1}}},
			{Keys: bson.D{{Key: "pharmacy", Value: 1}, {Key: "createdAt", Value: -1}}},
		}},
		{collNotifications, []mongo.IndexModel{
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		}},
	}

	for _, set := range sets {
		if _, err := s.db.Collection(set.coll).Indexes().CreateMany(ctx, set.models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", set.coll, err)
		}
	}
	return nil
}

func secondsOr(n, def int) time.Duration {
	if n <= 0 {
		n = def
	}
	return time.Duration(n) * time.Second
}

// mapErr converts driver sentinels into store sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

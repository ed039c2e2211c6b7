package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Notification is an in-app message produced by the event workers, e.g. when
// an appointment is booked or an order changes status.
type Notification struct {
	ID    bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	User  bson.ObjectID  `bson:"user" json:"user"`
	Type  string         `bson:"type" json:"type"`
	Title string         `bson:"title" json:"title"`
	Data  map[string]any `bson:"data,omitempty" json:"data,omitempty"`
	Read  bool           `bson:"read" json:"read"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type PrescriptionStatus string

const (
	PrescriptionActive    PrescriptionStatus = "active"
	PrescriptionCompleted PrescriptionStatus = "completed"
	PrescriptionExpired   PrescriptionStatus = "expired"
)

// Medication is one prescription line item.
type Medication struct {
	Name         string  `bson:"name" json:"name"`
	Dosage       string  `bson:"dosage" json:"dosage"`
	Frequency    string  `bson:"frequency" json:"frequency"`
	Duration     string  `bson:"duration" json:"duration"`
	Instructions string  `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Price        float64 `bson:"price" json:"price"`
}

// Prescription is created exclusively by a doctor. TotalAmount is derived
// from the line items at creation time and is never independently settable.
type Prescription struct {
	ID          bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Patient     bson.ObjectID  `bson:"patient" json:"patient"`
	Doctor      bson.ObjectID  `bson:"doctor" json:"doctor"`
	Appointment *bson.ObjectID `bson:"appointment,omitempty" json:"appointment,omitempty"`
	Diagnosis   string         `bson:"diagnosis" json:"diagnosis"`
	Medications []Medication   `bson:"medications" json:"medications"`

	AdditionalInstructions string             `bson:"additionalInstructions,omitempty" json:"additionalInstructions,omitempty"`
	FollowUpDate           *time.Time         `bson:"followUpDate,omitempty" json:"followUpDate,omitempty"`
	Status                 PrescriptionStatus `bson:"status" json:"status"`
	TotalAmount            float64            `bson:"totalAmount" json:"totalAmount"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TotalAmount sums the line-item prices. A missing price contributes 0.
func TotalAmount(meds []Medication) float64 {
	var sum float64
	for _, m := range meds {
		sum += m.Price
	}
	return sum
}

// PrescriptionView joins patient and appointment display fields for the
// doctor's prescription list.
type PrescriptionView struct {
	Prescription `bson:",inline"`

	PatientInfo     *PatientSummary     `json:"patientInfo,omitempty"`
	AppointmentInfo *AppointmentSummary `json:"appointmentInfo,omitempty"`
}

// AppointmentSummary is the display projection of a referenced appointment.
type AppointmentSummary struct {
	ID   bson.ObjectID   `bson:"_id" json:"id"`
	Date time.Time       `bson:"date" json:"date"`
	Time string          `bson:"time" json:"time"`
	Type AppointmentType `bson:"type" json:"type"`
}

package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type RecordType string

const (
	RecordPrescription RecordType = "prescription"
	RecordLabReport    RecordType = "lab-report"
	RecordImaging      RecordType = "imaging"
	RecordConsultation RecordType = "consultation"
)

func (t RecordType) Valid() bool {
	switch t {
	case RecordPrescription, RecordLabReport, RecordImaging, RecordConsultation:
		return true
	}
	return false
}

type RecordStatus string

const (
	RecordActive    RecordStatus = "active"
	RecordCompleted RecordStatus = "completed"
	RecordArchived  RecordStatus = "archived"
)

// MedicalRecord is a patient's document or report, authored against a doctor
// reference. The update surface in scope is list/create only.
type MedicalRecord struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Patient     bson.ObjectID `bson:"patient" json:"patient"`
	Doctor      bson.ObjectID `bson:"doctor,omitempty" json:"doctor,omitempty"`
	Type        RecordType    `bson:"type" json:"type"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	FileURL     string        `bson:"fileUrl,omitempty" json:"fileUrl,omitempty"`
	Status      RecordStatus  `bson:"status" json:"status"`
	Date        time.Time     `bson:"date" json:"date"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// MedicalRecordView joins the authoring doctor's display fields.
type MedicalRecordView struct {
	MedicalRecord `bson:",inline"`

	DoctorInfo *DoctorSummary `json:"doctorInfo,omitempty"`
}

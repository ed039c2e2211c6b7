package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type AppointmentType string

const (
	AppointmentVideo  AppointmentType = "video"
	AppointmentClinic AppointmentType = "clinic"
)

type AppointmentStatus string

const (
	AppointmentPending    AppointmentStatus = "pending"
	AppointmentConfirmed  AppointmentStatus = "confirmed"
	AppointmentInProgress AppointmentStatus = "in_progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentInProgress,
		AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// VitalSigns is the embedded measurement sub-record a doctor fills during a
// consultation.
type VitalSigns struct {
	BloodPressure string `bson:"bloodPressure,omitempty" json:"bloodPressure,omitempty"`
	HeartRate     string `bson:"heartRate,omitempty" json:"heartRate,omitempty"`
	Temperature   string `bson:"temperature,omitempty" json:"temperature,omitempty"`
	Weight        string `bson:"weight,omitempty" json:"weight,omitempty"`
}

// Appointment links one patient and one doctor. Both references must resolve
// to users with the matching role at booking time.
type Appointment struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Patient  bson.ObjectID `bson:"patient" json:"patient"`
	Doctor   bson.ObjectID `bson:"doctor" json:"doctor"`
	Date     time.Time     `bson:"date" json:"date"`
	Time     string        `bson:"time" json:"time"`
	Type     AppointmentType   `bson:"type" json:"type"`
	Duration string            `bson:"duration" json:"duration"`
	Status   AppointmentStatus `bson:"status" json:"status"`

	Symptoms           string      `bson:"symptoms,omitempty" json:"symptoms,omitempty"`
	MedicalHistory     string      `bson:"medicalHistory,omitempty" json:"medicalHistory,omitempty"`
	CurrentMedications string      `bson:"currentMedications,omitempty" json:"currentMedications,omitempty"`
	Allergies          string      `bson:"allergies,omitempty" json:"allergies,omitempty"`
	VitalSigns         *VitalSigns `bson:"vitalSigns,omitempty" json:"vitalSigns,omitempty"`
	ConsultationNotes  string      `bson:"consultationNotes,omitempty" json:"consultationNotes,omitempty"`
	Diagnosis          string      `bson:"diagnosis,omitempty" json:"diagnosis,omitempty"`
	Treatment          string      `bson:"treatment,omitempty" json:"treatment,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ConsultationUpdate carries partial consultation-field updates: only the
// provided fields overwrite, the rest keep their prior value.
type ConsultationUpdate struct {
	ConsultationNotes *string     `json:"consultationNotes"`
	Diagnosis         *string     `json:"diagnosis"`
	Treatment         *string     `json:"treatment"`
	VitalSigns        *VitalSigns `json:"vitalSigns"`
}

func (u ConsultationUpdate) Fields() bson.M {
	m := bson.M{}
	if u.ConsultationNotes != nil {
		m["consultationNotes"] = *u.ConsultationNotes
	}
	if u.Diagnosis != nil {
		m["diagnosis"] = *u.Diagnosis
	}
	if u.Treatment != nil {
		m["treatment"] = *u.Treatment
	}
	if u.VitalSigns != nil {
		m["vitalSigns"] = *u.VitalSigns
	}
	return m
}

// AppointmentView is an appointment joined with the counterpart's display
// fields for list rendering.
type AppointmentView struct {
	Appointment `bson:",inline"`

	DoctorInfo  *DoctorSummary  `json:"doctorInfo,omitempty"`
	PatientInfo *PatientSummary `json:"patientInfo,omitempty"`
}

// PatientSummary is the display projection doctors and pharmacies see.
type PatientSummary struct {
	ID         bson.ObjectID `bson:"_id" json:"id"`
	Name       string        `bson:"name" json:"name"`
	Email      string        `bson:"email" json:"email"`
	Phone      string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Age        int           `bson:"age,omitempty" json:"age,omitempty"`
	BloodGroup string        `bson:"bloodGroup,omitempty" json:"bloodGroup,omitempty"`
}

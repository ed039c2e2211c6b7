package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RolePatient  Role = "patient"
	RoleDoctor   Role = "doctor"
	RolePharmacy Role = "pharmacy"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RolePharmacy:
		return true
	}
	return false
}

// User unifies patient, doctor and pharmacy profiles in one document,
// discriminated by Role. Role-conditional fields are omitempty so a patient
// document never carries pharmacy noise.
//
// Password holds the argon2id PHC string and is excluded from JSON output;
// it must never be serialized outward.
type User struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string        `bson:"name" json:"name"`
	Email    string        `bson:"email" json:"email"`
	Password string        `bson:"password" json:"-"`
	Role     Role          `bson:"role" json:"role"`
	Phone    string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Address  string        `bson:"address,omitempty" json:"address,omitempty"`

	// Patient
	Age        int    `bson:"age,omitempty" json:"age,omitempty"`
	BloodGroup string `bson:"bloodGroup,omitempty" json:"bloodGroup,omitempty"`

	// Doctor
	Specialization  string  `bson:"specialization,omitempty" json:"specialization,omitempty"`
	Experience      string  `bson:"experience,omitempty" json:"experience,omitempty"`
	Degree          string  `bson:"degree,omitempty" json:"degree,omitempty"`
	Hospital        string  `bson:"hospital,omitempty" json:"hospital,omitempty"`
	ConsultationFee float64 `bson:"consultationFee,omitempty" json:"consultationFee,omitempty"`
	Rating          float64 `bson:"rating,omitempty" json:"rating,omitempty"`
	TotalPatients   int     `bson:"totalPatients,omitempty" json:"totalPatients,omitempty"`
	IsAvailable     *bool   `bson:"isAvailable,omitempty" json:"isAvailable,omitempty"`

	// Pharmacy
	PharmacyName    string `bson:"pharmacyName,omitempty" json:"pharmacyName,omitempty"`
	PharmacyAddress string `bson:"pharmacyAddress,omitempty" json:"pharmacyAddress,omitempty"`
	PharmacyType    string `bson:"pharmacyType,omitempty" json:"pharmacyType,omitempty"`
	ServicesOffered string `bson:"servicesOffered,omitempty" json:"servicesOffered,omitempty"`
	LicenseNumber   string `bson:"licenseNumber,omitempty" json:"licenseNumber,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DoctorSummary is the public listing projection used by the booking flow.
type DoctorSummary struct {
	ID              bson.ObjectID `bson:"_id" json:"id"`
	Name            string        `bson:"name" json:"name"`
	Specialization  string        `bson:"specialization,omitempty" json:"specialization,omitempty"`
	Experience      string        `bson:"experience,omitempty" json:"experience,omitempty"`
	Hospital        string        `bson:"hospital,omitempty" json:"hospital,omitempty"`
	ConsultationFee float64       `bson:"consultationFee,omitempty" json:"consultationFee,omitempty"`
	Rating          float64       `bson:"rating,omitempty" json:"rating,omitempty"`
	TotalPatients   int           `bson:"totalPatients,omitempty" json:"totalPatients,omitempty"`
	IsAvailable     *bool         `bson:"isAvailable,omitempty" json:"isAvailable,omitempty"`
}

// ProfileUpdate carries the allow-listed mutable profile fields. Role and
// email are deliberately absent: they are immutable through this surface.
type ProfileUpdate struct {
	Name            *string  `json:"name"`
	Phone           *string  `json:"phone"`
	Address         *string  `json:"address"`
	Age             *int     `json:"age"`
	BloodGroup      *string  `json:"bloodGroup"`
	Specialization  *string  `json:"specialization"`
	Experience      *string  `json:"experience"`
	Degree          *string  `json:"degree"`
	Hospital        *string  `json:"hospital"`
	ConsultationFee *float64 `json:"consultationFee"`
	PharmacyName    *string  `json:"pharmacyName"`
	PharmacyAddress *string  `json:"pharmacyAddress"`
	PharmacyType    *string  `json:"pharmacyType"`
	ServicesOffered *string  `json:"servicesOffered"`
	LicenseNumber   *string  `json:"licenseNumber"`
}

// Fields converts the update to a bson field map containing only the
// provided keys, so unset fields retain their prior value.
func (u ProfileUpdate) Fields() bson.M {
	m := bson.M{}
	if u.Name != nil {
		m["name"] = *u.Name
	}
	if u.Phone != nil {
		m["phone"] = *u.Phone
	}
	if u.Address != nil {
		m["address"] = *u.Address
	}
	if u.Age != nil {
		m["age"] = *u.Age
	}
	if u.BloodGroup != nil {
		m["bloodGroup"] = *u.BloodGroup
	}
	if u.Specialization != nil {
		m["specialization"] = *u.Specialization
	}
	if u.Experience != nil {
		m["experience"] = *u.Experience
	}
	if u.Degree != nil {
		m["degree"] = *u.Degree
	}
	if u.Hospital != nil {
		m["hospital"] = *u.Hospital
	}
	if u.ConsultationFee != nil {
		m["consultationFee"] = *u.ConsultationFee
	}
	if u.PharmacyName != nil {
		m["pharmacyName"] = *u.PharmacyName
	}
	if u.PharmacyAddress != nil {
		m["pharmacyAddress"] = *u.PharmacyAddress
	}
	if u.PharmacyType != nil {
		m["pharmacyType"] = *u.PharmacyType
	}
	if u.ServicesOffered != nil {
		m["servicesOffered"] = *u.ServicesOffered
	}
	if u.LicenseNumber != nil {
		m["licenseNumber"] = *u.LicenseNumber
	}
	return m
}

package model

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type OrderPriority string

const (
	PriorityHigh   OrderPriority = "high"
	PriorityMedium OrderPriority = "medium"
	PriorityLow    OrderPriority = "low"
)

type DeliveryType string

const (
	DeliveryPickup   DeliveryType = "pickup"
	DeliveryDelivery DeliveryType = "delivery"
)

// OrderMedication is an embedded fulfillment line item.
type OrderMedication struct {
	Name     string  `bson:"name" json:"name"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Price    float64 `bson:"price" json:"price"`
	InStock  bool    `bson:"inStock" json:"inStock"`
}

// Order is the pharmacy-side fulfillment of a prescription. PatientName,
// PatientPhone and DoctorName are display-denormalized: copied at creation
// time so lists render without joins.
type Order struct {
	ID           bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrderID      string         `bson:"orderId" json:"orderId"`
	Patient      bson.ObjectID  `bson:"patient" json:"patient"`
	Doctor       bson.ObjectID  `bson:"doctor" json:"doctor"`
	Pharmacy     bson.ObjectID  `bson:"pharmacy" json:"pharmacy"`
	Prescription *bson.ObjectID `bson:"prescription,omitempty" json:"prescription,omitempty"`

	PatientName      string    `bson:"patientName" json:"patientName"`
	PatientPhone     string    `bson:"patientPhone" json:"patientPhone"`
	PatientAddress   string    `bson:"patientAddress,omitempty" json:"patientAddress,omitempty"`
	DoctorName       string    `bson:"doctorName" json:"doctorName"`
	PrescriptionDate time.Time `bson:"prescriptionDate" json:"prescriptionDate"`
	OrderTime        string    `bson:"orderTime" json:"orderTime"`

	Status       OrderStatus       `bson:"status" json:"status"`
	Priority     OrderPriority     `bson:"priority" json:"priority"`
	DeliveryType DeliveryType      `bson:"deliveryType" json:"deliveryType"`
	Medications  []OrderMedication `bson:"medications" json:"medications"`
	TotalAmount  float64           `bson:"totalAmount" json:"totalAmount"`
	Notes        string            `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// FormatOrderID renders the human-readable sequential code for the n-th
// order, zero-padded to three digits. Minting it from a collection count is
// racy under concurrent creation; the opaque _id stays the uniqueness
// guarantee.
func FormatOrderID(n int64) string {
	return fmt.Sprintf("ORD-%03d", n)
}

// TotalFromPrescription derives an order total from a prescription's line
// items. The as-built create-order path takes the caller's total at face
// value; this is the prescription-derived alternative kept alongside it.
func TotalFromPrescription(p *Prescription) float64 {
	if p == nil {
		return 0
	}
	return TotalAmount(p.Medications)
}

// OrderView joins patient and doctor display fields for list rendering.
type OrderView struct {
	Order `bson:",inline"`

	PatientInfo *PatientSummary `json:"patientInfo,omitempty"`
	DoctorInfo  *DoctorSummary  `json:"doctorInfo,omitempty"`
}

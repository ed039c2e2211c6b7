// Package events defines the NATS subjects and payloads the services
// publish and the workers consume.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Subject roots. Concrete messages append the entity id, e.g.
// "nabh.appointment.created.66f1...". Workers subscribe with the ".*"
// wildcard.
const (
	SubjectAppointmentCreated = "nabh.appointment.created"
	SubjectOrderStatusChanged = "nabh.order.status"
)

// AppointmentCreated is emitted after a booking is persisted.
type AppointmentCreated struct {
	AppointmentID string    `json:"appointmentId"`
	PatientID     string    `json:"patientId"`
	DoctorID      string    `json:"doctorId"`
	PatientPhone  string    `json:"patientPhone,omitempty"`
	DoctorName    string    `json:"doctorName"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	Type          string    `json:"type"`
}

// OrderStatusChanged is emitted when a pharmacy moves an order through
// its lifecycle.
type OrderStatusChanged struct {
	OrderID    string `json:"orderId"`   // human-readable ORD-xxx code
	OrderRef   string `json:"orderRef"`  // document id
	PatientID  string `json:"patientId"`
	PharmacyID string `json:"pharmacyId"`
	Status     string `json:"status"`
}

// Publisher is the service-facing sender. The NATS implementation is used
// in production; tests substitute a recorder.
type Publisher interface {
	AppointmentCreated(ctx context.Context, ev AppointmentCreated) error
	OrderStatusChanged(ctx context.Context, ev OrderStatusChanged) error
}

type natsPublisher struct {
	nc *nats.Conn
}

// NewNatsPublisher wraps an established NATS connection.
func NewNatsPublisher(nc *nats.Conn) Publisher {
	return &natsPublisher{nc: nc}
}

func (p *natsPublisher) AppointmentCreated(_ context.Context, ev AppointmentCreated) error {
	return p.publish(SubjectAppointmentCreated+"."+ev.AppointmentID, ev)
}

func (p *natsPublisher) OrderStatusChanged(_ context.Context, ev OrderStatusChanged) error {
	return p.publish(SubjectOrderStatusChanged+"."+ev.OrderRef, ev)
}

func (p *natsPublisher) publish(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", subject, err)
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Nop is a Publisher that drops everything. It stands in when NATS is
// not configured so services never have to nil-check.
type Nop struct{}

func (Nop) AppointmentCreated(context.Context, AppointmentCreated) error { return nil }
func (Nop) OrderStatusChanged(context.Context, OrderStatusChanged) error { return nil }

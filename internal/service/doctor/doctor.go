// Package doctor implements the doctor-facing operations: the appointment
// worklist, consultation updates, prescriptions, patient record access and
// the availability flag.
//
// Record access is deliberately not restricted to the doctor's own patients;
// the platform treats every registered doctor as authorized to review
// records a patient shares.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/internal/store"
)

type CreatePrescriptionRequest struct {
	PatientID              string             `json:"patientId"`
	AppointmentID          string             `json:"appointmentId"`
	Diagnosis              string             `json:"diagnosis"`
	Medications            []model.Medication `json:"medications"`
	AdditionalInstructions string             `json:"additionalInstructions"`
	FollowUpDate           *time.Time         `json:"followUpDate"`
}

// DashboardStats mixes today-bounded appointment counters with all-time
// patient and prescription totals.
type DashboardStats struct {
	TotalAppointments  int64 `json:"totalAppointments"`
	Completed          int64 `json:"completed"`
	Pending            int64 `json:"pending"`
	Cancelled          int64 `json:"cancelled"`
	TotalPatients      int   `json:"totalPatients"`
	TotalPrescriptions int64 `json:"totalPrescriptions"`
}

type Service interface {
	Appointments(ctx context.Context, doctorID bson.ObjectID) ([]model.AppointmentView, error)
	UpdateAppointmentStatus(ctx context.Context, doctorID, appointmentID bson.ObjectID, status model.AppointmentStatus) (*model.Appointment, error)
	UpdateConsultation(ctx context.Context, doctorID, appointmentID bson.ObjectID, upd model.ConsultationUpdate) (*model.Appointment, error)

	CreatePrescription(ctx context.Context, doctorID bson.ObjectID, req CreatePrescriptionRequest) (*model.Prescription, error)
	Prescriptions(ctx context.Context, doctorID bson.ObjectID) ([]model.PrescriptionView, error)

	PatientRecords(ctx context.Context, patientID bson.ObjectID) ([]model.MedicalRecordView, error)
	Dashboard(ctx context.Context, doctorID bson.ObjectID) (*DashboardStats, error)
	SetAvailability(ctx context.Context, doctorID bson.ObjectID, available bool) (*model.User, error)
}

type doctorService struct {
	users         store.UserStore
	appointments  store.AppointmentStore
	records       store.MedicalRecordStore
	prescriptions store.PrescriptionStore
	log           *slog.Logger
}

func New(
	users store.UserStore,
	appointments store.AppointmentStore,
	records store.MedicalRecordStore,
	prescriptions store.PrescriptionStore,
	log *slog.Logger,
) Service {
	return &doctorService{
		users:         users,
		appointments:  appointments,
		records:       records,
		prescriptions: prescriptions,
		log:           log,
	}
}

func (s *doctorService) Appointments(ctx context.Context, doctorID bson.ObjectID) ([]model.AppointmentView, error) {
	appts, err := s.appointments.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	ids := make([]bson.ObjectID, 0, len(appts))
	for _, a := range appts {
		ids = append(ids, a.Patient)
	}
	patients, err := s.users.PatientSummaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve patients: %w", err)
	}

	out := make([]model.AppointmentView, 0, len(appts))
	for _, a := range appts {
		view := model.AppointmentView{Appointment: a}
		if p, ok := patients[a.Patient]; ok {
			view.PatientInfo = &p
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *doctorService) UpdateAppointmentStatus(ctx context.Context, doctorID, appointmentID bson.ObjectID, status model.AppointmentStatus) (*model.Appointment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if _, err := s.appointments.GetOwned(ctx, appointmentID, "doctor", doctorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}

	updated, err := s.appointments.UpdateFields(ctx, appointmentID, bson.M{"status": status})
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return updated, nil
}

func (s *doctorService) UpdateConsultation(ctx context.Context, doctorID, appointmentID bson.ObjectID, upd model.ConsultationUpdate) (*model.Appointment, error) {
	appt, err := s.appointments.GetOwned(ctx, appointmentID, "doctor", doctorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}

	fields := upd.Fields()
	if len(fields) == 0 {
		return appt, nil
	}

	updated, err := s.appointments.UpdateFields(ctx, appointmentID, fields)
	if err != nil {
		return nil, fmt.Errorf("update consultation: %w", err)
	}
	return updated, nil
}

func (s *doctorService) CreatePrescription(ctx context.Context, doctorID bson.ObjectID, req CreatePrescriptionRequest) (*model.Prescription, error) {
	if req.PatientID == "" || req.Diagnosis == "" || len(req.Medications) == 0 {
		return nil, ErrMissingPrescriptionFields
	}
	patientID, err := bson.ObjectIDFromHex(req.PatientID)
	if err != nil {
		return nil, ErrInvalidPatientID
	}

	p := &model.Prescription{
		Patient:                patientID,
		Doctor:                 doctorID,
		Diagnosis:              req.Diagnosis,
		Medications:            req.Medications,
		AdditionalInstructions: req.AdditionalInstructions,
		FollowUpDate:           req.FollowUpDate,
		TotalAmount:            model.TotalAmount(req.Medications),
	}

	var appointmentID *bson.ObjectID
	if req.AppointmentID != "" {
		if id, err := bson.ObjectIDFromHex(req.AppointmentID); err == nil {
			appointmentID = &id
			p.Appointment = appointmentID
		}
	}

	if err := s.prescriptions.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create prescription: %w", err)
	}

	// Second, independent write. If it fails the prescription still exists
	// and the appointment keeps its previous consultation fields.
	if appointmentID != nil {
		_, err := s.appointments.UpdateFields(ctx, *appointmentID, bson.M{
			"diagnosis":         req.Diagnosis,
			"consultationNotes": req.AdditionalInstructions,
		})
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			s.log.Warn("appointment back-fill failed",
				"prescription", p.ID.Hex(),
				"appointment", appointmentID.Hex(),
				"error", err)
		}
	}

	return p, nil
}

func (s *doctorService) Prescriptions(ctx context.Context, doctorID bson.ObjectID) ([]model.PrescriptionView, error) {
	prescs, err := s.prescriptions.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}

	ids := make([]bson.ObjectID, 0, len(prescs))
	for _, p := range prescs {
		ids = append(ids, p.Patient)
	}
	patients, err := s.users.PatientSummaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve patients: %w", err)
	}

	out := make([]model.PrescriptionView, 0, len(prescs))
	for _, p := range prescs {
		view := model.PrescriptionView{Prescription: p}
		if ps, ok := patients[p.Patient]; ok {
			view.PatientInfo = &ps
		}
		if p.Appointment != nil {
			appt, err := s.appointments.GetOwned(ctx, *p.Appointment, "doctor", doctorID)
			if err == nil {
				view.AppointmentInfo = &model.AppointmentSummary{
					ID:   appt.ID,
					Date: appt.Date,
					Time: appt.Time,
					Type: appt.Type,
				}
			} else if !errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("resolve appointment: %w", err)
			}
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *doctorService) PatientRecords(ctx context.Context, patientID bson.ObjectID) ([]model.MedicalRecordView, error) {
	recs, err := s.records.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	ids := make([]bson.ObjectID, 0, len(recs))
	for _, r := range recs {
		if !r.Doctor.IsZero() {
			ids = append(ids, r.Doctor)
		}
	}
	doctors, err := s.users.DoctorSummaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve doctors: %w", err)
	}

	out := make([]model.MedicalRecordView, 0, len(recs))
	for _, r := range recs {
		view := model.MedicalRecordView{MedicalRecord: r}
		if d, ok := doctors[r.Doctor]; ok {
			view.DoctorInfo = &d
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *doctorService) Dashboard(ctx context.Context, doctorID bson.ObjectID) (*DashboardStats, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	today := store.AppointmentFilter{From: &dayStart, To: &dayEnd}

	total, err := s.appointments.CountByDoctor(ctx, doctorID, today)
	if err != nil {
		return nil, fmt.Errorf("count today: %w", err)
	}
	completed, err := s.appointments.CountByDoctor(ctx, doctorID, store.AppointmentFilter{
		Statuses: []model.AppointmentStatus{model.AppointmentCompleted},
		From:     &dayStart, To: &dayEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("count completed: %w", err)
	}
	pending, err := s.appointments.CountByDoctor(ctx, doctorID, store.AppointmentFilter{
		Statuses: []model.AppointmentStatus{model.AppointmentPending, model.AppointmentConfirmed},
		From:     &dayStart, To: &dayEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("count pending: %w", err)
	}
	cancelled, err := s.appointments.CountByDoctor(ctx, doctorID, store.AppointmentFilter{
		Statuses: []model.AppointmentStatus{model.AppointmentCancelled},
		From:     &dayStart, To: &dayEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("count cancelled: %w", err)
	}

	patients, err := s.appointments.DistinctPatients(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("distinct patients: %w", err)
	}
	prescriptions, err := s.prescriptions.CountByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("count prescriptions: %w", err)
	}

	return &DashboardStats{
		TotalAppointments:  total,
		Completed:          completed,
		Pending:            pending,
		Cancelled:          cancelled,
		TotalPatients:      len(patients),
		TotalPrescriptions: prescriptions,
	}, nil
}

func (s *doctorService) SetAvailability(ctx context.Context, doctorID bson.ObjectID, available bool) (*model.User, error) {
	u, err := s.users.UpdateFields(ctx, doctorID, bson.M{"isAvailable": available})
	if err != nil {
		return nil, fmt.Errorf("update availability: %w", err)
	}
	u.Password = ""
	return u, nil
}

// Package patient implements the patient-facing operations: booking,
// appointment history, medical records, the AI symptom checker, medicine
// search and the dashboard counters.
package patient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nabhcare/nabh-backend/internal/events"
	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/internal/store"
	"github.com/nabhcare/nabh-backend/pkg/ai"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type BookAppointmentRequest struct {
	DoctorID string                `json:"doctorid"`
	Date     time.Time             `json:"date"`
	Time     string                `json:"time"`
	Type     model.AppointmentType `json:"type"`
	Symptoms string                `json:"symptoms"`
	Duration string                `json:"duration"`
}

type UploadRecordRequest struct {
	FileURL     string           `json:"fileurl"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Type        model.RecordType `json:"type"`
}

// SymptomCheckResult echoes the normalized symptom list next to the
// model's suggestion so the client can show what was actually analyzed.
type SymptomCheckResult struct {
	Symptoms           []string `json:"symptoms"`
	PossibleConditions string   `json:"possibleconditions"`
}

// DashboardStats are independent point-in-time counters; they are not a
// snapshot and may disagree with each other under concurrent writes.
type DashboardStats struct {
	TotalAppointments     int64 `json:"totalAppointments"`
	UpcomingAppointments  int64 `json:"upcomingAppointments"`
	CompletedAppointments int64 `json:"completedAppointments"`
	TotalRecords          int64 `json:"totalRecords"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	BookAppointment(ctx context.Context, patientID bson.ObjectID, req BookAppointmentRequest) (*model.Appointment, error)
	Appointments(ctx context.Context, patientID bson.ObjectID) ([]model.AppointmentView, error)
	CancelAppointment(ctx context.Context, patientID, appointmentID bson.ObjectID) (*model.Appointment, error)

	UploadRecord(ctx context.Context, patientID bson.ObjectID, req UploadRecordRequest) (*model.MedicalRecord, error)
	Records(ctx context.Context, patientID bson.ObjectID) ([]model.MedicalRecordView, error)

	CheckSymptoms(ctx context.Context, symptoms []string, rawSymptoms string) (*SymptomCheckResult, error)
	SearchMedicine(ctx context.Context, name string) ([]model.Pharmacy, error)
	Dashboard(ctx context.Context, patientID bson.ObjectID) (*DashboardStats, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type patientService struct {
	users        store.UserStore
	appointments store.AppointmentStore
	records      store.MedicalRecordStore
	pharmacies   store.PharmacyStore
	checker      *ai.Client
	pub          events.Publisher
	log          *slog.Logger
}

func New(
	users store.UserStore,
	appointments store.AppointmentStore,
	records store.MedicalRecordStore,
	pharmacies store.PharmacyStore,
	checker *ai.Client,
	pub events.Publisher,
	log *slog.Logger,
) Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &patientService{
		users:        users,
		appointments: appointments,
		records:      records,
		pharmacies:   pharmacies,
		checker:      checker,
		pub:          pub,
		log:          log,
	}
}

func (s *patientService) BookAppointment(ctx context.Context, patientID bson.ObjectID, req BookAppointmentRequest) (*model.Appointment, error) {
	if req.DoctorID == "" || req.Date.IsZero() || strings.TrimSpace(req.Time) == "" {
		return nil, ErrMissingBookingFields
	}

	doctorID, err := bson.ObjectIDFromHex(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}

	doctor, err := s.users.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if doctor.Role != model.RoleDoctor {
		return nil, ErrNotADoctor
	}

	apptType := req.Type
	if apptType == "" {
		apptType = model.AppointmentClinic
	}
	duration := req.Duration
	if duration == "" {
		duration = "30 min"
	}

	appt := &model.Appointment{
		Patient:  patientID,
		Doctor:   doctorID,
		Date:     req.Date,
		Time:     strings.TrimSpace(req.Time),
		Type:     apptType,
		Duration: duration,
		Status:   model.AppointmentPending,
		Symptoms: strings.TrimSpace(req.Symptoms),
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	patient, err := s.users.GetByID(ctx, patientID)
	if err != nil {
		// The booking succeeded; the event just loses the phone field.
		patient = &model.User{}
	}

	if err := s.pub.AppointmentCreated(ctx, events.AppointmentCreated{
		AppointmentID: appt.ID.Hex(),
		PatientID:     patientID.Hex(),
		DoctorID:      doctorID.Hex(),
		PatientPhone:  patient.Phone,
		DoctorName:    doctor.Name,
		Date:          appt.Date,
		Time:          appt.Time,
		Type:          string(appt.Type),
	}); err != nil {
		s.log.Warn("appointment event publish failed", "appointment", appt.ID.Hex(), "error", err)
	}

	return appt, nil
}

func (s *patientService) Appointments(ctx context.Context, patientID bson.ObjectID) ([]model.AppointmentView, error) {
	appts, err := s.appointments.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	ids := make([]bson.ObjectID, 0, len(appts))
	for _, a := range appts {
		ids = append(ids, a.Doctor)
	}
	doctors, err := s.users.DoctorSummaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve doctors: %w", err)
	}

	out := make([]model.AppointmentView, 0, len(appts))
	for _, a := range appts {
		view := model.AppointmentView{Appointment: a}
		if d, ok := doctors[a.Doctor]; ok {
			view.DoctorInfo = &d
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *patientService) CancelAppointment(ctx context.Context, patientID, appointmentID bson.ObjectID) (*model.Appointment, error) {
	appt, err := s.appointments.GetOwned(ctx, appointmentID, "patient", patientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}

	switch appt.Status {
	case model.AppointmentPending, model.AppointmentConfirmed:
		// cancellable
	default:
		return nil, ErrNotCancellable
	}

	updated, err := s.appointments.UpdateFields(ctx, appointmentID, bson.M{"status": model.AppointmentCancelled})
	if err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	return updated, nil
}

func (s *patientService) UploadRecord(ctx context.Context, patientID bson.ObjectID, req UploadRecordRequest) (*model.MedicalRecord, error) {
	if strings.TrimSpace(req.FileURL) == "" {
		return nil, ErrFileURLRequired
	}

	recType := req.Type
	if recType == "" {
		recType = model.RecordConsultation
	}

	rec := &model.MedicalRecord{
		Patient:     patientID,
		Type:        recType,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		FileURL:     strings.TrimSpace(req.FileURL),
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}
	return rec, nil
}

func (s *patientService) Records(ctx context.Context, patientID bson.ObjectID) ([]model.MedicalRecordView, error) {
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

// CheckSymptoms accepts either an explicit list or free text; free text is
// split on commas, semicolons and newlines. Blank entries are dropped.
func (s *patientService) CheckSymptoms(ctx context.Context, symptoms []string, rawSymptoms string) (*SymptomCheckResult, error) {
	normalized := NormalizeSymptoms(symptoms, rawSymptoms)
	if len(normalized) == 0 {
		return nil, ErrNoSymptoms
	}

	suggestion, err := s.checker.Suggest(ctx, normalized)
	if err != nil {
		return nil, err
	}

	return &SymptomCheckResult{
		Symptoms:           normalized,
		PossibleConditions: suggestion,
	}, nil
}

func (s *patientService) SearchMedicine(ctx context.Context, name string) ([]model.Pharmacy, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return []model.Pharmacy{}, nil
	}
	pharmacies, err := s.pharmacies.SearchByMedicineName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("search medicine: %w", err)
	}
	return pharmacies, nil
}

func (s *patientService) Dashboard(ctx context.Context, patientID bson.ObjectID) (*DashboardStats, error) {
	now := time.Now()

	total, err := s.appointments.CountByPatient(ctx, patientID, store.AppointmentFilter{})
	if err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}
	upcoming, err := s.appointments.CountByPatient(ctx, patientID, store.AppointmentFilter{
		Statuses: []model.AppointmentStatus{model.AppointmentPending, model.AppointmentConfirmed},
		From:     &now,
	})
	if err != nil {
		return nil, fmt.Errorf("count upcoming: %w", err)
	}
	completed, err := s.appointments.CountByPatient(ctx, patientID, store.AppointmentFilter{
		Statuses: []model.AppointmentStatus{model.AppointmentCompleted},
	})
	if err != nil {
		return nil, fmt.Errorf("count completed: %w", err)
	}
	records, err := s.records.CountByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	return &DashboardStats{
		TotalAppointments:     total,
		UpcomingAppointments:  upcoming,
		CompletedAppointments: completed,
		TotalRecords:          records,
	}, nil
}

// NormalizeSymptoms merges the list and free-text inputs into a trimmed,
// non-empty symptom slice.
func NormalizeSymptoms(symptoms []string, raw string) []string {
	var out []string
	for _, s := range symptoms {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	if len(out) > 0 {
		return out
	}

	split := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	for _, s := range split {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

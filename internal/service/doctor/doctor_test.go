package doctor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/internal/store/storetest"
)

type fixture struct {
	svc           Service
	users         *storetest.Users
	appointments  *storetest.Appointments
	records       *storetest.MedicalRecords
	prescriptions *storetest.Prescriptions

	doctor  *model.User
	patient *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:         storetest.NewUsers(),
		appointments:  storetest.NewAppointments(),
		records:       storetest.NewMedicalRecords(),
		prescriptions: storetest.NewPrescriptions(),
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = New(f.users, f.appointments, f.records, f.prescriptions, log)

	ctx := context.Background()
	f.doctor = &model.User{Name: "Meera", Email: "d@example.com", Role: model.RoleDoctor, Specialization: "Cardiology"}
	f.patient = &model.User{Name: "Asha", Email: "p@example.com", Role: model.RolePatient, Age: 34}
	if err := f.users.Create(ctx, f.doctor); err != nil {
		t.Fatalf("seed doctor: %v", err)
	}
	if err := f.users.Create(ctx, f.patient); err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return f
}

func (f *fixture) seedAppointment(t *testing.T, date time.Time, status model.AppointmentStatus) *model.Appointment {
	t.Helper()
	a := &model.Appointment{
		Patient: f.patient.ID,
		Doctor:  f.doctor.ID,
		Date:    date,
		Time:    "10:00",
		Type:    model.AppointmentClinic,
		Status:  status,
	}
	if err := f.appointments.Create(context.Background(), a); err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
	return a
}

func TestAppointmentsJoinsPatientInfo(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, time.Now().Add(time.Hour), model.AppointmentPending)

	views, err := f.svc.Appointments(context.Background(), f.doctor.ID)
	if err != nil {
		t.Fatalf("Appointments: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("appointments = %d", len(views))
	}
	if views[0].PatientInfo == nil || views[0].PatientInfo.Age != 34 {
		t.Errorf("patient info not joined: %+v", views[0].PatientInfo)
	}
}

func TestUpdateAppointmentStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.seedAppointment(t, time.Now().Add(time.Hour), model.AppointmentPending)

	got, err := f.svc.UpdateAppointmentStatus(ctx, f.doctor.ID, appt.ID, model.AppointmentConfirmed)
	if err != nil {
		t.Fatalf("UpdateAppointmentStatus: %v", err)
	}
	if got.Status != model.AppointmentConfirmed {
		t.Errorf("status = %q", got.Status)
	}

	if _, err := f.svc.UpdateAppointmentStatus(ctx, f.doctor.ID, appt.ID, "rescheduled"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("unknown status: want ErrInvalidStatus, got %v", err)
	}

	otherDoctor := &model.User{Name: "Ravi", Email: "d2@example.com", Role: model.RoleDoctor}
	if err := f.users.Create(ctx, otherDoctor); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.svc.UpdateAppointmentStatus(ctx, otherDoctor.ID, appt.ID, model.AppointmentCompleted); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("foreign appointment: want ErrAppointmentNotFound, got %v", err)
	}
}

func TestUpdateConsultationPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.seedAppointment(t, time.Now(), model.AppointmentInProgress)

	diagnosis := "migraine"
	first, err := f.svc.UpdateConsultation(ctx, f.doctor.ID, appt.ID, model.ConsultationUpdate{
		Diagnosis:  &diagnosis,
		VitalSigns: &model.VitalSigns{BloodPressure: "120/80"},
	})
	if err != nil {
		t.Fatalf("UpdateConsultation: %v", err)
	}
	if first.Diagnosis != "migraine" || first.VitalSigns == nil {
		t.Fatalf("first update not applied: %+v", first)
	}

	// A later update touching other fields must not clear the earlier ones.
	notes := "follow up in two weeks"
	second, err := f.svc.UpdateConsultation(ctx, f.doctor.ID, appt.ID, model.ConsultationUpdate{
		ConsultationNotes: &notes,
	})
	if err != nil {
		t.Fatalf("UpdateConsultation: %v", err)
	}
	if second.Diagnosis != "migraine" {
		t.Errorf("diagnosis lost on partial update: %q", second.Diagnosis)
	}
	if second.ConsultationNotes != notes {
		t.Errorf("notes = %q", second.ConsultationNotes)
	}

	// No fields supplied is a no-op that returns the current document.
	third, err := f.svc.UpdateConsultation(ctx, f.doctor.ID, appt.ID, model.ConsultationUpdate{})
	if err != nil {
		t.Fatalf("UpdateConsultation: %v", err)
	}
	if third.Diagnosis != "migraine" || third.ConsultationNotes != notes {
		t.Errorf("no-op changed the document: %+v", third)
	}
}

func TestCreatePrescription(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.seedAppointment(t, time.Now(), model.AppointmentInProgress)

	meds := []model.Medication{
		{Name: "Paracetamol", Dosage: "500mg", Frequency: "2x daily", Duration: "5 days", Price: 40},
		{Name: "Cetirizine", Dosage: "10mg", Frequency: "1x daily", Duration: "5 days"},
	}
	p, err := f.svc.CreatePrescription(ctx, f.doctor.ID, CreatePrescriptionRequest{
		PatientID:              f.patient.ID.Hex(),
		AppointmentID:          appt.ID.Hex(),
		Diagnosis:              "allergic rhinitis",
		Medications:            meds,
		AdditionalInstructions: "avoid dust exposure",
	})
	if err != nil {
		t.Fatalf("CreatePrescription: %v", err)
	}

	if p.TotalAmount != 40 {
		t.Errorf("totalAmount = %v, want 40 (missing price counts as 0)", p.TotalAmount)
	}
	if p.Status != model.PrescriptionActive {
		t.Errorf("status = %q", p.Status)
	}
	if p.Appointment == nil || *p.Appointment != appt.ID {
		t.Errorf("appointment ref = %v", p.Appointment)
	}

	// The referenced appointment picks up diagnosis and notes.
	got, err := f.appointments.GetOwned(ctx, appt.ID, "doctor", f.doctor.ID)
	if err != nil {
		t.Fatalf("reload appointment: %v", err)
	}
	if got.Diagnosis != "allergic rhinitis" || got.ConsultationNotes != "avoid dust exposure" {
		t.Errorf("back-fill missing: diagnosis=%q notes=%q", got.Diagnosis, got.ConsultationNotes)
	}
}

func TestCreatePrescriptionValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	meds := []model.Medication{{Name: "Paracetamol", Price: 40}}

	cases := []struct {
		name    string
		req     CreatePrescriptionRequest
		wantErr error
	}{
		{"missing patient", CreatePrescriptionRequest{Diagnosis: "x", Medications: meds}, ErrMissingPrescriptionFields},
		{"missing diagnosis", CreatePrescriptionRequest{PatientID: f.patient.ID.Hex(), Medications: meds}, ErrMissingPrescriptionFields},
		{"empty medications", CreatePrescriptionRequest{PatientID: f.patient.ID.Hex(), Diagnosis: "x"}, ErrMissingPrescriptionFields},
		{"malformed patient id", CreatePrescriptionRequest{PatientID: "nope", Diagnosis: "x", Medications: meds}, ErrInvalidPatientID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreatePrescription(ctx, f.doctor.ID, tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("want %v, got %v", tc.wantErr, err)
			}
		})
	}

	if n, _ := f.prescriptions.CountByDoctor(ctx, f.doctor.ID); n != 0 {
		t.Errorf("prescriptions created on failed requests: %d", n)
	}
}

func TestPrescriptionsJoins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.seedAppointment(t, time.Now(), model.AppointmentCompleted)

	_, err := f.svc.CreatePrescription(ctx, f.doctor.ID, CreatePrescriptionRequest{
		PatientID:     f.patient.ID.Hex(),
		AppointmentID: appt.ID.Hex(),
		Diagnosis:     "flu",
		Medications:   []model.Medication{{Name: "Oseltamivir", Price: 250}},
	})
	if err != nil {
		t.Fatalf("CreatePrescription: %v", err)
	}

	views, err := f.svc.Prescriptions(ctx, f.doctor.ID)
	if err != nil {
		t.Fatalf("Prescriptions: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("prescriptions = %d", len(views))
	}
	v := views[0]
	if v.PatientInfo == nil || v.PatientInfo.Name != "Asha" {
		t.Errorf("patient info = %+v", v.PatientInfo)
	}
	if v.AppointmentInfo == nil || v.AppointmentInfo.ID != appt.ID {
		t.Errorf("appointment info = %+v", v.AppointmentInfo)
	}
}

func TestPatientRecordsUnrestricted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec := &model.MedicalRecord{
		Patient: f.patient.ID,
		Doctor:  f.doctor.ID,
		Type:    model.RecordLabReport,
		Title:   "CBC",
	}
	if err := f.records.Create(ctx, rec); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	views, err := f.svc.PatientRecords(ctx, f.patient.ID)
	if err != nil {
		t.Fatalf("PatientRecords: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("records = %d", len(views))
	}
	if views[0].DoctorInfo == nil || views[0].DoctorInfo.Specialization != "Cardiology" {
		t.Errorf("doctor info = %+v", views[0].DoctorInfo)
	}
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	now := time.Now()
	f.seedAppointment(t, now, model.AppointmentPending)
	f.seedAppointment(t, now, model.AppointmentCompleted)
	f.seedAppointment(t, now, model.AppointmentCancelled)
	// Outside today's window; counts toward distinct patients only.
	f.seedAppointment(t, now.AddDate(0, 0, -3), model.AppointmentCompleted)

	if _, err := f.svc.CreatePrescription(ctx, f.doctor.ID, CreatePrescriptionRequest{
		PatientID:   f.patient.ID.Hex(),
		Diagnosis:   "flu",
		Medications: []model.Medication{{Name: "Oseltamivir"}},
	}); err != nil {
		t.Fatalf("seed prescription: %v", err)
	}

	stats, err := f.svc.Dashboard(ctx, f.doctor.ID)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if stats.TotalAppointments != 3 {
		t.Errorf("today total = %d", stats.TotalAppointments)
	}
	if stats.Completed != 1 || stats.Pending != 1 || stats.Cancelled != 1 {
		t.Errorf("today breakdown = %+v", stats)
	}
	if stats.TotalPatients != 1 {
		t.Errorf("distinct patients = %d", stats.TotalPatients)
	}
	if stats.TotalPrescriptions != 1 {
		t.Errorf("prescriptions = %d", stats.TotalPrescriptions)
	}
}

func TestSetAvailability(t *testing.T) {
	f := newFixture(t)

	u, err := f.svc.SetAvailability(context.Background(), f.doctor.ID, false)
	if err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}
	if u.IsAvailable == nil || *u.IsAvailable {
		t.Errorf("isAvailable = %v, want false", u.IsAvailable)
	}
	if u.Password != "" {
		t.Error("password leaked in response")
	}
}

package patient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nabhcare/nabh-backend/config"
	"github.com/nabhcare/nabh-backend/internal/events"
	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/internal/store/storetest"
	"github.com/nabhcare/nabh-backend/pkg/ai"
)

type eventRecorder struct {
	appointments []events.AppointmentCreated
	orders       []events.OrderStatusChanged
}

func (r *eventRecorder) AppointmentCreated(_ context.Context, ev events.AppointmentCreated) error {
	r.appointments = append(r.appointments, ev)
	return nil
}

func (r *eventRecorder) OrderStatusChanged(_ context.Context, ev events.OrderStatusChanged) error {
	r.orders = append(r.orders, ev)
	return nil
}

type fixture struct {
	svc          Service
	users        *storetest.Users
	appointments *storetest.Appointments
	records      *storetest.MedicalRecords
	pharmacies   *storetest.Pharmacies
	events       *eventRecorder
}

func newFixture(t *testing.T, checker *ai.Client) *fixture {
	t.Helper()

	f := &fixture{
		users:        storetest.NewUsers(),
		appointments: storetest.NewAppointments(),
		records:      storetest.NewMedicalRecords(),
		pharmacies:   storetest.NewPharmacies(),
		events:       &eventRecorder{},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = New(f.users, f.appointments, f.records, f.pharmacies, checker, f.events, log)
	return f
}

func (f *fixture) seedUser(t *testing.T, u model.User) *model.User {
	t.Helper()
	if err := f.users.Create(context.Background(), &u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &u
}

func TestBookAppointmentDefaults(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	patient := f.seedUser(t, model.User{Name: "Asha", Email: "p@example.com", Role: model.RolePatient, Phone: "+919876543210"})
	doctor := f.seedUser(t, model.User{Name: "Meera", Email: "d@example.com", Role: model.RoleDoctor})

	appt, err := f.svc.BookAppointment(ctx, patient.ID, BookAppointmentRequest{
		DoctorID: doctor.ID.Hex(),
		Date:     time.Now().Add(48 * time.Hour),
		Time:     "10:30",
		Symptoms: "headache",
	})
	if err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}

	if appt.Type != model.AppointmentClinic {
		t.Errorf("type = %q, want clinic default", appt.Type)
	}
	if appt.Duration != "30 min" {
		t.Errorf("duration = %q, want 30 min default", appt.Duration)
	}
	if appt.Status != model.AppointmentPending {
		t.Errorf("status = %q, want pending", appt.Status)
	}

	if len(f.events.appointments) != 1 {
		t.Fatalf("events published = %d, want 1", len(f.events.appointments))
	}
	ev := f.events.appointments[0]
	if ev.AppointmentID != appt.ID.Hex() || ev.DoctorName != "Meera" || ev.PatientPhone != "+919876543210" {
		t.Errorf("event payload = %+v", ev)
	}
}

func TestBookAppointmentValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	patient := f.seedUser(t, model.User{Name: "Asha", Email: "p@example.com", Role: model.RolePatient})
	otherPatient := f.seedUser(t, model.User{Name: "Ravi", Email: "p2@example.com", Role: model.RolePatient})

	date := time.Now().Add(24 * time.Hour)

	cases := []struct {
		name    string
		req     BookAppointmentRequest
		wantErr error
	}{
		{"missing doctor", BookAppointmentRequest{Date: date, Time: "10:00"}, ErrMissingBookingFields},
		{"missing date", BookAppointmentRequest{DoctorID: otherPatient.ID.Hex(), Time: "10:00"}, ErrMissingBookingFields},
		{"missing time", BookAppointmentRequest{DoctorID: otherPatient.ID.Hex(), Date: date}, ErrMissingBookingFields},
		{"unknown doctor", BookAppointmentRequest{DoctorID: bson.NewObjectID().Hex(), Date: date, Time: "10:00"}, ErrDoctorNotFound},
		{"malformed doctor id", BookAppointmentRequest{DoctorID: "not-an-id", Date: date, Time: "10:00"}, ErrDoctorNotFound},
		{"doctor is a patient", BookAppointmentRequest{DoctorID: otherPatient.ID.Hex(), Date: date, Time: "10:00"}, ErrNotADoctor},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.BookAppointment(ctx, patient.ID, tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("want %v, got %v", tc.wantErr, err)
			}
		})
	}

	if len(f.events.appointments) != 0 {
		t.Errorf("events published on failed bookings: %d", len(f.events.appointments))
	}
}

func TestAppointmentsJoinsDoctorInfo(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	patient := f.seedUser(t, model.User{Name: "Asha", Email: "p@example.com", Role: model.RolePatient})
	doctor := f.seedUser(t, model.User{Name: "Meera", Email: "d@example.com", Role: model.RoleDoctor, Specialization: "Cardiology"})

	if _, err := f.svc.BookAppointment(ctx, patient.ID, BookAppointmentRequest{
		DoctorID: doctor.ID.Hex(), Date: time.Now().Add(time.Hour), Time: "09:00",
	}); err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}

	views, err := f.svc.Appointments(ctx, patient.ID)
	if err != nil {
		t.Fatalf("Appointments: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("appointments = %d", len(views))
	}
	if views[0].DoctorInfo == nil || views[0].DoctorInfo.Specialization != "Cardiology" {
		t.Errorf("doctor info not joined: %+v", views[0].DoctorInfo)
	}
}

func TestCancelAppointment(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	patient := f.seedUser(t, model.User{Name: "Asha", Email: "p@example.com", Role: model.RolePatient})
	doctor := f.seedUser(t, model.User{Name: "Meera", Email: "d@example.com", Role: model.RoleDoctor})

	appt, err := f.svc.BookAppointment(ctx, patient.ID, BookAppointmentRequest{
		DoctorID: doctor.ID.Hex(), Date: time.Now().Add(time.Hour), Time: "09:00",
	})
	if err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}

	// Someone else's appointment id is indistinguishable from a missing one.
	stranger := f.seedUser(t, model.User{Name: "Ravi", Email: "p2@example.com", Role: model.RolePatient})
	if _, err := f.svc.CancelAppointment(ctx, stranger.ID, appt.ID); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("foreign cancel: want ErrAppointmentNotFound, got %v", err)
	}

	got, err := f.svc.CancelAppointment(ctx, patient.ID, appt.ID)
	if err != nil {
		t.Fatalf("CancelAppointment: %v", err)
	}
	if got.Status != model.AppointmentCancelled {
		t.Errorf("status = %q", got.Status)
	}

	// A cancelled appointment cannot be cancelled again.
	if _, err := f.svc.CancelAppointment(ctx, patient.ID, appt.ID); !errors.Is(err, ErrNotCancellable) {
		t.Errorf("double cancel: want ErrNotCancellable, got %v", err)
	}
}

func TestUploadRecordRequiresFileURL(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	patient := f.seedUser(t, model.User{Name: "Asha", Email: "p@example.com", Role: model.RolePatient})

	_, err := f.svc.UploadRecord(ctx, patient.ID, UploadRecordRequest{Description: "x-ray"})
	if !errors.Is(err, ErrFileURLRequired) {
		t.Fatalf("want ErrFileURLRequired, got %v", err)
	}

	rec, err := f.svc.UploadRecord(ctx, patient.ID, UploadRecordRequest{
		FileURL: "https://files.example.com/x-ray.pdf",
		Title:   "Chest X-Ray",
	})
	if err != nil {
		t.Fatalf("UploadRecord: %v", err)
	}
	if rec.Status != model.RecordActive {
		t.Errorf("status = %q, want active default", rec.Status)
	}
	if rec.Date.IsZero() {
		t.Error("date not defaulted")
	}
}

func TestNormalizeSymptoms(t *testing.T) {
	cases := []struct {
		name string
		list []string
		raw  string
		want []string
	}{
		{"comma separated", nil, "fever, cough,  sore throat", []string{"fever", "cough", "sore throat"}},
		{"mixed separators", nil, "fever;cough\nheadache\r\nnausea", []string{"fever", "cough", "headache", "nausea"}},
		{"blank entries dropped", nil, "fever,, ,cough", []string{"fever", "cough"}},
		{"explicit list wins", []string{" fever ", ""}, "ignored", []string{"fever"}},
		{"empty", nil, " ,;\n", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeSymptoms(tc.list, tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("NormalizeSymptoms = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCheckSymptoms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "1. Common cold\n2. Influenza"}},
			},
		})
	}))
	defer srv.Close()

	checker := ai.NewFromCentral(config.AIConfig{APIKey: "sk-test", BaseURL: srv.URL})
	f := newFixture(t, checker)

	res, err := f.svc.CheckSymptoms(context.Background(), nil, "fever, cough")
	if err != nil {
		t.Fatalf("CheckSymptoms: %v", err)
	}
	if res.PossibleConditions == "" {
		t.Error("no suggestion returned")
	}
	if !reflect.DeepEqual(res.Symptoms, []string{"fever", "cough"}) {
		t.Errorf("symptoms = %v", res.Symptoms)
	}

	if _, err := f.svc.CheckSymptoms(context.Background(), nil, "  "); !errors.Is(err, ErrNoSymptoms) {
		t.Errorf("want ErrNoSymptoms, got %v", err)
	}
}

func TestCheckSymptomsUnconfiguredKey(t *testing.T) {
	f := newFixture(t, ai.NewFromCentral(config.AIConfig{}))

	_, err := f.svc.CheckSymptoms(context.Background(), []string{"fever"}, "")
	if !errors.Is(err, ai.ErrNotConfigured) {
		t.Fatalf("want ai.ErrNotConfigured, got %v", err)
	}
}

func TestSearchMedicine(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	owner := f.seedUser(t, model.User{Name: "City Pharmacy", Email: "ph@example.com", Role: model.RolePharmacy})
	err := f.pharmacies.Create(ctx, &model.Pharmacy{
		Owner: owner.ID,
		Name:  "City Pharmacy",
		Medicines: []model.Medicine{
			{ID: bson.NewObjectID(), Name: "Paracetamol 500mg", Stock: 40, MinStock: 10},
		},
	})
	if err != nil {
		t.Fatalf("seed pharmacy: %v", err)
	}

	hits, err := f.svc.SearchMedicine(ctx, "paracet")
	if err != nil {
		t.Fatalf("SearchMedicine: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d", len(hits))
	}

	none, err := f.svc.SearchMedicine(ctx, "insulin")
	if err != nil {
		t.Fatalf("SearchMedicine: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("unexpected hits: %d", len(none))
	}
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	patient := f.seedUser(t, model.User{Name: "Asha", Email: "p@example.com", Role: model.RolePatient})
	doctor := f.seedUser(t, model.User{Name: "Meera", Email: "d@example.com", Role: model.RoleDoctor})

	// upcoming pending
	if _, err := f.svc.BookAppointment(ctx, patient.ID, BookAppointmentRequest{
		DoctorID: doctor.ID.Hex(), Date: time.Now().Add(24 * time.Hour), Time: "09:00",
	}); err != nil {
		t.Fatalf("book: %v", err)
	}
	// past completed
	past := &model.Appointment{
		Patient: patient.ID, Doctor: doctor.ID,
		Date: time.Now().Add(-24 * time.Hour), Time: "09:00",
		Type: model.AppointmentClinic, Status: model.AppointmentCompleted,
	}
	if err := f.appointments.Create(ctx, past); err != nil {
		t.Fatalf("seed past appointment: %v", err)
	}
	if _, err := f.svc.UploadRecord(ctx, patient.ID, UploadRecordRequest{FileURL: "https://files.example.com/a.pdf"}); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	stats, err := f.svc.Dashboard(ctx, patient.ID)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if stats.TotalAppointments != 2 {
		t.Errorf("total = %d", stats.TotalAppointments)
	}
	if stats.UpcomingAppointments != 1 {
		t.Errorf("upcoming = %d", stats.UpcomingAppointments)
	}
	if stats.CompletedAppointments != 1 {
		t.Errorf("completed = %d", stats.CompletedAppointments)
	}
	if stats.TotalRecords != 1 {
		t.Errorf("records = %d", stats.TotalRecords)
	}
}

package pharmacy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nabhcare/nabh-backend/internal/events"
	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/internal/store/storetest"
)

type eventRecorder struct {
	orders []events.OrderStatusChanged
}

func (r *eventRecorder) AppointmentCreated(context.Context, events.AppointmentCreated) error {
	return nil
}

func (r *eventRecorder) OrderStatusChanged(_ context.Context, ev events.OrderStatusChanged) error {
	r.orders = append(r.orders, ev)
	return nil
}

type fixture struct {
	svc        Service
	users      *storetest.Users
	pharmacies *storetest.Pharmacies
	orders     *storetest.Orders
	events     *eventRecorder

	owner   *model.User
	patient *model.User
	doctor  *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:      storetest.NewUsers(),
		pharmacies: storetest.NewPharmacies(),
		orders:     storetest.NewOrders(),
		events:     &eventRecorder{},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = New(f.users, f.pharmacies, f.orders, f.events, log)

	ctx := context.Background()
	f.owner = &model.User{
		Name:          "Suresh",
		Email:         "ph@example.com",
		Role:          model.RolePharmacy,
		PharmacyName:  "City Pharmacy",
		LicenseNumber: "LIC-2231",
	}
	f.patient = &model.User{Name: "Asha", Email: "p@example.com", Role: model.RolePatient, Phone: "+919876543210"}
	f.doctor = &model.User{Name: "Meera", Email: "d@example.com", Role: model.RoleDoctor, Specialization: "Cardiology"}
	for _, u := range []*model.User{f.owner, f.patient, f.doctor} {
		if err := f.users.Create(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	return f
}

func TestAddMedicineLazyPharmacyCreation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// No pharmacy document yet.
	if _, err := f.svc.Medicines(ctx, f.owner.ID); !errors.Is(err, ErrPharmacyNotFound) {
		t.Fatalf("want ErrPharmacyNotFound before first add, got %v", err)
	}

	meds, err := f.svc.AddMedicine(ctx, f.owner.ID, AddMedicineRequest{Name: "Paracetamol 500mg", Stock: 40})
	if err != nil {
		t.Fatalf("AddMedicine: %v", err)
	}
	if len(meds) != 1 {
		t.Fatalf("medicines = %d", len(meds))
	}
	if meds[0].MinStock != model.DefaultMinStock {
		t.Errorf("minStock = %d, want default %d", meds[0].MinStock, model.DefaultMinStock)
	}

	ph, err := f.pharmacies.GetByOwner(ctx, f.owner.ID)
	if err != nil {
		t.Fatalf("pharmacy not created: %v", err)
	}
	if ph.Name != "City Pharmacy" || ph.LicenseNumber != "LIC-2231" {
		t.Errorf("pharmacy not seeded from profile: %+v", ph)
	}
}

func TestAddMedicineRequiresName(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.AddMedicine(context.Background(), f.owner.ID, AddMedicineRequest{Name: "  "}); !errors.Is(err, ErrMedicineNameRequired) {
		t.Fatalf("want ErrMedicineNameRequired, got %v", err)
	}
}

func TestUpdateMedicine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	meds, err := f.svc.AddMedicine(ctx, f.owner.ID, AddMedicineRequest{Name: "Paracetamol", Stock: 40})
	if err != nil {
		t.Fatalf("AddMedicine: %v", err)
	}
	medID := meds[0].ID.Hex()

	stock := 12
	upd, err := f.svc.UpdateMedicine(ctx, f.owner.ID, medID, UpdateMedicineRequest{Stock: &stock})
	if err != nil {
		t.Fatalf("UpdateMedicine: %v", err)
	}
	if upd.Stock != 12 {
		t.Errorf("stock = %d", upd.Stock)
	}
	if upd.MinStock != model.DefaultMinStock {
		t.Errorf("minStock changed on partial update: %d", upd.MinStock)
	}

	if _, err := f.svc.UpdateMedicine(ctx, f.owner.ID, "not-hex", UpdateMedicineRequest{Stock: &stock}); !errors.Is(err, ErrInvalidMedicineID) {
		t.Errorf("malformed id: want ErrInvalidMedicineID, got %v", err)
	}
	if _, err := f.svc.UpdateMedicine(ctx, f.owner.ID, bson.NewObjectID().Hex(), UpdateMedicineRequest{Stock: &stock}); !errors.Is(err, ErrMedicineNotFound) {
		t.Errorf("unknown id: want ErrMedicineNotFound, got %v", err)
	}
}

func TestRemoveMedicine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	meds, err := f.svc.AddMedicine(ctx, f.owner.ID, AddMedicineRequest{Name: "Paracetamol"})
	if err != nil {
		t.Fatalf("AddMedicine: %v", err)
	}
	if _, err := f.svc.AddMedicine(ctx, f.owner.ID, AddMedicineRequest{Name: "Cetirizine"}); err != nil {
		t.Fatalf("AddMedicine: %v", err)
	}

	rest, err := f.svc.RemoveMedicine(ctx, f.owner.ID, meds[0].ID.Hex())
	if err != nil {
		t.Fatalf("RemoveMedicine: %v", err)
	}
	if len(rest) != 1 || rest[0].Name != "Cetirizine" {
		t.Errorf("remaining = %+v", rest)
	}

	if _, err := f.svc.RemoveMedicine(ctx, f.owner.ID, meds[0].ID.Hex()); !errors.Is(err, ErrMedicineNotFound) {
		t.Errorf("repeat remove: want ErrMedicineNotFound, got %v", err)
	}
}

func TestLowStockBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		stock    int
		minStock int
		wantLow  bool
	}{
		{"below threshold", 3, 10, true},
		{"at threshold", 10, 10, true},
		{"above threshold", 11, 10, false},
	}

	for _, tc := range cases {
		if _, err := f.svc.AddMedicine(ctx, f.owner.ID, AddMedicineRequest{
			Name: tc.name, Stock: tc.stock, MinStock: tc.minStock,
		}); err != nil {
			t.Fatalf("AddMedicine %s: %v", tc.name, err)
		}
	}

	low, err := f.svc.LowStock(ctx, f.owner.ID)
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}

	got := make(map[string]bool, len(low))
	for _, m := range low {
		got[m.Name] = true
	}
	for _, tc := range cases {
		if got[tc.name] != tc.wantLow {
			t.Errorf("%s: low = %v, want %v", tc.name, got[tc.name], tc.wantLow)
		}
	}
}

func (f *fixture) createOrder(t *testing.T) *model.Order {
	t.Helper()
	o, err := f.svc.CreateOrder(context.Background(), f.owner.ID, CreateOrderRequest{
		PatientID:    f.patient.ID.Hex(),
		DoctorID:     f.doctor.ID.Hex(),
		PatientName:  "Asha",
		PatientPhone: "+919876543210",
		DoctorName:   "Meera",
		Medications:  []model.OrderMedication{{Name: "Paracetamol", Quantity: 2, Price: 40, InStock: true}},
		TotalAmount:  80,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	return o
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)

	o := f.createOrder(t)
	if o.OrderID != "ORD-001" {
		t.Errorf("orderId = %q", o.OrderID)
	}
	if o.Status != model.OrderPending || o.Priority != model.PriorityMedium || o.DeliveryType != model.DeliveryPickup {
		t.Errorf("defaults not applied: %+v", o)
	}
	// The caller's total is stored as supplied.
	if o.TotalAmount != 80 {
		t.Errorf("totalAmount = %v", o.TotalAmount)
	}

	second := f.createOrder(t)
	if second.OrderID != "ORD-002" {
		t.Errorf("second orderId = %q", second.OrderID)
	}

	if _, err := f.svc.CreateOrder(context.Background(), f.owner.ID, CreateOrderRequest{PatientID: "bad", DoctorID: f.doctor.ID.Hex()}); !errors.Is(err, ErrInvalidOrderRef) {
		t.Errorf("bad patient ref: want ErrInvalidOrderRef, got %v", err)
	}
}

// Two creations racing past the same count mint the same code; only the
// document id keeps them apart.
func TestOrderIDDuplicateUnderEqualCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	count, err := f.orders.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	first := &model.Order{
		OrderID: model.FormatOrderID(count + 1),
		Patient: f.patient.ID, Doctor: f.doctor.ID, Pharmacy: f.owner.ID,
		Status: model.OrderPending,
	}
	second := &model.Order{
		OrderID: model.FormatOrderID(count + 1),
		Patient: f.patient.ID, Doctor: f.doctor.ID, Pharmacy: f.owner.ID,
		Status: model.OrderPending,
	}
	if err := f.orders.Create(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := f.orders.Create(ctx, second); err != nil {
		t.Fatalf("create second: %v", err)
	}

	if first.OrderID != second.OrderID {
		t.Fatalf("expected colliding codes, got %q and %q", first.OrderID, second.OrderID)
	}
	if first.ID == second.ID {
		t.Error("document ids collided")
	}
}

func TestOrdersJoins(t *testing.T) {
	f := newFixture(t)
	f.createOrder(t)

	views, err := f.svc.Orders(context.Background(), f.owner.ID)
	if err != nil {
		t.Fatalf("Orders: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("orders = %d", len(views))
	}
	v := views[0]
	if v.PatientInfo == nil || v.PatientInfo.Phone != "+919876543210" {
		t.Errorf("patient info = %+v", v.PatientInfo)
	}
	if v.DoctorInfo == nil || v.DoctorInfo.Specialization != "Cardiology" {
		t.Errorf("doctor info = %+v", v.DoctorInfo)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.createOrder(t)

	got, err := f.svc.UpdateOrderStatus(ctx, f.owner.ID, o.ID, model.OrderPreparing)
	if err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	if got.Status != model.OrderPreparing {
		t.Errorf("status = %q", got.Status)
	}

	if len(f.events.orders) != 1 {
		t.Fatalf("events = %d", len(f.events.orders))
	}
	ev := f.events.orders[0]
	if ev.OrderID != o.OrderID || ev.Status != "preparing" || ev.PharmacyID != f.owner.ID.Hex() {
		t.Errorf("event = %+v", ev)
	}

	if _, err := f.svc.UpdateOrderStatus(ctx, f.owner.ID, o.ID, "shipped"); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Errorf("unknown status: want ErrInvalidOrderStatus, got %v", err)
	}
	if _, err := f.svc.UpdateOrderStatus(ctx, f.patient.ID, o.ID, model.OrderCompleted); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("foreign order: want ErrOrderNotFound, got %v", err)
	}
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.createOrder(t)
	f.createOrder(t)
	f.createOrder(t)

	if _, err := f.svc.UpdateOrderStatus(ctx, f.owner.ID, first.ID, model.OrderCompleted); err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}

	stats, err := f.svc.Dashboard(ctx, f.owner.ID)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if stats.TotalOrders != 3 {
		t.Errorf("total = %d", stats.TotalOrders)
	}
	if stats.Pending != 2 || stats.Preparing != 0 || stats.Completed != 1 {
		t.Errorf("breakdown = %+v", stats)
	}
	if stats.TodayOrders != 3 {
		t.Errorf("today = %d", stats.TodayOrders)
	}
}

func TestTotalFromPrescriptionAlternative(t *testing.T) {
	p := &model.Prescription{
		Medications: []model.Medication{{Name: "A", Price: 40}, {Name: "B", Price: 25}, {Name: "C"}},
	}
	if got := model.TotalFromPrescription(p); got != 65 {
		t.Errorf("TotalFromPrescription = %v, want 65", got)
	}
	if got := model.TotalFromPrescription(nil); got != 0 {
		t.Errorf("TotalFromPrescription(nil) = %v", got)
	}
}

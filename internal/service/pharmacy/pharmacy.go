// Package pharmacy implements the pharmacy-facing operations: the embedded
// medicine inventory, order fulfillment and the dashboard counters.
package pharmacy

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
)

type AddMedicineRequest struct {
	Name        string  `json:"name"`
	Stock       int     `json:"stock"`
	MinStock    int     `json:"minStock"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// UpdateMedicineRequest carries partial updates; nil fields keep their
// prior value.
type UpdateMedicineRequest struct {
	Stock    *int     `json:"stock"`
	MinStock *int     `json:"minStock"`
	Price    *float64 `json:"price"`
}

// CreateOrderRequest is taken at face value: references and totals are not
// validated against the named prescription.
type CreateOrderRequest struct {
	PatientID      string                  `json:"patientId"`
	DoctorID       string                  `json:"doctorId"`
	PrescriptionID string                  `json:"prescriptionId"`
	PatientName    string                  `json:"patientName"`
	PatientPhone   string                  `json:"patientPhone"`
	PatientAddress string                  `json:"patientAddress"`
	DoctorName     string                  `json:"doctorName"`
	Priority       model.OrderPriority     `json:"priority"`
	DeliveryType   model.DeliveryType      `json:"deliveryType"`
	Medications    []model.OrderMedication `json:"medications"`
	TotalAmount    float64                 `json:"totalAmount"`
	Notes          string                  `json:"notes"`
}

type DashboardStats struct {
	TotalOrders int64 `json:"totalOrders"`
	Pending     int64 `json:"pending"`
	Preparing   int64 `json:"preparing"`
	Completed   int64 `json:"completed"`
	TodayOrders int64 `json:"todayOrders"`
}

type Service interface {
	Medicines(ctx context.Context, ownerID bson.ObjectID) ([]model.Medicine, error)
	AddMedicine(ctx context.Context, ownerID bson.ObjectID, req AddMedicineRequest) ([]model.Medicine, error)
	UpdateMedicine(ctx context.Context, ownerID bson.ObjectID, medicineID string, req UpdateMedicineRequest) (*model.Medicine, error)
	RemoveMedicine(ctx context.Context, ownerID bson.ObjectID, medicineID string) ([]model.Medicine, error)
	LowStock(ctx context.Context, ownerID bson.ObjectID) ([]model.Medicine, error)

	Orders(ctx context.Context, ownerID bson.ObjectID) ([]model.OrderView, error)
	UpdateOrderStatus(ctx context.Context, ownerID, orderID bson.ObjectID, status model.OrderStatus) (*model.Order, error)
	CreateOrder(ctx context.Context, ownerID bson.ObjectID, req CreateOrderRequest) (*model.Order, error)

	Dashboard(ctx context.Context, ownerID bson.ObjectID) (*DashboardStats, error)
}

type pharmacyService struct {
	users      store.UserStore
	pharmacies store.PharmacyStore
	orders     store.OrderStore
	pub        events.Publisher
	log        *slog.Logger
}

func New(
	users store.UserStore,
	pharmacies store.PharmacyStore,
	orders store.OrderStore,
	pub events.Publisher,
	log *slog.Logger,
) Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &pharmacyService{
		users:      users,
		pharmacies: pharmacies,
		orders:     orders,
		pub:        pub,
		log:        log,
	}
}

func (s *pharmacyService) Medicines(ctx context.Context, ownerID bson.ObjectID) ([]model.Medicine, error) {
	ph, err := s.getPharmacy(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return ph.Medicines, nil
}

// AddMedicine creates the Pharmacy document on first use, seeded from the
// owner's profile.
func (s *pharmacyService) AddMedicine(ctx context.Context, ownerID bson.ObjectID, req AddMedicineRequest) ([]model.Medicine, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrMedicineNameRequired
	}

	ph, err := s.pharmacies.GetByOwner(ctx, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		ph, err = s.createPharmacy(ctx, ownerID)
	}
	if err != nil {
		return nil, err
	}

	minStock := req.MinStock
	if minStock <= 0 {
		minStock = model.DefaultMinStock
	}
	stock := req.Stock
	if stock < 0 {
		stock = 0
	}

	ph.Medicines = append(ph.Medicines, model.Medicine{
		ID:          bson.NewObjectID(),
		Name:        strings.TrimSpace(req.Name),
		Stock:       stock,
		MinStock:    minStock,
		Price:       req.Price,
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
	})
	if err := s.pharmacies.Save(ctx, ph); err != nil {
		return nil, fmt.Errorf("save pharmacy: %w", err)
	}
	return ph.Medicines, nil
}

func (s *pharmacyService) UpdateMedicine(ctx context.Context, ownerID bson.ObjectID, medicineID string, req UpdateMedicineRequest) (*model.Medicine, error) {
	id, err := bson.ObjectIDFromHex(medicineID)
	if err != nil {
		return nil, ErrInvalidMedicineID
	}

	ph, err := s.getPharmacy(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	med := ph.MedicineByID(id)
	if med == nil {
		return nil, ErrMedicineNotFound
	}

	if req.Stock != nil {
		med.Stock = *req.Stock
	}
	if req.MinStock != nil {
		med.MinStock = *req.MinStock
	}
	if req.Price != nil {
		med.Price = *req.Price
	}

	if err := s.pharmacies.Save(ctx, ph); err != nil {
		return nil, fmt.Errorf("save pharmacy: %w", err)
	}
	out := *med
	return &out, nil
}

func (s *pharmacyService) RemoveMedicine(ctx context.Context, ownerID bson.ObjectID, medicineID string) ([]model.Medicine, error) {
	id, err := bson.ObjectIDFromHex(medicineID)
	if err != nil {
		return nil, ErrInvalidMedicineID
	}

	ph, err := s.getPharmacy(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	kept := ph.Medicines[:0]
	found := false
	for _, m := range ph.Medicines {
		if m.ID == id {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return nil, ErrMedicineNotFound
	}

	ph.Medicines = kept
	if err := s.pharmacies.Save(ctx, ph); err != nil {
		return nil, fmt.Errorf("save pharmacy: %w", err)
	}
	return ph.Medicines, nil
}

func (s *pharmacyService) LowStock(ctx context.Context, ownerID bson.ObjectID) ([]model.Medicine, error) {
	ph, err := s.getPharmacy(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return ph.LowStockMedicines(), nil
}

func (s *pharmacyService) Orders(ctx context.Context, ownerID bson.ObjectID) ([]model.OrderView, error) {
	orders, err := s.orders.ListByPharmacy(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	patientIDs := make([]bson.ObjectID, 0, len(orders))
	doctorIDs := make([]bson.ObjectID, 0, len(orders))
	for _, o := range orders {
		patientIDs = append(patientIDs, o.Patient)
		doctorIDs = append(doctorIDs, o.Doctor)
	}
	patients, err := s.users.PatientSummaries(ctx, patientIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve patients: %w", err)
	}
	doctors, err := s.users.DoctorSummaries(ctx, doctorIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve doctors: %w", err)
	}

	out := make([]model.OrderView, 0, len(orders))
	for _, o := range orders {
		view := model.OrderView{Order: o}
		if p, ok := patients[o.Patient]; ok {
			view.PatientInfo = &p
		}
		if d, ok := doctors[o.Doctor]; ok {
			view.DoctorInfo = &d
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *pharmacyService) UpdateOrderStatus(ctx context.Context, ownerID, orderID bson.ObjectID, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}

	if _, err := s.orders.GetOwned(ctx, orderID, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if err := s.pub.OrderStatusChanged(ctx, events.OrderStatusChanged{
		OrderID:    updated.OrderID,
		OrderRef:   updated.ID.Hex(),
		PatientID:  updated.Patient.Hex(),
		PharmacyID: ownerID.Hex(),
		Status:     string(updated.Status),
	}); err != nil {
		s.log.Warn("order event publish failed", "order", updated.ID.Hex(), "error", err)
	}

	return updated, nil
}

// CreateOrder stores the caller's payload as supplied. The orderId is
// minted from the collection count; two concurrent creates can read the
// same count and mint the same code, so the document id stays the
// uniqueness guarantee.
func (s *pharmacyService) CreateOrder(ctx context.Context, ownerID bson.ObjectID, req CreateOrderRequest) (*model.Order, error) {
	patientID, err := bson.ObjectIDFromHex(req.PatientID)
	if err != nil {
		return nil, ErrInvalidOrderRef
	}
	doctorID, err := bson.ObjectIDFromHex(req.DoctorID)
	if err != nil {
		return nil, ErrInvalidOrderRef
	}

	count, err := s.orders.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	delivery := req.DeliveryType
	if delivery == "" {
		delivery = model.DeliveryPickup
	}

	now := time.Now()
	o := &model.Order{
		OrderID:          model.FormatOrderID(count + 1),
		Patient:          patientID,
		Doctor:           doctorID,
		Pharmacy:         ownerID,
		PatientName:      req.PatientName,
		PatientPhone:     req.PatientPhone,
		PatientAddress:   req.PatientAddress,
		DoctorName:       req.DoctorName,
		PrescriptionDate: now,
		OrderTime:        now.Format("3:04:05 PM"),
		Status:           model.OrderPending,
		Priority:         priority,
		DeliveryType:     delivery,
		Medications:      req.Medications,
		TotalAmount:      req.TotalAmount,
		Notes:            req.Notes,
	}
	if o.Medications == nil {
		o.Medications = []model.OrderMedication{}
	}
	if req.PrescriptionID != "" {
		if id, err := bson.ObjectIDFromHex(req.PrescriptionID); err == nil {
			o.Prescription = &id
		}
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return o, nil
}

func (s *pharmacyService) Dashboard(ctx context.Context, ownerID bson.ObjectID) (*DashboardStats, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	total, err := s.orders.CountByPharmacy(ctx, ownerID, store.OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	pending, err := s.orders.CountByPharmacy(ctx, ownerID, store.OrderFilter{Status: model.OrderPending})
	if err != nil {
		return nil, fmt.Errorf("count pending: %w", err)
	}
	preparing, err := s.orders.CountByPharmacy(ctx, ownerID, store.OrderFilter{Status: model.OrderPreparing})
	if err != nil {
		return nil, fmt.Errorf("count preparing: %w", err)
	}
	completed, err := s.orders.CountByPharmacy(ctx, ownerID, store.OrderFilter{Status: model.OrderCompleted})
	if err != nil {
		return nil, fmt.Errorf("count completed: %w", err)
	}
	today, err := s.orders.CountByPharmacy(ctx, ownerID, store.OrderFilter{From: &dayStart, To: &dayEnd})
	if err != nil {
		return nil, fmt.Errorf("count today: %w", err)
	}

	return &DashboardStats{
		TotalOrders: total,
		Pending:     pending,
		Preparing:   preparing,
		Completed:   completed,
		TodayOrders: today,
	}, nil
}

func (s *pharmacyService) getPharmacy(ctx context.Context, ownerID bson.ObjectID) (*model.Pharmacy, error) {
	ph, err := s.pharmacies.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPharmacyNotFound
		}
		return nil, fmt.Errorf("get pharmacy: %w", err)
	}
	return ph, nil
}

func (s *pharmacyService) createPharmacy(ctx context.Context, ownerID bson.ObjectID) (*model.Pharmacy, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}

	name := owner.PharmacyName
	if name == "" {
		name = owner.Name
	}
	if name == "" {
		name = "My Pharmacy"
	}

	ph := &model.Pharmacy{
		Owner:         ownerID,
		Name:          name,
		LicenseNumber: owner.LicenseNumber,
		Location:      owner.PharmacyAddress,
		Medicines:     []model.Medicine{},
	}
	if err := s.pharmacies.Create(ctx, ph); err != nil {
		// Lost a create race with a concurrent first add; use the winner.
		if errors.Is(err, store.ErrDuplicate) {
			return s.pharmacies.GetByOwner(ctx, ownerID)
		}
		return nil, fmt.Errorf("create pharmacy: %w", err)
	}
	return ph, nil
}

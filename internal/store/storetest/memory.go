// Package storetest provides in-memory store implementations for service
// tests. They mirror the mongo-backed semantics: sentinel errors, sort
// orders and duplicate detection behave the same.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/internal/store"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type Users struct {
	mu    sync.Mutex
	users map[bson.ObjectID]*model.User
}

func NewUsers() *Users {
	return &Users{users: make(map[bson.ObjectID]*model.User)}
}

func (f *Users) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, other := range f.users {
		if other.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.ID.IsZero() {
		u.ID = bson.NewObjectID()
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *Users) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *Users) GetByID(_ context.Context, id bson.ObjectID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *Users) UpdateFields(_ context.Context, id bson.ObjectID, fields bson.M) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	applyUserFields(u, fields)
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (f *Users) ListDoctors(_ context.Context) ([]model.DoctorSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.DoctorSummary
	for _, u := range f.users {
		if u.Role == model.RoleDoctor {
			out = append(out, doctorSummary(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *Users) DoctorSummaries(_ context.Context, ids []bson.ObjectID) (map[bson.ObjectID]model.DoctorSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[bson.ObjectID]model.DoctorSummary, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = doctorSummary(u)
		}
	}
	return out, nil
}

func (f *Users) PatientSummaries(_ context.Context, ids []bson.ObjectID) (map[bson.ObjectID]model.PatientSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[bson.ObjectID]model.PatientSummary, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = model.PatientSummary{
				ID:         u.ID,
				Name:       u.Name,
				Email:      u.Email,
				Phone:      u.Phone,
				Age:        u.Age,
				BloodGroup: u.BloodGroup,
			}
		}
	}
	return out, nil
}

func doctorSummary(u *model.User) model.DoctorSummary {
	return model.DoctorSummary{
		ID:              u.ID,
		Name:            u.Name,
		Specialization:  u.Specialization,
		Experience:      u.Experience,
		Hospital:        u.Hospital,
		ConsultationFee: u.ConsultationFee,
		Rating:          u.Rating,
		TotalPatients:   u.TotalPatients,
		IsAvailable:     u.IsAvailable,
	}
}

func applyUserFields(u *model.User, fields bson.M) {
	for k, v := range fields {
		switch k {
		case "name":
			u.Name, _ = v.(string)
		case "phone":
			u.Phone, _ = v.(string)
		case "address":
			u.Address, _ = v.(string)
		case "age":
			u.Age, _ = v.(int)
		case "bloodGroup":
			u.BloodGroup, _ = v.(string)
		case "specialization":
			u.Specialization, _ = v.(string)
		case "experience":
			u.Experience, _ = v.(string)
		case "degree":
			u.Degree, _ = v.(string)
		case "hospital":
			u.Hospital, _ = v.(string)
		case "consultationFee":
			u.ConsultationFee, _ = v.(float64)
		case "pharmacyName":
			u.PharmacyName, _ = v.(string)
		case "pharmacyAddress":
			u.PharmacyAddress, _ = v.(string)
		case "pharmacyType":
			u.PharmacyType, _ = v.(string)
		case "servicesOffered":
			u.ServicesOffered, _ = v.(string)
		case "licenseNumber":
			u.LicenseNumber, _ = v.(string)
		case "isAvailable":
			if b, ok := v.(bool); ok {
				u.IsAvailable = &b
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Appointments
// ---------------------------------------------------------------------------

type Appointments struct {
	mu    sync.Mutex
	items map[bson.ObjectID]*model.Appointment
}

func NewAppointments() *Appointments {
	return &Appointments{items: make(map[bson.ObjectID]*model.Appointment)}
}

func (f *Appointments) Create(_ context.Context, a *model.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.ID.IsZero() {
		a.ID = bson.NewObjectID()
	}
	cp := *a
	f.items[a.ID] = &cp
	return nil
}

func (f *Appointments) ListByPatient(_ context.Context, patient bson.ObjectID) ([]model.Appointment, error) {
	return f.list(func(a *model.Appointment) bool { return a.Patient == patient }), nil
}

func (f *Appointments) ListByDoctor(_ context.Context, doctor bson.ObjectID) ([]model.Appointment, error) {
	return f.list(func(a *model.Appointment) bool { return a.Doctor == doctor }), nil
}

func (f *Appointments) list(match func(*model.Appointment) bool) []model.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Appointment
	for _, a := range f.items {
		if match(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (f *Appointments) GetOwned(_ context.Context, id bson.ObjectID, ownerField string, owner bson.ObjectID) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	switch ownerField {
	case "patient":
		if a.Patient != owner {
			return nil, store.ErrNotFound
		}
	case "doctor":
		if a.Doctor != owner {
			return nil, store.ErrNotFound
		}
	default:
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *Appointments) UpdateFields(_ context.Context, id bson.ObjectID, fields bson.M) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			if s, ok := v.(model.AppointmentStatus); ok {
				a.Status = s
			}
		case "consultationNotes":
			a.ConsultationNotes, _ = v.(string)
		case "diagnosis":
			a.Diagnosis, _ = v.(string)
		case "treatment":
			a.Treatment, _ = v.(string)
		case "vitalSigns":
			if vs, ok := v.(model.VitalSigns); ok {
				a.VitalSigns = &vs
			}
		}
	}
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (f *Appointments) CountByPatient(_ context.Context, patient bson.ObjectID, flt store.AppointmentFilter) (int64, error) {
	return f.count(func(a *model.Appointment) bool { return a.Patient == patient }, flt), nil
}

func (f *Appointments) CountByDoctor(_ context.Context, doctor bson.ObjectID, flt store.AppointmentFilter) (int64, error) {
	return f.count(func(a *model.Appointment) bool { return a.Doctor == doctor }, flt), nil
}

func (f *Appointments) count(match func(*model.Appointment) bool, flt store.AppointmentFilter) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, a := range f.items {
		if !match(a) {
			continue
		}
		if len(flt.Statuses) > 0 {
			hit := false
			for _, s := range flt.Statuses {
				if a.Status == s {
					hit = true
					break
				}
			}
			if !hit {
				continue
			}
		}
		if flt.From != nil && a.Date.Before(*flt.From) {
			continue
		}
		if flt.To != nil && !a.Date.Before(*flt.To) {
			continue
		}
		n++
	}
	return n
}

func (f *Appointments) DistinctPatients(_ context.Context, doctor bson.ObjectID) ([]bson.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[bson.ObjectID]struct{})
	var out []bson.ObjectID
	for _, a := range f.items {
		if a.Doctor != doctor {
			continue
		}
		if _, ok := seen[a.Patient]; ok {
			continue
		}
		seen[a.Patient] = struct{}{}
		out = append(out, a.Patient)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Medical records
// ---------------------------------------------------------------------------

type MedicalRecords struct {
	mu    sync.Mutex
	items []*model.MedicalRecord
}

func NewMedicalRecords() *MedicalRecords { return &MedicalRecords{} }

func (f *MedicalRecords) Create(_ context.Context, r *model.MedicalRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Date.IsZero() {
		r.Date = now
	}
	if r.Status == "" {
		r.Status = model.RecordActive
	}
	if r.ID.IsZero() {
		r.ID = bson.NewObjectID()
	}
	cp := *r
	f.items = append(f.items, &cp)
	return nil
}

func (f *MedicalRecords) ListByPatient(_ context.Context, patient bson.ObjectID) ([]model.MedicalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.MedicalRecord
	for _, r := range f.items {
		if r.Patient == patient {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *MedicalRecords) CountByPatient(_ context.Context, patient bson.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, r := range f.items {
		if r.Patient == patient {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Prescriptions
// ---------------------------------------------------------------------------

type Prescriptions struct {
	mu    sync.Mutex
	items map[bson.ObjectID]*model.Prescription
}

func NewPrescriptions() *Prescriptions {
	return &Prescriptions{items: make(map[bson.ObjectID]*model.Prescription)}
}

func (f *Prescriptions) Create(_ context.Context, p *model.Prescription) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = model.PrescriptionActive
	}
	if p.ID.IsZero() {
		p.ID = bson.NewObjectID()
	}
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *Prescriptions) GetByID(_ context.Context, id bson.ObjectID) (*model.Prescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *Prescriptions) ListByDoctor(_ context.Context, doctor bson.ObjectID) ([]model.Prescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Prescription
	for _, p := range f.items {
		if p.Doctor == doctor {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *Prescriptions) CountByDoctor(_ context.Context, doctor bson.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, p := range f.items {
		if p.Doctor == doctor {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Pharmacies
// ---------------------------------------------------------------------------

type Pharmacies struct {
	mu    sync.Mutex
	items map[bson.ObjectID]*model.Pharmacy
}

func NewPharmacies() *Pharmacies {
	return &Pharmacies{items: make(map[bson.ObjectID]*model.Pharmacy)}
}

func (f *Pharmacies) Create(_ context.Context, p *model.Pharmacy) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, other := range f.items {
		if other.Owner == p.Owner {
			return store.ErrDuplicate
		}
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Medicines == nil {
		p.Medicines = []model.Medicine{}
	}
	if p.ID.IsZero() {
		p.ID = bson.NewObjectID()
	}
	cp := clonePharmacy(p)
	f.items[p.ID] = &cp
	return nil
}

func (f *Pharmacies) GetByOwner(_ context.Context, owner bson.ObjectID) (*model.Pharmacy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.items {
		if p.Owner == owner {
			cp := clonePharmacy(p)
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *Pharmacies) Save(_ context.Context, p *model.Pharmacy) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cur, ok := f.items[p.ID]
	if !ok {
		return store.ErrNotFound
	}
	cur.Name = p.Name
	cur.LicenseNumber = p.LicenseNumber
	cur.Location = p.Location
	cur.Rating = p.Rating
	cur.Medicines = append([]model.Medicine(nil), p.Medicines...)
	cur.UpdatedAt = time.Now()
	return nil
}

func (f *Pharmacies) SearchByMedicineName(_ context.Context, name string) ([]model.Pharmacy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	needle := strings.ToLower(name)
	var out []model.Pharmacy
	for _, p := range f.items {
		for _, m := range p.Medicines {
			if strings.Contains(strings.ToLower(m.Name), needle) {
				out = append(out, clonePharmacy(p))
				break
			}
		}
	}
	return out, nil
}

func clonePharmacy(p *model.Pharmacy) model.Pharmacy {
	cp := *p
	cp.Medicines = append([]model.Medicine(nil), p.Medicines...)
	return cp
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

type Orders struct {
	mu    sync.Mutex
	items map[bson.ObjectID]*model.Order
}

func NewOrders() *Orders {
	return &Orders{items: make(map[bson.ObjectID]*model.Order)}
}

func (f *Orders) Create(_ context.Context, o *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.ID.IsZero() {
		o.ID = bson.NewObjectID()
	}
	cp := *o
	f.items[o.ID] = &cp
	return nil
}

func (f *Orders) ListByPharmacy(_ context.Context, pharmacy bson.ObjectID) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Order
	for _, o := range f.items {
		if o.Pharmacy == pharmacy {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *Orders) GetOwned(_ context.Context, id, pharmacy bson.ObjectID) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.items[id]
	if !ok || o.Pharmacy != pharmacy {
		return nil, store.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *Orders) UpdateStatus(_ context.Context, id bson.ObjectID, status model.OrderStatus) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	cp := *o
	return &cp, nil
}

func (f *Orders) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.items)), nil
}

func (f *Orders) CountByPharmacy(_ context.Context, pharmacy bson.ObjectID, flt store.OrderFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, o := range f.items {
		if o.Pharmacy != pharmacy {
			continue
		}
		if flt.Status != "" && o.Status != flt.Status {
			continue
		}
		if flt.From != nil && o.CreatedAt.Before(*flt.From) {
			continue
		}
		if flt.To != nil && !o.CreatedAt.Before(*flt.To) {
			continue
		}
		n++
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Notifications
// ---------------------------------------------------------------------------

type Notifications struct {
	mu    sync.Mutex
	items []*model.Notification
}

func NewNotifications() *Notifications { return &Notifications{} }

func (f *Notifications) Create(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	n.CreatedAt = time.Now()
	if n.ID.IsZero() {
		n.ID = bson.NewObjectID()
	}
	cp := *n
	f.items = append(f.items, &cp)
	return nil
}

func (f *Notifications) ListByUser(_ context.Context, user bson.ObjectID) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Notification
	for _, n := range f.items {
		if n.User == user {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *Notifications) MarkRead(_ context.Context, id, user bson.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, n := range f.items {
		if n.ID == id && n.User == user {
			n.Read = true
			return nil
		}
	}
	return store.ErrNotFound
}

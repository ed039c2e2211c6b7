package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DefaultMinStock is the low-stock threshold applied when a medicine is
// added without one.
const DefaultMinStock = 10

// Medicine is an embedded sub-document owned by its Pharmacy. It carries its
// own identifier so it can be addressed for update/delete, but it never
// outlives the parent aggregate.
type Medicine struct {
	ID          bson.ObjectID `bson:"_id" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Stock       int           `bson:"stock" json:"stock"`
	MinStock    int           `bson:"minStock" json:"minStock"`
	Price       float64       `bson:"price" json:"price"`
	Category    string        `bson:"category,omitempty" json:"category,omitempty"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
}

// LowStock reports whether the medicine is at or below its threshold.
func (m Medicine) LowStock() bool {
	return m.Stock <= m.MinStock
}

// Pharmacy is one-to-one with a user of role pharmacy (Owner is unique).
// It is created lazily on the first medicine-add, seeded from the owning
// user's profile fields.
type Pharmacy struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner         bson.ObjectID `bson:"owner" json:"owner"`
	Name          string        `bson:"name" json:"name"`
	LicenseNumber string        `bson:"licenseNumber,omitempty" json:"licenseNumber,omitempty"`
	Location      string        `bson:"location,omitempty" json:"location,omitempty"`
	Rating        float64       `bson:"rating,omitempty" json:"rating,omitempty"`
	Medicines     []Medicine    `bson:"medicines" json:"medicines"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// MedicineByID returns the embedded medicine with the given id, or nil.
// External code must go through the aggregate; sub-entity references are
// never handed out past the parent's lifetime.
func (p *Pharmacy) MedicineByID(id bson.ObjectID) *Medicine {
	for i := range p.Medicines {
		if p.Medicines[i].ID == id {
			return &p.Medicines[i]
		}
	}
	return nil
}

// LowStockMedicines returns the subset of medicines where stock <= minStock.
func (p *Pharmacy) LowStockMedicines() []Medicine {
	var out []Medicine
	for _, m := range p.Medicines {
		if m.LowStock() {
			out = append(out, m)
		}
	}
	return out
}

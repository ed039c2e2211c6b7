package pharmacy

import "errors"

var (
	ErrPharmacyNotFound     = errors.New("pharmacy not found")
	ErrMedicineNotFound     = errors.New("medicine not found")
	ErrInvalidMedicineID    = errors.New("invalid medicine id")
	ErrMedicineNameRequired = errors.New("medicine name required")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrInvalidOrderRef      = errors.New("invalid patient or doctor reference")
)

package doctor

import "errors"

var (
	ErrAppointmentNotFound       = errors.New("appointment not found")
	ErrInvalidStatus             = errors.New("invalid appointment status")
	ErrMissingPrescriptionFields = errors.New("patient, diagnosis and medications are required")
	ErrInvalidPatientID          = errors.New("invalid patient id")
)

package patient

import "errors"

var (
	ErrMissingBookingFields = errors.New("doctor, date and time are required")
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrNotADoctor           = errors.New("provided user is not a doctor")
	ErrNoSymptoms           = errors.New("please provide symptoms as an array or comma-separated string")
	ErrFileURLRequired      = errors.New("file url required")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrNotCancellable       = errors.New("appointment can no longer be cancelled")
)

package storage

import "errors"

var (
	// ErrNotFound is returned when no appointment matches the given id
	// (or the record is not in a state the operation applies to).
	ErrNotFound = errors.New("appointment not found")

	// ErrSlotTaken is returned by CreateAppointment when an active
	// appointment already occupies the (doctor, date, time) slot.
	ErrSlotTaken = errors.New("slot is already taken")
)

// Store defines the interface for appointment storage implementations.
type Store interface {
	// AddUser registers a user if the id is new; a no-op otherwise.
	AddUser(userID int64, username, firstName string) error

	// CreateAppointment stores a new active appointment and returns its id.
	// The slot check and the insert happen atomically: an occupied
	// (doctor, date, time) slot yields ErrSlotTaken.
	CreateAppointment(userID int64, patientName, doctor, procedure, date, timeSlot string) (int, error)

	// GetAppointments returns active appointments in insertion order.
	// A zero userID returns appointments of all users.
	GetAppointments(userID int64) []Appointment

	// GetAppointment returns the appointment with the given id,
	// whatever its status.
	GetAppointment(id int) (Appointment, error)

	// UpdateAppointment merges non-nil fields of upd into the record.
	UpdateAppointment(id int, upd AppointmentUpdate) error

	// DeleteAppointment soft-deletes an active appointment. An id that
	// does not exist or is not active yields ErrNotFound.
	DeleteAppointment(id int) error

	// IsSlotAvailable reports whether no active appointment occupies
	// the (doctor, date, time) slot.
	IsSlotAvailable(doctor, date, timeSlot string) bool

	// GetUsers returns all registered users keyed by stringified id.
	GetUsers() map[string]User
}

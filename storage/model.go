package storage

import "time"

// Status is the lifecycle state of an appointment. Records are never
// physically removed; deletion and completion are status transitions.
type Status string

const (
	StatusActive    Status = "active"
	StatusDeleted   Status = "deleted"
	StatusCompleted Status = "completed"
)

// Appointment is a single clinic appointment record.
type Appointment struct {
	ID          int       `json:"id"`
	UserID      int64     `json:"user_id"`
	PatientName string    `json:"patient_name"`
	Doctor      string    `json:"doctor"`
	Procedure   string    `json:"procedure"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	CreatedAt   time.Time `json:"created_at"`
	Status      Status    `json:"status"`
}

// User is a registered bot user. Created on first interaction, immutable
// afterwards, never deleted.
type User struct {
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	RegisteredAt time.Time `json:"registered_at"`
}

// AppointmentUpdate describes a partial update of an appointment.
// Nil fields are left untouched.
type AppointmentUpdate struct {
	PatientName *string
	Doctor      *string
	Procedure   *string
	Date        *string
	Time        *string
	Status      *Status
}

package models

import "time"

// Appointment statuses. Cancellation is a status transition, never a delete.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// Appointment represents a booked clinic appointment.
type Appointment struct {
	ID            string    `bson:"id" json:"id"`                         // Unique appointment identifier (UUID)
	PatientName   string    `bson:"patient_name" json:"patient_name"`     // Full name as entered in the flow
	PatientID     string    `bson:"patient_id" json:"patient_id"`         // Cédula, digits only
	PatientPhone  string    `bson:"patient_phone" json:"patient_phone"`   // Contact phone, digits only
	ServiceID     int       `bson:"service_id" json:"service_id"`         // Reference to Service.ID
	Date          string    `bson:"date" json:"date"`                     // "YYYY-MM-DD"
	Time          string    `bson:"time" json:"time"`                     // "HH:MM" from the fixed daily grid
	Status        string    `bson:"status" json:"status"`                 // confirmed | cancelled
	PaymentStatus string    `bson:"payment_status" json:"payment_status"` // pending | paid
	PaymentMethod string    `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	PaymentAmount float64   `bson:"payment_amount" json:"payment_amount"`
	PaymentProof  string    `bson:"payment_proof,omitempty" json:"payment_proof,omitempty"` // Proof reference (storage URL)
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// ManagedAppointment is an appointment annotated with the management
// eligibility flag: manageable only while its date is strictly after today.
type ManagedAppointment struct {
	Appointment
	ServiceName string `json:"service_name"`
	Manageable  bool   `json:"manageable"`
}

// BookingDraft is the in-progress, uncommitted appointment data collected
// across conversation steps. Fields are populated monotonically; a commit
// requires all of service, date, time, name, patient id and phone.
type BookingDraft struct {
	ServiceID  int    `json:"service_id,omitempty"`
	Date       string `json:"date,omitempty"`
	Time       string `json:"time,omitempty"`
	Name       string `json:"name,omitempty"`
	PatientID  string `json:"patient_id,omitempty"`
	Phone      string `json:"phone,omitempty"`
	EditReturn bool   `json:"edit_return,omitempty"` // jump back to confirmation after a single-field edit
}

// Complete reports whether every field required for a commit is present.
func (d BookingDraft) Complete() bool {
	return d.ServiceID != 0 && d.Date != "" && d.Time != "" &&
		d.Name != "" && d.PatientID != "" && d.Phone != ""
}

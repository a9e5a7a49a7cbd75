package booking

import (
	"context"

	"clinicbot/models"
)

// Coordinator owns the commit path for new and rescheduled appointments. All
// writes re-check store availability immediately before committing; the
// advisory hold cache is never trusted for correctness.
type Coordinator interface {
	// Commit validates the draft, re-checks the slot and persists the
	// appointment. A lost race returns *ConflictError with refreshed
	// availability for the draft's date.
	Commit(ctx context.Context, userID string, draft models.BookingDraft) (*models.Appointment, error)
	// Reschedule moves an existing appointment to a new slot under the same
	// re-check discipline. Moving an appointment onto its own current slot
	// succeeds without touching the store.
	Reschedule(ctx context.Context, userID, appointmentID, date, timeStr string) (*models.Appointment, error)
}

// Manager owns the read and lifecycle paths over committed appointments.
type Manager interface {
	// ListActive returns the patient's confirmed appointments annotated with
	// service names and the manageability flag (date strictly after today).
	ListActive(ctx context.Context, patientID string) ([]models.ManagedAppointment, error)
	// Get returns one appointment or ErrNotFound.
	Get(ctx context.Context, appointmentID string) (*models.Appointment, error)
	// Cancel marks the appointment cancelled and drops its advisory hold.
	// Cancelling an already-cancelled appointment is a no-op success.
	Cancel(ctx context.Context, appointmentID string) error
	// LinkPayment records a verified payment against the appointment.
	LinkPayment(ctx context.Context, appointmentID, method, proofRef string, amount float64) error
}

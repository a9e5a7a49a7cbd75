package appointmentRepo

import (
	"context"

	"clinicbot/models"
)

// AppointmentRepository is the persistence collaborator for appointments.
// IsSlotFree together with CreateAppointment form the authoritative
// double-booking guard; the advisory slot-hold cache never substitutes for it.
type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, appt *models.Appointment) (string, error)
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	CancelAppointment(ctx context.Context, id string) (bool, error)
	IsSlotFree(ctx context.Context, date, timeStr string) (bool, error)
	ListBookedTimes(ctx context.Context, date string) ([]string, error)
	UpdateSchedule(ctx context.Context, id, date, timeStr string) (bool, error)
	UpdatePaymentStatus(ctx context.Context, id, status, method, proofRef string, amount float64) (bool, error)
	ListByDate(ctx context.Context, date string) ([]models.Appointment, error)
	ListByRange(ctx context.Context, from, to string) ([]models.Appointment, error)
}

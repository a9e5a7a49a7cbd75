package booking

import (
	"context"
	"fmt"
	"time"

	appointmentRepo "clinicbot/database/repository/appointment"
	serviceRepo "clinicbot/database/repository/service"
	"clinicbot/models"
	"clinicbot/services/reservation"
	"clinicbot/utils"

	"go.uber.org/zap"
)

// DefaultManager implements Manager.
type DefaultManager struct {
	repo     appointmentRepo.AppointmentRepository
	services serviceRepo.ServiceRepository
	holds    reservation.SlotHoldCache
	now      func() time.Time
}

func NewManager(
	repo appointmentRepo.AppointmentRepository,
	services serviceRepo.ServiceRepository,
	holds reservation.SlotHoldCache,
) *DefaultManager {
	return &DefaultManager{
		repo:     repo,
		services: services,
		holds:    holds,
		now:      time.Now,
	}
}

func (m *DefaultManager) ListActive(ctx context.Context, patientID string) ([]models.ManagedAppointment, error) {
	appts, err := m.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	if len(appts) == 0 {
		return nil, nil
	}

	names, err := m.serviceNames(ctx)
	if err != nil {
		return nil, err
	}

	today := m.now().Format("2006-01-02")
	managed := make([]models.ManagedAppointment, 0, len(appts))
	for _, a := range appts {
		managed = append(managed, models.ManagedAppointment{
			Appointment: a,
			ServiceName: names[a.ServiceID],
			// String comparison is safe on the fixed "YYYY-MM-DD" format.
			// Today's appointments are kept but locked: too close to modify.
			Manageable: a.Date > today,
		})
	}
	return managed, nil
}

func (m *DefaultManager) Get(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appt, err := m.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment: %w", err)
	}
	if appt == nil {
		return nil, ErrNotFound
	}
	return appt, nil
}

func (m *DefaultManager) Cancel(ctx context.Context, appointmentID string) error {
	appt, err := m.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return fmt.Errorf("failed to fetch appointment: %w", err)
	}
	if appt == nil {
		return ErrNotFound
	}
	if appt.Status == models.StatusCancelled {
		return nil
	}

	ok, err := m.repo.CancelAppointment(ctx, appointmentID)
	if err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	// An explicit cancel frees the slot immediately instead of waiting out
	// the advisory TTL.
	if m.holds != nil {
		if err := m.holds.Release(ctx, appt.Date, appt.Time); err != nil {
			utils.GetLogger().Warn("Failed to release hold after cancel",
				zap.String("appointmentID", appointmentID), zap.Error(err))
		}
	}
	utils.GetLogger().Info("Appointment cancelled",
		zap.String("appointmentID", appointmentID),
		zap.String("date", appt.Date),
		zap.String("time", appt.Time))
	return nil
}

func (m *DefaultManager) LinkPayment(ctx context.Context, appointmentID, method, proofRef string, amount float64) error {
	ok, err := m.repo.UpdatePaymentStatus(ctx, appointmentID, models.PaymentPaid, method, proofRef, amount)
	if err != nil {
		return fmt.Errorf("failed to link payment: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	utils.GetLogger().Info("Payment linked",
		zap.String("appointmentID", appointmentID),
		zap.Float64("amount", amount),
		zap.String("method", method))
	return nil
}

func (m *DefaultManager) serviceNames(ctx context.Context) (map[int]string, error) {
	services, err := m.services.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	names := make(map[int]string, len(services))
	for _, s := range services {
		names[s.ID] = s.Name
	}
	return names, nil
}

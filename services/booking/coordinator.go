package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "clinicbot/database/repository/appointment"
	serviceRepo "clinicbot/database/repository/service"
	"clinicbot/models"
	"clinicbot/services/availability"
	"clinicbot/services/reservation"
	"clinicbot/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCoordinator implements Coordinator over the appointment store, the
// service catalogue and the advisory hold cache.
type DefaultCoordinator struct {
	repo     appointmentRepo.AppointmentRepository
	services serviceRepo.ServiceRepository
	holds    reservation.SlotHoldCache
	gen      *availability.Generator
	now      func() time.Time
}

func NewCoordinator(
	repo appointmentRepo.AppointmentRepository,
	services serviceRepo.ServiceRepository,
	holds reservation.SlotHoldCache,
	gen *availability.Generator,
) *DefaultCoordinator {
	return &DefaultCoordinator{
		repo:     repo,
		services: services,
		holds:    holds,
		gen:      gen,
		now:      time.Now,
	}
}

func (c *DefaultCoordinator) Commit(ctx context.Context, userID string, draft models.BookingDraft) (*models.Appointment, error) {
	logger := utils.GetLogger().With(zap.String("userID", userID))

	if !draft.Complete() {
		return nil, &ValidationError{Field: "draft", Reason: "missing required fields"}
	}
	if err := c.validateSlot(draft.Date, draft.Time); err != nil {
		return nil, err
	}

	svc, err := c.services.GetService(ctx, draft.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve service: %w", err)
	}
	if svc == nil {
		return nil, &ValidationError{Field: "service", Reason: "unknown service"}
	}

	// Re-check against the store right before committing. The advisory hold
	// only narrowed the race window; this is the real gate.
	free, err := c.repo.IsSlotFree(ctx, draft.Date, draft.Time)
	if err != nil {
		return nil, fmt.Errorf("failed to re-check slot: %w", err)
	}
	if !free {
		return nil, c.conflict(ctx, draft.Date, draft.Time)
	}

	appt := &models.Appointment{
		ID:            uuid.New().String(),
		PatientName:   draft.Name,
		PatientID:     draft.PatientID,
		PatientPhone:  draft.Phone,
		ServiceID:     svc.ID,
		Date:          draft.Date,
		Time:          draft.Time,
		Status:        models.StatusConfirmed,
		PaymentStatus: models.PaymentPending,
		PaymentAmount: svc.Price,
	}

	if _, err := c.repo.CreateAppointment(ctx, appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrDuplicateSlot) {
			// Lost the race between the re-check and the insert; the unique
			// index caught it.
			return nil, c.conflict(ctx, draft.Date, draft.Time)
		}
		return nil, fmt.Errorf("failed to commit appointment: %w", err)
	}

	c.releaseHold(ctx, draft.Date, draft.Time)
	logger.Info("Appointment committed",
		zap.String("appointmentID", appt.ID),
		zap.String("date", appt.Date),
		zap.String("time", appt.Time))
	return appt, nil
}

func (c *DefaultCoordinator) Reschedule(ctx context.Context, userID, appointmentID, date, timeStr string) (*models.Appointment, error) {
	logger := utils.GetLogger().With(zap.String("userID", userID))

	appt, err := c.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment: %w", err)
	}
	if appt == nil || appt.Status != models.StatusConfirmed {
		return nil, ErrNotFound
	}

	if appt.Date == date && appt.Time == timeStr {
		// Moving onto the current slot changes nothing.
		c.releaseHold(ctx, date, timeStr)
		return appt, nil
	}

	if err := c.validateSlot(date, timeStr); err != nil {
		return nil, err
	}

	free, err := c.repo.IsSlotFree(ctx, date, timeStr)
	if err != nil {
		return nil, fmt.Errorf("failed to re-check slot: %w", err)
	}
	if !free {
		return nil, c.conflict(ctx, date, timeStr)
	}

	oldDate, oldTime := appt.Date, appt.Time
	ok, err := c.repo.UpdateSchedule(ctx, appointmentID, date, timeStr)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrDuplicateSlot) {
			return nil, c.conflict(ctx, date, timeStr)
		}
		return nil, fmt.Errorf("failed to reschedule: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}

	c.releaseHold(ctx, date, timeStr)
	c.releaseHold(ctx, oldDate, oldTime)
	appt.Date = date
	appt.Time = timeStr
	logger.Info("Appointment rescheduled",
		zap.String("appointmentID", appointmentID),
		zap.String("from", oldDate+" "+oldTime),
		zap.String("to", date+" "+timeStr))
	return appt, nil
}

// validateSlot enforces the grid and the date rules at commit time, so stale
// prompts cannot book a slot that stopped being valid.
func (c *DefaultCoordinator) validateSlot(date, timeStr string) error {
	if !c.gen.ValidSlot(timeStr) {
		return &ValidationError{Field: "time", Reason: "not in the daily grid"}
	}
	d, err := time.ParseInLocation("2006-01-02", date, c.now().Location())
	if err != nil {
		return &ValidationError{Field: "date", Reason: "malformed date"}
	}
	if !c.gen.Selectable(d, c.now()) {
		return &ValidationError{Field: "date", Reason: "date is not bookable"}
	}
	return nil
}

// conflict builds a ConflictError with refreshed availability for the date.
// A failure to refresh still returns the conflict, just without suggestions.
func (c *DefaultCoordinator) conflict(ctx context.Context, date, timeStr string) *ConflictError {
	conflict := &ConflictError{Date: date, Time: timeStr}
	booked, err := c.repo.ListBookedTimes(ctx, date)
	if err != nil {
		utils.GetLogger().Warn("Failed to refresh availability after conflict",
			zap.String("date", date), zap.Error(err))
		return conflict
	}
	conflict.FreeTimes = c.gen.FreeTimes(booked)
	return conflict
}

func (c *DefaultCoordinator) releaseHold(ctx context.Context, date, timeStr string) {
	if c.holds == nil {
		return
	}
	if err := c.holds.Release(ctx, date, timeStr); err != nil {
		utils.GetLogger().Warn("Failed to release slot hold",
			zap.String("date", date), zap.String("time", timeStr), zap.Error(err))
	}
}

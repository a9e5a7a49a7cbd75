package booking

import (
	"context"
	"testing"
	"time"

	appointmentRepo "clinicbot/database/repository/appointment"
	"clinicbot/models"
	"clinicbot/services/availability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	// A Monday; the following Tuesday (Sep 1) is a plain working day.
	return time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
}

func validDraft() models.BookingDraft {
	return models.BookingDraft{
		ServiceID: 1,
		Date:      "2026-09-01",
		Time:      "10:00",
		Name:      "Laura Gómez",
		PatientID: "1061234567",
		Phone:     "3001234567",
	}
}

func testService() *models.Service {
	return &models.Service{ID: 1, Name: "Fisioterapia", DurationMin: 60, Price: 70000}
}

func newTestCoordinator(repo *fakeAppointmentRepo, services *fakeServiceRepo, holds *fakeHoldCache) *DefaultCoordinator {
	c := NewCoordinator(repo, services, holds, availability.NewGenerator(nil))
	c.now = fixedNow
	return c
}

func TestCommitPersistsAndReleasesHold(t *testing.T) {
	var created *models.Appointment
	repo := &fakeAppointmentRepo{
		isSlotFreeFn: func(ctx context.Context, date, timeStr string) (bool, error) {
			return true, nil
		},
		createFn: func(ctx context.Context, appt *models.Appointment) (string, error) {
			created = appt
			return appt.ID, nil
		},
	}
	services := &fakeServiceRepo{
		getFn: func(ctx context.Context, id int) (*models.Service, error) {
			return testService(), nil
		},
	}
	holds := newFakeHoldCache()
	holds.Hold(context.Background(), "2026-09-01", "10:00", "user1")

	appt, err := newTestCoordinator(repo, services, holds).Commit(context.Background(), "user1", validDraft())
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, models.StatusConfirmed, appt.Status)
	assert.Equal(t, models.PaymentPending, appt.PaymentStatus)
	assert.Equal(t, 70000.0, appt.PaymentAmount)
	assert.Contains(t, holds.released, "2026-09-01_10:00")
}

func TestCommitRejectsIncompleteDraft(t *testing.T) {
	draft := validDraft()
	draft.Phone = ""

	_, err := newTestCoordinator(&fakeAppointmentRepo{}, &fakeServiceRepo{}, newFakeHoldCache()).
		Commit(context.Background(), "user1", draft)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "draft", verr.Field)
}

func TestCommitRejectsInvalidDates(t *testing.T) {
	cases := map[string]models.BookingDraft{}

	past := validDraft()
	past.Date = "2026-08-20"
	cases["past date"] = past

	today := validDraft()
	today.Date = "2026-08-31"
	cases["same day"] = today

	sunday := validDraft()
	sunday.Date = "2026-09-06"
	cases["Sunday"] = sunday

	offGrid := validDraft()
	offGrid.Time = "12:30"
	cases["off-grid time"] = offGrid

	c := newTestCoordinator(&fakeAppointmentRepo{}, &fakeServiceRepo{}, newFakeHoldCache())
	for name, draft := range cases {
		_, err := c.Commit(context.Background(), "user1", draft)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, name)
	}
}

func TestCommitConflictOnRecheckCarriesRefreshedTimes(t *testing.T) {
	repo := &fakeAppointmentRepo{
		isSlotFreeFn: func(ctx context.Context, date, timeStr string) (bool, error) {
			return false, nil
		},
		listBookedFn: func(ctx context.Context, date string) ([]string, error) {
			return []string{"10:00", "11:00"}, nil
		},
	}
	services := &fakeServiceRepo{
		getFn: func(ctx context.Context, id int) (*models.Service, error) {
			return testService(), nil
		},
	}

	_, err := newTestCoordinator(repo, services, newFakeHoldCache()).
		Commit(context.Background(), "user1", validDraft())

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "2026-09-01", conflict.Date)
	assert.Equal(t, []string{"09:00", "14:00", "15:00", "16:00", "17:00", "18:00"}, conflict.FreeTimes)
}

func TestCommitConflictWhenInsertLosesRace(t *testing.T) {
	repo := &fakeAppointmentRepo{
		isSlotFreeFn: func(ctx context.Context, date, timeStr string) (bool, error) {
			// Re-check passes, but the unique index rejects the insert.
			return true, nil
		},
		createFn: func(ctx context.Context, appt *models.Appointment) (string, error) {
			return "", appointmentRepo.ErrDuplicateSlot
		},
		listBookedFn: func(ctx context.Context, date string) ([]string, error) {
			return []string{"10:00"}, nil
		},
	}
	services := &fakeServiceRepo{
		getFn: func(ctx context.Context, id int) (*models.Service, error) {
			return testService(), nil
		},
	}

	_, err := newTestCoordinator(repo, services, newFakeHoldCache()).
		Commit(context.Background(), "user1", validDraft())

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.NotContains(t, conflict.FreeTimes, "10:00")
}

func TestRescheduleOntoOwnSlotIsNoOp(t *testing.T) {
	updates := 0
	repo := &fakeAppointmentRepo{
		getFn: func(ctx context.Context, id string) (*models.Appointment, error) {
			return &models.Appointment{
				ID: id, Date: "2026-09-01", Time: "10:00", Status: models.StatusConfirmed,
			}, nil
		},
		updateScheduleFn: func(ctx context.Context, id, date, timeStr string) (bool, error) {
			updates++
			return true, nil
		},
	}

	appt, err := newTestCoordinator(repo, &fakeServiceRepo{}, newFakeHoldCache()).
		Reschedule(context.Background(), "user1", "appt1", "2026-09-01", "10:00")
	require.NoError(t, err)

	assert.Equal(t, 0, updates, "own-slot reschedule must not write")
	assert.Equal(t, "2026-09-01", appt.Date)
}

func TestRescheduleMovesAndReleasesBothHolds(t *testing.T) {
	repo := &fakeAppointmentRepo{
		getFn: func(ctx context.Context, id string) (*models.Appointment, error) {
			return &models.Appointment{
				ID: id, Date: "2026-09-01", Time: "10:00", Status: models.StatusConfirmed,
			}, nil
		},
		isSlotFreeFn: func(ctx context.Context, date, timeStr string) (bool, error) {
			return true, nil
		},
		updateScheduleFn: func(ctx context.Context, id, date, timeStr string) (bool, error) {
			return true, nil
		},
	}
	holds := newFakeHoldCache()

	appt, err := newTestCoordinator(repo, &fakeServiceRepo{}, holds).
		Reschedule(context.Background(), "user1", "appt1", "2026-09-02", "15:00")
	require.NoError(t, err)

	assert.Equal(t, "2026-09-02", appt.Date)
	assert.Equal(t, "15:00", appt.Time)
	assert.Contains(t, holds.released, "2026-09-02_15:00")
	assert.Contains(t, holds.released, "2026-09-01_10:00")
}

func TestRescheduleUnknownAppointment(t *testing.T) {
	repo := &fakeAppointmentRepo{
		getFn: func(ctx context.Context, id string) (*models.Appointment, error) {
			return nil, nil
		},
	}

	_, err := newTestCoordinator(repo, &fakeServiceRepo{}, newFakeHoldCache()).
		Reschedule(context.Background(), "user1", "missing", "2026-09-02", "15:00")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRescheduleConflict(t *testing.T) {
	repo := &fakeAppointmentRepo{
		getFn: func(ctx context.Context, id string) (*models.Appointment, error) {
			return &models.Appointment{
				ID: id, Date: "2026-09-01", Time: "10:00", Status: models.StatusConfirmed,
			}, nil
		},
		isSlotFreeFn: func(ctx context.Context, date, timeStr string) (bool, error) {
			return false, nil
		},
		listBookedFn: func(ctx context.Context, date string) ([]string, error) {
			return []string{"15:00"}, nil
		},
	}

	_, err := newTestCoordinator(repo, &fakeServiceRepo{}, newFakeHoldCache()).
		Reschedule(context.Background(), "user1", "appt1", "2026-09-02", "15:00")

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "2026-09-02", conflict.Date)
}

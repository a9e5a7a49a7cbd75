package booking

import (
	"context"
	"testing"

	"clinicbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(repo *fakeAppointmentRepo, services *fakeServiceRepo, holds *fakeHoldCache) *DefaultManager {
	m := NewManager(repo, services, holds)
	m.now = fixedNow
	return m
}

func catalogServices() *fakeServiceRepo {
	return &fakeServiceRepo{
		listFn: func(ctx context.Context) ([]models.Service, error) {
			return []models.Service{
				{ID: 1, Name: "Fisioterapia", Price: 70000},
				{ID: 2, Name: "Masaje terapéutico", Price: 90000},
			}, nil
		},
	}
}

func TestListActiveFlagsManageability(t *testing.T) {
	repo := &fakeAppointmentRepo{
		listByPatientFn: func(ctx context.Context, patientID string) ([]models.Appointment, error) {
			return []models.Appointment{
				{ID: "a1", ServiceID: 1, Date: "2026-08-31", Time: "10:00", Status: models.StatusConfirmed},
				{ID: "a2", ServiceID: 2, Date: "2026-09-01", Time: "15:00", Status: models.StatusConfirmed},
			}, nil
		},
	}

	managed, err := newTestManager(repo, catalogServices(), newFakeHoldCache()).
		ListActive(context.Background(), "1061234567")
	require.NoError(t, err)
	require.Len(t, managed, 2)

	assert.False(t, managed[0].Manageable, "same-day appointment is locked")
	assert.Equal(t, "Fisioterapia", managed[0].ServiceName)
	assert.True(t, managed[1].Manageable, "next-day appointment is manageable")
	assert.Equal(t, "Masaje terapéutico", managed[1].ServiceName)
}

func TestListActiveEmptyPatient(t *testing.T) {
	repo := &fakeAppointmentRepo{
		listByPatientFn: func(ctx context.Context, patientID string) ([]models.Appointment, error) {
			return nil, nil
		},
	}

	managed, err := newTestManager(repo, catalogServices(), newFakeHoldCache()).
		ListActive(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, managed)
}

func TestCancelReleasesHoldAndIsIdempotent(t *testing.T) {
	status := models.StatusConfirmed
	cancelled := 0
	repo := &fakeAppointmentRepo{
		getFn: func(ctx context.Context, id string) (*models.Appointment, error) {
			return &models.Appointment{ID: id, Date: "2026-09-01", Time: "10:00", Status: status}, nil
		},
		cancelFn: func(ctx context.Context, id string) (bool, error) {
			cancelled++
			status = models.StatusCancelled
			return true, nil
		},
	}
	holds := newFakeHoldCache()
	holds.Hold(context.Background(), "2026-09-01", "10:00", "user1")

	m := newTestManager(repo, catalogServices(), holds)
	require.NoError(t, m.Cancel(context.Background(), "a1"))
	assert.Equal(t, 1, cancelled)
	assert.Contains(t, holds.released, "2026-09-01_10:00")

	// Second cancel finds the cancelled status and does nothing.
	require.NoError(t, m.Cancel(context.Background(), "a1"))
	assert.Equal(t, 1, cancelled)
}

func TestCancelUnknownAppointment(t *testing.T) {
	repo := &fakeAppointmentRepo{
		getFn: func(ctx context.Context, id string) (*models.Appointment, error) {
			return nil, nil
		},
	}

	err := newTestManager(repo, catalogServices(), newFakeHoldCache()).
		Cancel(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLinkPayment(t *testing.T) {
	var gotStatus, gotMethod string
	var gotAmount float64
	repo := &fakeAppointmentRepo{
		updatePaymentFn: func(ctx context.Context, id, status, method, proofRef string, amount float64) (bool, error) {
			gotStatus, gotMethod, gotAmount = status, method, amount
			return true, nil
		},
	}

	err := newTestManager(repo, catalogServices(), newFakeHoldCache()).
		LinkPayment(context.Background(), "a1", "transferencia", "https://cdn.example/proof.jpg", 70000)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentPaid, gotStatus)
	assert.Equal(t, "transferencia", gotMethod)
	assert.Equal(t, 70000.0, gotAmount)
}

package conversation

import (
	"context"
	"testing"

	"clinicbot/models"
	"clinicbot/services/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func managedFixture() (*fixture, *[]models.ManagedAppointment) {
	f := newFixture(intentClassifier(models.IntentCancellation))

	appts := []models.ManagedAppointment{
		{
			Appointment: models.Appointment{
				ID: "a1", PatientID: "1061234567", ServiceID: 1,
				Date: "2026-09-02", Time: "10:00", Status: models.StatusConfirmed,
			},
			ServiceName: "Fisioterapia",
			Manageable:  true,
		},
		{
			Appointment: models.Appointment{
				ID: "a2", PatientID: "1061234567", ServiceID: 2,
				Date: "2026-08-31", Time: "15:00", Status: models.StatusConfirmed,
			},
			ServiceName: "Masaje terapéutico",
			Manageable:  false,
		},
	}
	current := &appts

	f.manager.listFn = func(ctx context.Context, patientID string) ([]models.ManagedAppointment, error) {
		if patientID != "1061234567" {
			return nil, nil
		}
		return *current, nil
	}
	f.manager.getFn = func(ctx context.Context, id string) (*models.Appointment, error) {
		for _, a := range *current {
			if a.ID == id {
				cp := a.Appointment
				return &cp, nil
			}
		}
		return nil, booking.ErrNotFound
	}
	f.manager.cancelFn = func(ctx context.Context, id string) error {
		var remaining []models.ManagedAppointment
		found := false
		for _, a := range *current {
			if a.ID == id {
				found = true
				continue
			}
			remaining = append(remaining, a)
		}
		if !found {
			return booking.ErrNotFound
		}
		*current = remaining
		return nil
	}
	return f, current
}

func TestManageCancelFlow(t *testing.T) {
	f, _ := managedFixture()

	resp := f.text(t, "user1", "quiero cancelar mi cita")
	assert.Contains(t, resp.Text, "cédula")

	resp = f.text(t, "user1", "1061234567")
	require.Contains(t, optionData(resp), "manage:a1")
	require.Contains(t, optionData(resp), "action:exit")

	resp = f.selection(t, "user1", "manage:a1")
	assert.Contains(t, optionData(resp), "action:cancel")
	assert.Contains(t, optionData(resp), "action:reschedule")

	resp = f.selection(t, "user1", "action:cancel")
	assert.Contains(t, resp.Text, "¿Seguro")

	resp = f.selection(t, "user1", "action:confirm")
	assert.Contains(t, resp.Text, "cancelada")
	// The same-day appointment remains listed.
	assert.Contains(t, optionData(resp), "manage:a2")
}

func TestManageUnknownCedula(t *testing.T) {
	f, _ := managedFixture()

	f.text(t, "user1", "cancelar mi cita")
	resp := f.text(t, "user1", "999999999")
	assert.Contains(t, resp.Text, "No encontré citas")

	session, err := f.sessions.Get(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, models.StateIdle, session.State)
}

func TestManageLockedAppointment(t *testing.T) {
	f, _ := managedFixture()

	f.text(t, "user1", "cancelar")
	// "cancelar" as first contact is classified, not treated as an exit.
	resp := f.text(t, "user1", "1061234567")
	require.Contains(t, optionData(resp), "manage:a2")

	resp = f.selection(t, "user1", "manage:a2")
	assert.Contains(t, resp.Text, "muy próxima")
	assert.Contains(t, optionData(resp), "manage:a1", "list is re-rendered")
}

func TestManageStaleAppointmentRetries(t *testing.T) {
	f, current := managedFixture()

	f.text(t, "user1", "cancelar mi cita")
	f.text(t, "user1", "1061234567")

	// The appointment vanishes (cancelled elsewhere) before the click lands.
	*current = (*current)[1:]
	resp := f.selection(t, "user1", "manage:a1")
	assert.Contains(t, resp.Text, "No encontré esa cita")
	assert.Contains(t, optionData(resp), "manage:a2")
}

func TestManageRescheduleFlow(t *testing.T) {
	f, _ := managedFixture()

	rescheduled := false
	f.coordinator.rescheduleFn = func(ctx context.Context, userID, appointmentID, date, timeStr string) (*models.Appointment, error) {
		rescheduled = true
		assert.Equal(t, "a1", appointmentID)
		return &models.Appointment{ID: appointmentID, ServiceID: 1, Date: date, Time: timeStr}, nil
	}

	f.text(t, "user1", "quiero mover mi cita")
	f.text(t, "user1", "1061234567")
	f.selection(t, "user1", "manage:a1")

	resp := f.selection(t, "user1", "action:reschedule")
	assert.Contains(t, resp.Text, "reprogramar")
	assert.Contains(t, optionData(resp), "action:confirm")

	resp = f.selection(t, "user1", "action:confirm")
	assert.Contains(t, optionData(resp), "date:2026-09-03")

	resp = f.selection(t, "user1", "date:2026-09-03")
	assert.Contains(t, optionData(resp), "time:11:00")

	resp = f.selection(t, "user1", "time:11:00")
	assert.False(t, rescheduled, "nothing committed before the final confirm")
	assert.Contains(t, resp.Text, "pasaría")
	assert.Contains(t, optionData(resp), "confirm:yes")

	resp = f.selection(t, "user1", "confirm:yes")
	assert.True(t, rescheduled)
	assert.Contains(t, resp.Text, "reprogramada")
}

func TestManageRescheduleBackFromPrompt(t *testing.T) {
	f, _ := managedFixture()

	f.text(t, "user1", "quiero mover mi cita")
	f.text(t, "user1", "1061234567")
	f.selection(t, "user1", "manage:a1")
	f.selection(t, "user1", "action:reschedule")

	resp := f.selection(t, "user1", "action:back")
	assert.Contains(t, optionData(resp), "manage:a1", "declining returns to the list")

	session, err := f.sessions.Get(context.Background(), "user1")
	require.NoError(t, err)
	assert.Empty(t, session.Manage.PendingAction)
}

func TestManageRescheduleConflict(t *testing.T) {
	f, _ := managedFixture()

	f.coordinator.rescheduleFn = func(ctx context.Context, userID, appointmentID, date, timeStr string) (*models.Appointment, error) {
		return nil, &booking.ConflictError{Date: date, Time: timeStr, FreeTimes: []string{"16:00"}}
	}

	f.text(t, "user1", "quiero mover mi cita")
	f.text(t, "user1", "1061234567")
	f.selection(t, "user1", "manage:a1")
	f.selection(t, "user1", "action:reschedule")
	f.selection(t, "user1", "action:confirm")
	f.selection(t, "user1", "date:2026-09-03")
	f.selection(t, "user1", "time:11:00")

	resp := f.selection(t, "user1", "confirm:yes")
	assert.Contains(t, resp.Text, "tomado")
	assert.Equal(t, []string{"time:16:00"}, optionData(resp))
}

func TestManageExitKeyword(t *testing.T) {
	f, _ := managedFixture()

	f.text(t, "user1", "quiero cancelar mi cita")
	resp := f.text(t, "user1", "salir")
	assert.Contains(t, resp.Text, "cancelé")

	session, err := f.sessions.Get(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, models.StateIdle, session.State)
}

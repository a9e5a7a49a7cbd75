package conversation

import (
	"context"
	"errors"

	"clinicbot/models"
	"clinicbot/services/booking"
	"clinicbot/utils"

	"go.uber.org/zap"
)

func (m *Machine) startManage(s *models.ConversationSession) *models.RenderRequest {
	s.State = models.StateManaging
	s.Manage = models.ManageContext{}
	return plain("Claro, te ayudo con tus citas. ¿Cuál es tu número de cédula?")
}

func (m *Machine) handleManaging(ctx context.Context, s *models.ConversationSession, event models.ChatEvent) (*models.RenderRequest, error) {
	if event.Selection != "" {
		return m.handleManageSelection(ctx, s, ParseSelection(event.Selection))
	}

	if s.Manage.PatientID == "" {
		id, ok := sanitizeCedula(event.Text)
		if !ok {
			return plain("Esa cédula no parece válida. Escríbela solo con números, por favor."), nil
		}
		appts, err := m.manager.ListActive(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(appts) == 0 {
			s.Reset()
			return plain("No encontré citas activas con esa cédula. Si quieres agendar una, escríbeme \"agendar\"."), nil
		}
		s.Manage.PatientID = id
		return renderAppointments(appts), nil
	}

	return m.listAppointments(ctx, s, "")
}

func (m *Machine) handleManageSelection(ctx context.Context, s *models.ConversationSession, sel Selection) (*models.RenderRequest, error) {
	switch sel.Name {
	case "manage":
		return m.pickAppointment(ctx, s, sel.Arg)
	case "action":
		switch sel.Arg {
		case "exit":
			s.Reset()
			return plain("Listo, quedo atento si necesitas algo más. 👋"), nil
		case "back":
			s.Manage.PendingAction = ""
			s.Manage.AppointmentID = ""
			return m.listAppointments(ctx, s, "")
		case "cancel":
			return m.askCancelConfirm(ctx, s)
		case "confirm":
			switch s.Manage.PendingAction {
			case "cancel":
				return m.confirmCancel(ctx, s)
			case "reschedule":
				return m.startReschedule(ctx, s)
			}
		case "reschedule":
			return m.askRescheduleConfirm(ctx, s)
		}
	}
	return m.listAppointments(ctx, s, "")
}

func (m *Machine) listAppointments(ctx context.Context, s *models.ConversationSession, note string) (*models.RenderRequest, error) {
	appts, err := m.manager.ListActive(ctx, s.Manage.PatientID)
	if err != nil {
		return nil, err
	}
	if len(appts) == 0 {
		s.Reset()
		msg := "Ya no tienes citas activas."
		if note != "" {
			msg = note + "\n\n" + msg
		}
		return plain(msg), nil
	}
	resp := renderAppointments(appts)
	if note != "" {
		resp.Text = note + "\n\n" + resp.Text
	}
	return resp, nil
}

// pickAppointment resolves the selected appointment, rejecting stale buttons
// and appointments too close to modify.
func (m *Machine) pickAppointment(ctx context.Context, s *models.ConversationSession, appointmentID string) (*models.RenderRequest, error) {
	appt, err := m.manager.Get(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return m.listAppointments(ctx, s, "No encontré esa cita, puede que ya haya cambiado.")
		}
		return nil, err
	}
	if appt.PatientID != s.Manage.PatientID || appt.Status != models.StatusConfirmed {
		return m.listAppointments(ctx, s, "No encontré esa cita, puede que ya haya cambiado.")
	}

	today := m.now().Format("2006-01-02")
	if appt.Date <= today {
		return m.listAppointments(ctx, s,
			"Esa cita está muy próxima y ya no se puede modificar por aquí. Llámanos si necesitas ayuda. 🔒")
	}

	s.Manage.AppointmentID = appt.ID
	s.Manage.PendingAction = ""

	svcName := ""
	if svc, err := m.services.GetService(ctx, appt.ServiceID); err == nil && svc != nil {
		svcName = svc.Name
	}
	return renderManageActions(appt, svcName), nil
}

func (m *Machine) askCancelConfirm(ctx context.Context, s *models.ConversationSession) (*models.RenderRequest, error) {
	if s.Manage.AppointmentID == "" {
		return m.listAppointments(ctx, s, "")
	}
	appt, err := m.manager.Get(ctx, s.Manage.AppointmentID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			s.Manage.AppointmentID = ""
			return m.listAppointments(ctx, s, "No encontré esa cita, puede que ya haya cambiado.")
		}
		return nil, err
	}
	s.Manage.PendingAction = "cancel"
	return renderCancelConfirm(appt), nil
}

func (m *Machine) confirmCancel(ctx context.Context, s *models.ConversationSession) (*models.RenderRequest, error) {
	appointmentID := s.Manage.AppointmentID
	s.Manage.PendingAction = ""
	s.Manage.AppointmentID = ""

	if err := m.manager.Cancel(ctx, appointmentID); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return m.listAppointments(ctx, s, "No encontré esa cita, puede que ya haya cambiado.")
		}
		return nil, err
	}
	return m.listAppointments(ctx, s, "✅ Tu cita fue cancelada.")
}

func (m *Machine) askRescheduleConfirm(ctx context.Context, s *models.ConversationSession) (*models.RenderRequest, error) {
	if s.Manage.AppointmentID == "" {
		return m.listAppointments(ctx, s, "")
	}
	appt, err := m.manager.Get(ctx, s.Manage.AppointmentID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			s.Manage.AppointmentID = ""
			return m.listAppointments(ctx, s, "No encontré esa cita, puede que ya haya cambiado.")
		}
		return nil, err
	}
	s.Manage.PendingAction = "reschedule"
	return renderRescheduleConfirmPrompt(appt), nil
}

func (m *Machine) startReschedule(ctx context.Context, s *models.ConversationSession) (*models.RenderRequest, error) {
	if s.Manage.AppointmentID == "" {
		return m.listAppointments(ctx, s, "")
	}
	appt, err := m.manager.Get(ctx, s.Manage.AppointmentID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			s.Manage.AppointmentID = ""
			return m.listAppointments(ctx, s, "No encontré esa cita, puede que ya haya cambiado.")
		}
		return nil, err
	}

	s.Manage.Rescheduling = true
	s.Manage.PendingAction = ""
	s.Draft.ServiceID = appt.ServiceID
	s.State = models.StateChoosingDate
	now := m.now()
	return m.showCalendar(ctx, s, now.Year(), now.Month())
}

// toRescheduleConfirmation shows the old and new slot side by side before the
// reschedule is committed.
func (m *Machine) toRescheduleConfirmation(ctx context.Context, s *models.ConversationSession) (*models.RenderRequest, error) {
	appt, err := m.manager.Get(ctx, s.Manage.AppointmentID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			s.Reset()
			return plain("No encontré esa cita, puede que ya haya cambiado. Escríbeme \"mis citas\" para verlas de nuevo."), nil
		}
		return nil, err
	}
	s.State = models.StateConfirming
	return renderRescheduleConfirm(appt, s.Draft.Date, s.Draft.Time), nil
}

func (m *Machine) commitReschedule(ctx context.Context, s *models.ConversationSession) (*models.RenderRequest, error) {
	appt, err := m.coordinator.Reschedule(ctx, s.UserID, s.Manage.AppointmentID, s.Draft.Date, s.Draft.Time)
	if err != nil {
		var conflict *booking.ConflictError
		if errors.As(err, &conflict) {
			s.Draft.Time = ""
			s.State = models.StateChoosingTime
			return renderConflict(conflict.Date, conflict.FreeTimes), nil
		}
		if errors.Is(err, booking.ErrNotFound) {
			s.Reset()
			return plain("No encontré esa cita, puede que ya haya cambiado. Escríbeme \"mis citas\" para verlas de nuevo."), nil
		}
		var verr *booking.ValidationError
		if errors.As(err, &verr) {
			s.Draft.Time = ""
			s.State = models.StateChoosingTime
			return m.showDaySlots(ctx, s, "Ese horario dejó de ser válido, elige otro.")
		}
		utils.GetLogger().Error("Reschedule commit failed",
			zap.String("userID", s.UserID), zap.Error(err))
		s.Reset()
		s.State = models.StateEnd
		return plain("Algo salió mal al cambiar tu cita. 😔 Escríbeme en unos minutos y verificamos cómo quedó."), nil
	}

	svcName := ""
	if svc, err := m.services.GetService(ctx, appt.ServiceID); err == nil && svc != nil {
		svcName = svc.Name
	}
	s.Reset()
	s.State = models.StateEnd
	return renderRescheduleSuccess(appt, svcName), nil
}

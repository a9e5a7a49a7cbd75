package conversation

import (
	"context"
	"errors"
	"strconv"
	"time"

	"clinicbot/models"
	"clinicbot/services/booking"
	"clinicbot/utils"

	"go.uber.org/zap"
)

func (m *Machine) handleChoosingService(ctx context.Context, s *models.ConversationSession, event models.ChatEvent) (*models.RenderRequest, error) {
	sel := ParseSelection(event.Selection)
	switch sel.Name {
	case "service":
		// Detail card first; the calendar waits for an explicit "book".
		svc, err := m.lookupService(ctx, sel.Arg)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			return plain("No reconocí ese servicio, elige uno de la lista."), nil
		}
		return renderServiceDetail(svc), nil
	case "book":
		svc, err := m.lookupService(ctx, sel.Arg)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			return plain("No reconocí ese servicio, elige uno de la lista."), nil
		}
		s.Draft.ServiceID = svc.ID
		if s.Draft.EditReturn && s.Draft.Date != "" && s.Draft.Time != "" {
			s.Draft.EditReturn = false
			s.State = models.StateConfirming
			return renderConfirmation(s.Draft, svc.Name), nil
		}
		s.State = models.StateChoosingDate
		now := m.now()
		return m.showCalendar(ctx, s, now.Year(), now.Month())
	default:
		services, err := m.services.ListServices(ctx)
		if err != nil {
			return nil, err
		}
		return renderServices(services, nil), nil
	}
}

func (m *Machine) lookupService(ctx context.Context, arg string) (*models.Service, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return nil, nil
	}
	return m.services.GetService(ctx, id)
}

func (m *Machine) showCalendar(ctx context.Context, s *models.ConversationSession, year int, month time.Month) (*models.RenderRequest, error) {
	var svc *models.Service
	if s.Draft.ServiceID != 0 {
		var err error
		svc, err = m.services.GetService(ctx, s.Draft.ServiceID)
		if err != nil {
			return nil, err
		}
	}
	cal := m.gen.BuildCalendar(year, month, m.now())
	return renderCalendar(svc, cal), nil
}

func (m *Machine) handleChoosingDate(ctx context.Context, s *models.ConversationSession, event models.ChatEvent) (*models.RenderRequest, error) {
	sel := ParseSelection(event.Selection)
	switch sel.Name {
	case "month":
		t, err := time.Parse("2006-01", sel.Arg)
		if err != nil {
			now := m.now()
			return m.showCalendar(ctx, s, now.Year(), now.Month())
		}
		return m.showCalendar(ctx, s, t.Year(), t.Month())
	case "date":
		date, err := time.ParseInLocation("2006-01-02", sel.Arg, m.now().Location())
		if err != nil || !m.gen.Selectable(date, m.now()) {
			return plain("Esa fecha no está disponible, elige un día del calendario."), nil
		}
		s.Draft.Date = sel.Arg
		s.State = models.StateChoosingTime
		return m.showDaySlots(ctx, s, "")
	default:
		now := m.now()
		return m.showCalendar(ctx, s, now.Year(), now.Month())
	}
}

func (m *Machine) showDaySlots(ctx context.Context, s *models.ConversationSession, note string) (*models.RenderRequest, error) {
	booked, err := m.booked.ListBookedTimes(ctx, s.Draft.Date)
	if err != nil {
		return nil, err
	}
	var held []string
	if m.holds != nil {
		held, err = m.holds.HeldTimes(ctx, s.Draft.Date, m.gen.SlotGrid(), s.UserID)
		if err != nil {
			// Held markers are a hint only; render without them.
			utils.GetLogger().Warn("Failed to read slot holds", zap.Error(err))
			held = nil
		}
	}
	slots := m.gen.BuildDaySlots(booked, held)
	return renderDaySlots(s.Draft.Date, slots, note), nil
}

func (m *Machine) handleChoosingTime(ctx context.Context, s *models.ConversationSession, event models.ChatEvent) (*models.RenderRequest, error) {
	sel := ParseSelection(event.Selection)
	if sel.Name != "time" {
		return m.showDaySlots(ctx, s, "")
	}
	if !m.gen.ValidSlot(sel.Arg) {
		return m.showDaySlots(ctx, s, "Ese horario no existe, elige uno de la lista.")
	}

	booked, err := m.booked.ListBookedTimes(ctx, s.Draft.Date)
	if err != nil {
		return nil, err
	}
	for _, t := range booked {
		if t == sel.Arg {
			return m.showDaySlots(ctx, s, "Ese horario ya fue tomado. 😔")
		}
	}

	if m.holds != nil {
		ok, err := m.holds.Hold(ctx, s.Draft.Date, sel.Arg, s.UserID)
		if err != nil {
			utils.GetLogger().Warn("Failed to hold slot", zap.Error(err))
		} else if !ok && s.Draft.Time != sel.Arg {
			// Someone else is mid-booking here. Warn once; a repeated pick of
			// the same slot goes through, the commit re-check is the real gate.
			s.Draft.Time = sel.Arg
			return m.showDaySlots(ctx, s,
				"Otra persona está considerando ese horario. Puedes elegir otro, o tocarlo de nuevo para intentarlo igual.")
		}
	}
	s.Draft.Time = sel.Arg

	if s.Manage.Rescheduling {
		return m.toRescheduleConfirmation(ctx, s)
	}
	if s.Draft.Complete() {
		// Editing or retrying after a conflict; patient data is already in.
		return m.toConfirmation(ctx, s)
	}
	s.State = models.StateEnteringName
	return plain("¿Cuál es tu nombre completo?"), nil
}

func (m *Machine) handleEnteringName(ctx context.Context, s *models.ConversationSession, event models.ChatEvent) (*models.RenderRequest, error) {
	name, ok := sanitizeName(event.Text)
	if !ok {
		return plain("Ese nombre no parece válido. Escríbeme tu nombre completo, por favor."), nil
	}
	s.Draft.Name = name
	if s.Draft.EditReturn {
		return m.toConfirmation(ctx, s)
	}
	s.State = models.StateEnteringID
	return plain("¿Cuál es tu número de cédula?"), nil
}

func (m *Machine) handleEnteringID(ctx context.Context, s *models.ConversationSession, event models.ChatEvent) (*models.RenderRequest, error) {
	id, ok := sanitizeCedula(event.Text)
	if !ok {
		return plain("Esa cédula no parece válida. Escríbela solo con números, por favor."), nil
	}
	s.Draft.PatientID = id
	if s.Draft.EditReturn {
		return m.toConfirmation(ctx, s)
	}
	s.State = models.StateEnteringPhone
	return plain("¿A qué número de teléfono te podemos contactar?"), nil
}

func (m *Machine) handleEnteringPhone(ctx context.Context, s *models.ConversationSession, event models.ChatEvent) (*models.RenderRequest, error) {
	phone, ok := sanitizePhone(event.Text)
	if !ok {
		return plain("Ese teléfono no parece válido. Escríbelo solo con números, por favor."), nil
	}
	s.Draft.Phone = phone
	return m.toConfirmation(ctx, s)
}

func (m *Machine) toConfirmation(ctx context.Context, s *models.ConversationSession) (*models.RenderRequest, error) {
	svc, err := m.services.GetService(ctx, s.Draft.ServiceID)
	if err != nil {
		return nil, err
	}
	svcName := ""
	if svc != nil {
		svcName = svc.Name
	}
	s.Draft.EditReturn = false
	s.State = models.StateConfirming
	return renderConfirmation(s.Draft, svcName), nil
}

func (m *Machine) handleConfirming(ctx context.Context, s *models.ConversationSession, event models.ChatEvent) (*models.RenderRequest, error) {
	sel := ParseSelection(event.Selection)
	if s.Manage.Rescheduling {
		if sel.Name == "confirm" {
			switch sel.Arg {
			case "yes":
				return m.commitReschedule(ctx, s)
			case "no":
				return m.abandon(ctx, s), nil
			}
		}
		return m.toRescheduleConfirmation(ctx, s)
	}
	switch sel.Name {
	case "confirm":
		switch sel.Arg {
		case "yes":
			return m.commitBooking(ctx, s)
		case "edit":
			return renderEditMenu(), nil
		case "no":
			return m.abandon(ctx, s), nil
		}
	case "edit":
		return m.handleEdit(ctx, s, sel.Arg)
	}
	return m.toConfirmation(ctx, s)
}

func (m *Machine) handleEdit(ctx context.Context, s *models.ConversationSession, field string) (*models.RenderRequest, error) {
	s.Draft.EditReturn = true
	switch field {
	case "service":
		return m.startBooking(ctx, s, nil)
	case "date":
		s.State = models.StateChoosingDate
		now := m.now()
		return m.showCalendar(ctx, s, now.Year(), now.Month())
	case "time":
		s.State = models.StateChoosingTime
		return m.showDaySlots(ctx, s, "")
	case "name":
		s.State = models.StateEnteringName
		return plain("¿Cuál es tu nombre completo?"), nil
	case "id":
		s.State = models.StateEnteringID
		return plain("¿Cuál es tu número de cédula?"), nil
	case "phone":
		s.State = models.StateEnteringPhone
		return plain("¿A qué número de teléfono te podemos contactar?"), nil
	default:
		s.Draft.EditReturn = false
		return m.toConfirmation(ctx, s)
	}
}

func (m *Machine) commitBooking(ctx context.Context, s *models.ConversationSession) (*models.RenderRequest, error) {
	svc, err := m.services.GetService(ctx, s.Draft.ServiceID)
	if err != nil {
		return nil, err
	}
	svcName := ""
	if svc != nil {
		svcName = svc.Name
	}

	appt, err := m.coordinator.Commit(ctx, s.UserID, s.Draft)
	if err != nil {
		var conflict *booking.ConflictError
		if errors.As(err, &conflict) {
			// Someone else won the slot. Back to time selection with the
			// refreshed grid; everything else in the draft survives.
			s.Draft.Time = ""
			s.State = models.StateChoosingTime
			return renderConflict(conflict.Date, conflict.FreeTimes), nil
		}
		var verr *booking.ValidationError
		if errors.As(err, &verr) {
			s.Reset()
			return plain("Algo de tu cita dejó de ser válido. 😔 Empecemos de nuevo: escríbeme \"agendar\"."), nil
		}
		// The write may have partially landed; end the flow rather than let
		// the user retry the same confirm.
		utils.GetLogger().Error("Booking commit failed",
			zap.String("userID", s.UserID), zap.Error(err))
		s.Reset()
		s.State = models.StateEnd
		return plain("Algo salió mal al guardar tu cita. 😔 Escríbeme en unos minutos y verificamos si quedó agendada."), nil
	}

	m.scheduleReminder(ctx, s.UserID, appt, svcName)
	s.Reset()
	s.State = models.StateEnd
	return renderBookingSuccess(appt, svcName), nil
}

func (m *Machine) scheduleReminder(ctx context.Context, userID string, appt *models.Appointment, svcName string) {
	if m.reminders == nil {
		return
	}
	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		UserID:        userID,
		PatientName:   appt.PatientName,
		ServiceName:   svcName,
		Date:          appt.Date,
		Time:          appt.Time,
	}
	if err := m.reminders.ScheduleReminder(ctx, payload); err != nil {
		utils.GetLogger().Warn("Failed to schedule reminder",
			zap.String("appointmentID", appt.ID), zap.Error(err))
	}
}

package conversation

import (
	"fmt"
	"strings"
	"time"

	"clinicbot/config"
	"clinicbot/models"
)

// All user-facing copy lives here. The engine emits RenderRequests; the
// transport decides how options become buttons, lists or quick replies.

var spanishWeekdays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var spanishWeekdaysShort = [...]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"}

var spanishMonths = [...]string{"", "enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// spanishDate renders "martes 1 de septiembre" from "2026-09-01".
func spanishDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s %d de %s", spanishWeekdays[t.Weekday()], t.Day(), spanishMonths[t.Month()])
}

func plain(text string) *models.RenderRequest {
	return &models.RenderRequest{Text: text}
}

func renderGreeting() *models.RenderRequest {
	return &models.RenderRequest{
		Text: fmt.Sprintf("¡Hola! Soy %s, el asistente de %s. ¿En qué puedo ayudarte?",
			config.AppConfig.BotName, config.AppConfig.ClinicName),
		Options: []models.RenderOption{
			{Label: "📅 Agendar una cita", Data: selectionData("menu", "book")},
			{Label: "🗂 Gestionar mis citas", Data: selectionData("menu", "manage")},
			{Label: "📍 ¿Dónde están ubicados?", Data: selectionData("menu", "location")},
		},
	}
}

func renderLocation() *models.RenderRequest {
	return plain(fmt.Sprintf("Estamos en %s.\n%s", config.AppConfig.ClinicAddress, config.AppConfig.ClinicMapURL))
}

func renderServices(services []models.Service, suggested []int) *models.RenderRequest {
	isSuggested := make(map[int]bool, len(suggested))
	for _, id := range suggested {
		isSuggested[id] = true
	}

	req := &models.RenderRequest{Text: "¿Qué servicio deseas agendar?"}
	for _, s := range services {
		label := fmt.Sprintf("%s · $%.0f", s.Name, s.Price)
		if isSuggested[s.ID] {
			label = "⭐ " + label
		}
		req.Options = append(req.Options, models.RenderOption{
			Label: label,
			Data:  selectionData("service", fmt.Sprintf("%d", s.ID)),
		})
	}
	return req
}

func renderServiceDetail(svc *models.Service) *models.RenderRequest {
	var text strings.Builder
	fmt.Fprintf(&text, "🩺 %s\n⏱ %d min · 💲 $%.0f", svc.Name, svc.DurationMin, svc.Price)
	if svc.Description != "" {
		text.WriteString("\n\n" + svc.Description)
	}
	return &models.RenderRequest{
		Text: text.String(),
		Options: []models.RenderOption{
			{Label: "📅 Agendar Cita", Data: selectionData("book", fmt.Sprintf("%d", svc.ID))},
			{Label: "⬅️ Ver otros servicios", Data: selectionData("action", "back")},
		},
	}
}

func renderCalendar(svc *models.Service, cal models.Calendar) *models.RenderRequest {
	var text strings.Builder
	if svc != nil {
		fmt.Fprintf(&text, "%s (%d min · $%.0f)\n", svc.Name, svc.DurationMin, svc.Price)
		if svc.Description != "" {
			text.WriteString(svc.Description + "\n")
		}
		text.WriteString("\n")
	}
	fmt.Fprintf(&text, "Elige un día de %s:", spanishMonths[cal.Month])

	req := &models.RenderRequest{Text: text.String()}
	for _, d := range cal.Days {
		if !d.Selectable {
			continue
		}
		t, _ := time.Parse("2006-01-02", d.Date)
		req.Options = append(req.Options, models.RenderOption{
			Label: fmt.Sprintf("%s %d", spanishWeekdaysShort[t.Weekday()], d.Day),
			Data:  selectionData("date", d.Date),
		})
	}

	next := time.Date(cal.Year, cal.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	req.Options = append(req.Options, models.RenderOption{
		Label: "➡️ Ver " + spanishMonths[next.Month()],
		Data:  selectionData("month", next.Format("2006-01")),
	})
	return req
}

func renderDaySlots(date string, slots []models.DaySlot, note string) *models.RenderRequest {
	text := fmt.Sprintf("Horarios para el %s:", spanishDate(date))
	if note != "" {
		text = note + "\n\n" + text
	}

	req := &models.RenderRequest{Text: text}
	for _, s := range slots {
		if s.Booked {
			continue
		}
		label := s.Time
		if s.Held {
			// Another user is mid-booking on this slot. Still selectable.
			label += " ⏳"
		}
		req.Options = append(req.Options, models.RenderOption{
			Label: label,
			Data:  selectionData("time", s.Time),
		})
	}
	if len(req.Options) == 0 {
		req.Text = fmt.Sprintf("Lo siento, no quedan horarios para el %s. Elige otro día.", spanishDate(date))
	}
	return req
}

func renderConfirmation(draft models.BookingDraft, svcName string) *models.RenderRequest {
	text := fmt.Sprintf(
		"Por favor confirma tu cita:\n\n🩺 %s\n📅 %s\n🕐 %s\n👤 %s\n🪪 CC %s\n📞 %s",
		svcName, spanishDate(draft.Date), draft.Time, draft.Name, draft.PatientID, draft.Phone)
	return &models.RenderRequest{
		Text: text,
		Options: []models.RenderOption{
			{Label: "✅ Confirmar", Data: selectionData("confirm", "yes")},
			{Label: "✏️ Editar", Data: selectionData("confirm", "edit")},
			{Label: "❌ Cancelar", Data: selectionData("confirm", "no")},
		},
	}
}

func renderEditMenu() *models.RenderRequest {
	return &models.RenderRequest{
		Text: "¿Qué deseas cambiar?",
		Options: []models.RenderOption{
			{Label: "Servicio", Data: selectionData("edit", "service")},
			{Label: "Fecha y hora", Data: selectionData("edit", "date")},
			{Label: "Hora", Data: selectionData("edit", "time")},
			{Label: "Nombre", Data: selectionData("edit", "name")},
			{Label: "Cédula", Data: selectionData("edit", "id")},
			{Label: "Teléfono", Data: selectionData("edit", "phone")},
		},
	}
}

func renderBookingSuccess(appt *models.Appointment, svcName string) *models.RenderRequest {
	return plain(fmt.Sprintf(
		"✅ ¡Tu cita quedó agendada!\n\n🩺 %s\n📅 %s\n🕐 %s\n👤 %s\n🔑 Código: %s\n\n📍 %s\nTe enviaremos un recordatorio un día antes.",
		svcName, spanishDate(appt.Date), appt.Time, appt.PatientName, appt.ID,
		config.AppConfig.ClinicAddress))
}

func renderRescheduleSuccess(appt *models.Appointment, svcName string) *models.RenderRequest {
	return plain(fmt.Sprintf(
		"✅ Tu cita quedó reprogramada.\n\n🩺 %s\n📅 %s\n🕐 %s\n\nTe esperamos. 😊",
		svcName, spanishDate(appt.Date), appt.Time))
}

func renderConflict(date string, freeTimes []string) *models.RenderRequest {
	if len(freeTimes) == 0 {
		return plain(fmt.Sprintf(
			"😔 Ese horario acaba de ser tomado y no quedan más horarios el %s. Elige otro día escribiendo \"agendar\".",
			spanishDate(date)))
	}
	req := &models.RenderRequest{
		Text: fmt.Sprintf("😔 Ese horario acaba de ser tomado. Horarios disponibles el %s:", spanishDate(date)),
	}
	for _, t := range freeTimes {
		req.Options = append(req.Options, models.RenderOption{
			Label: t,
			Data:  selectionData("time", t),
		})
	}
	return req
}

func renderAppointments(appts []models.ManagedAppointment) *models.RenderRequest {
	req := &models.RenderRequest{
		Text: "Estas son tus citas activas. Elige una para gestionarla:",
	}
	for _, a := range appts {
		label := fmt.Sprintf("%s %s · %s", spanishDate(a.Date), a.Time, a.ServiceName)
		if !a.Manageable {
			label += " 🔒"
		}
		req.Options = append(req.Options, models.RenderOption{
			Label: label,
			Data:  selectionData("manage", a.ID),
		})
	}
	req.Options = append(req.Options, models.RenderOption{
		Label: "Salir",
		Data:  selectionData("action", "exit"),
	})
	return req
}

func renderManageActions(appt *models.Appointment, svcName string) *models.RenderRequest {
	return &models.RenderRequest{
		Text: fmt.Sprintf("Cita: %s el %s a las %s. ¿Qué deseas hacer?",
			svcName, spanishDate(appt.Date), appt.Time),
		Options: []models.RenderOption{
			{Label: "🔄 Reprogramar", Data: selectionData("action", "reschedule")},
			{Label: "🗑 Cancelar cita", Data: selectionData("action", "cancel")},
			{Label: "⬅️ Volver", Data: selectionData("action", "back")},
		},
	}
}

func renderRescheduleConfirmPrompt(appt *models.Appointment) *models.RenderRequest {
	return &models.RenderRequest{
		Text: fmt.Sprintf("¿Quieres reprogramar tu cita del %s a las %s?",
			spanishDate(appt.Date), appt.Time),
		Options: []models.RenderOption{
			{Label: "Sí, elegir nueva fecha", Data: selectionData("action", "confirm")},
			{Label: "No, volver", Data: selectionData("action", "back")},
		},
	}
}

func renderRescheduleConfirm(appt *models.Appointment, newDate, newTime string) *models.RenderRequest {
	return &models.RenderRequest{
		Text: fmt.Sprintf("Tu cita pasaría del %s a las %s al %s a las %s. ¿Confirmas?",
			spanishDate(appt.Date), appt.Time, spanishDate(newDate), newTime),
		Options: []models.RenderOption{
			{Label: "✅ Confirmar cambio", Data: selectionData("confirm", "yes")},
			{Label: "❌ No, dejarla como está", Data: selectionData("confirm", "no")},
		},
	}
}

func renderCancelConfirm(appt *models.Appointment) *models.RenderRequest {
	return &models.RenderRequest{
		Text: fmt.Sprintf("¿Seguro que deseas cancelar tu cita del %s a las %s?",
			spanishDate(appt.Date), appt.Time),
		Options: []models.RenderOption{
			{Label: "Sí, cancelar", Data: selectionData("action", "confirm")},
			{Label: "No, volver", Data: selectionData("action", "back")},
		},
	}
}

func renderPaymentCandidates(payment models.PaymentContext, appts []models.ManagedAppointment) *models.RenderRequest {
	req := &models.RenderRequest{
		Text: fmt.Sprintf("Recibí tu comprobante por $%.0f del %s. ¿A cuál cita corresponde?",
			payment.Amount, payment.Date),
	}
	for _, a := range appts {
		req.Options = append(req.Options, models.RenderOption{
			Label: fmt.Sprintf("%s %s · %s", spanishDate(a.Date), a.Time, a.ServiceName),
			Data:  selectionData("pay", a.ID),
		})
	}
	req.Options = append(req.Options, models.RenderOption{
		Label: "Ninguna / salir",
		Data:  selectionData("action", "exit"),
	})
	return req
}

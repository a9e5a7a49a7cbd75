package conversation

import (
	"context"
	"errors"

	"clinicbot/models"
	"clinicbot/services/booking"
)

// startPaymentLink begins the proof-to-appointment linking flow after the
// classifier recognized a payment receipt.
func (m *Machine) startPaymentLink(s *models.ConversationSession, result *models.ClassifyResult, event models.ChatEvent) *models.RenderRequest {
	if result.ExtractedInvoice == nil || result.ExtractedInvoice.Amount <= 0 {
		return plain("Recibí tu imagen pero no pude leerla como comprobante de pago. ¿Puedes enviarla de nuevo, más nítida?")
	}

	s.State = models.StateLinkingPayment
	s.Manage = models.ManageContext{}
	s.Payment = models.PaymentContext{
		Amount:   result.ExtractedInvoice.Amount,
		Date:     result.ExtractedInvoice.Date,
		ProofRef: event.ImageRef,
	}
	return plain("¡Gracias! Veo un comprobante. Para registrar tu pago, ¿cuál es tu número de cédula?")
}

func (m *Machine) handleLinkingPayment(ctx context.Context, s *models.ConversationSession, event models.ChatEvent) (*models.RenderRequest, error) {
	if event.Selection != "" {
		sel := ParseSelection(event.Selection)
		switch sel.Name {
		case "pay":
			return m.linkPayment(ctx, s, sel.Arg)
		case "action":
			if sel.Arg == "exit" {
				s.Reset()
				return plain("Entendido, no registré el pago. Quedo atento. 👋"), nil
			}
		}
		return m.paymentCandidates(ctx, s)
	}

	if s.Manage.PatientID == "" {
		id, ok := sanitizeCedula(event.Text)
		if !ok {
			return plain("Esa cédula no parece válida. Escríbela solo con números, por favor."), nil
		}
		s.Manage.PatientID = id
	}
	return m.paymentCandidates(ctx, s)
}

func (m *Machine) paymentCandidates(ctx context.Context, s *models.ConversationSession) (*models.RenderRequest, error) {
	appts, err := m.manager.ListActive(ctx, s.Manage.PatientID)
	if err != nil {
		return nil, err
	}

	// Only unpaid appointments make sense as link targets.
	var pending []models.ManagedAppointment
	for _, a := range appts {
		if a.PaymentStatus != models.PaymentPaid {
			pending = append(pending, a)
		}
	}
	if len(pending) == 0 {
		s.Reset()
		return plain("No encontré citas pendientes de pago con esa cédula. Si crees que es un error, llámanos."), nil
	}
	return renderPaymentCandidates(s.Payment, pending), nil
}

func (m *Machine) linkPayment(ctx context.Context, s *models.ConversationSession, appointmentID string) (*models.RenderRequest, error) {
	appt, err := m.manager.Get(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return m.paymentCandidates(ctx, s)
		}
		return nil, err
	}
	if appt.PatientID != s.Manage.PatientID {
		return m.paymentCandidates(ctx, s)
	}

	err = m.manager.LinkPayment(ctx, appointmentID, "transferencia", s.Payment.ProofRef, s.Payment.Amount)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return m.paymentCandidates(ctx, s)
		}
		return nil, err
	}

	resp := plain("✅ ¡Pago registrado! Gracias. Te esperamos en tu cita. 😊")
	s.Reset()
	s.State = models.StateEnd
	return resp, nil
}

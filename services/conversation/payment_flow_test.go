package conversation

import (
	"context"
	"testing"

	"clinicbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceClassifier(amount float64, date string) *fakeClassifier {
	return &fakeClassifier{
		classifyFn: func(ctx context.Context, req models.ClassifyRequest) (*models.ClassifyResult, error) {
			return &models.ClassifyResult{
				Intent:           models.IntentInvoiceAnalysis,
				ExtractedInvoice: &models.InvoiceData{Amount: amount, Date: date},
			}, nil
		},
	}
}

func TestPaymentLinkFlow(t *testing.T) {
	f := newFixture(invoiceClassifier(70000, "2026-08-30"))

	f.manager.listFn = func(ctx context.Context, patientID string) ([]models.ManagedAppointment, error) {
		return []models.ManagedAppointment{
			{
				Appointment: models.Appointment{
					ID: "a1", PatientID: "1061234567", ServiceID: 1,
					Date: "2026-09-02", Time: "10:00",
					Status: models.StatusConfirmed, PaymentStatus: models.PaymentPending,
				},
				ServiceName: "Fisioterapia",
			},
			{
				Appointment: models.Appointment{
					ID: "a2", PatientID: "1061234567", ServiceID: 2,
					Date: "2026-09-03", Time: "15:00",
					Status: models.StatusConfirmed, PaymentStatus: models.PaymentPaid,
				},
				ServiceName: "Masaje terapéutico",
			},
		}, nil
	}
	f.manager.getFn = func(ctx context.Context, id string) (*models.Appointment, error) {
		return &models.Appointment{ID: id, PatientID: "1061234567", Status: models.StatusConfirmed}, nil
	}

	var linkedID, linkedProof string
	var linkedAmount float64
	f.manager.linkFn = func(ctx context.Context, appointmentID, method, proofRef string, amount float64) error {
		linkedID, linkedProof, linkedAmount = appointmentID, proofRef, amount
		return nil
	}

	resp, err := f.machine.Handle(context.Background(), models.ChatEvent{
		UserID:   "user1",
		Image:    []byte{0xff, 0xd8},
		ImageRef: "https://cdn.example/proof.jpg",
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "comprobante")
	assert.Contains(t, resp.Text, "cédula")

	resp = f.text(t, "user1", "1061234567")
	assert.Contains(t, resp.Text, "70000")
	assert.Contains(t, optionData(resp), "pay:a1")
	assert.NotContains(t, optionData(resp), "pay:a2", "paid appointments are not link targets")

	resp = f.selection(t, "user1", "pay:a1")
	assert.Contains(t, resp.Text, "Pago registrado")
	assert.Equal(t, "a1", linkedID)
	assert.Equal(t, "https://cdn.example/proof.jpg", linkedProof)
	assert.Equal(t, 70000.0, linkedAmount)
}

func TestPaymentUnreadableProof(t *testing.T) {
	f := newFixture(invoiceClassifier(0, ""))

	resp, err := f.machine.Handle(context.Background(), models.ChatEvent{
		UserID: "user1",
		Image:  []byte{0xff, 0xd8},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "no pude leerla")

	session, err := f.sessions.Get(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, models.StateIdle, session.State)
}

func TestPaymentExitWithoutLinking(t *testing.T) {
	f := newFixture(invoiceClassifier(70000, "2026-08-30"))
	f.manager.listFn = func(ctx context.Context, patientID string) ([]models.ManagedAppointment, error) {
		return []models.ManagedAppointment{
			{
				Appointment: models.Appointment{
					ID: "a1", PatientID: "1061234567",
					Date: "2026-09-02", Time: "10:00",
					Status: models.StatusConfirmed, PaymentStatus: models.PaymentPending,
				},
				ServiceName: "Fisioterapia",
			},
		}, nil
	}

	f.machine.Handle(context.Background(), models.ChatEvent{UserID: "user1", Image: []byte{1}})
	f.text(t, "user1", "1061234567")

	resp := f.selection(t, "user1", "action:exit")
	assert.Contains(t, resp.Text, "no registré el pago")
}

package payments

import (
	"fmt"

	"clinicbot/config"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// Gateway creates card payment intents for appointments. Most patients pay by
// transfer or cash; the card path exists for remote patients.
type Gateway interface {
	CreateIntent(appointmentID string, amount float64) (*Intent, error)
}

// Intent is the client-side handle for completing a card payment.
type Intent struct {
	ID           string  `json:"id"`
	ClientSecret string  `json:"client_secret"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

// StripeGateway implements Gateway on Stripe.
type StripeGateway struct{}

func NewStripeGateway() *StripeGateway {
	stripe.Key = config.AppConfig.StripeKey
	return &StripeGateway{}
}

func (g *StripeGateway) CreateIntent(appointmentID string, amount float64) (*Intent, error) {
	// Stripe expects COP in centavos.
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amount * 100)),
		Currency: stripe.String(string(stripe.CurrencyCOP)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("appointment_id", appointmentID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       amount,
		Currency:     string(pi.Currency),
	}, nil
}

package models

// Intent is the closed set of intents the classification collaborator can
// return. Anything outside the set is normalized to IntentGeneral before it
// reaches the state machine.
type Intent string

const (
	IntentGreeting         Intent = "greeting"
	IntentBookingRequest   Intent = "booking_request"
	IntentCheckAppointment Intent = "check_appointment"
	IntentCancellation     Intent = "cancellation"
	IntentReschedule       Intent = "reschedule"
	IntentInvoiceAnalysis  Intent = "invoice_analysis"
	IntentLocationInquiry  Intent = "location_inquiry"
	IntentGeneral          Intent = "general"
)

// ClassifyRequest is the input to the classification collaborator.
type ClassifyRequest struct {
	History []string `json:"history,omitempty"`
	Text    string   `json:"text,omitempty"`
	Image   []byte   `json:"-"`
	Audio   []byte   `json:"-"`
}

// InvoiceData is the amount/date pair extracted from a payment-proof image.
type InvoiceData struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// ClassifyResult is the structured result of one classification call.
type ClassifyResult struct {
	Message             string       `json:"message"`
	Intent              Intent       `json:"intent"`
	SuggestedServiceIDs []int        `json:"suggestedServiceIds,omitempty"`
	ExtractedInvoice    *InvoiceData `json:"extractedInvoiceData,omitempty"`
	AudioTranscription  string       `json:"audioTranscription,omitempty"`
}

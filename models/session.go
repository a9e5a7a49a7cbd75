package models

// SessionState enumerates the conversation states. Idle is initial; End is
// terminal and immediately re-enterable as a fresh Idle.
type SessionState string

const (
	StateIdle            SessionState = "idle"
	StateChoosingService SessionState = "choosing_service"
	StateChoosingDate    SessionState = "choosing_date"
	StateChoosingTime    SessionState = "choosing_time"
	StateEnteringName    SessionState = "entering_name"
	StateEnteringID      SessionState = "entering_id"
	StateEnteringPhone   SessionState = "entering_phone"
	StateConfirming      SessionState = "confirming"
	StateManaging        SessionState = "managing_appointments"
	StateLinkingPayment  SessionState = "linking_payment"
	StateEnd             SessionState = "end"
)

// ManageContext tracks which appointment a management flow is acting on and
// which confirmation sub-step, if any, is pending.
type ManageContext struct {
	PatientID     string `json:"patient_id,omitempty"`
	AppointmentID string `json:"appointment_id,omitempty"`
	Rescheduling  bool   `json:"rescheduling,omitempty"`
	PendingAction string `json:"pending_action,omitempty"` // "cancel" | "reschedule"
}

// PaymentContext carries invoice data extracted by the classifier until the
// user picks the appointment it belongs to.
type PaymentContext struct {
	Amount   float64 `json:"amount,omitempty"`
	Date     string  `json:"date,omitempty"`
	ProofRef string  `json:"proof_ref,omitempty"`
}

// ConversationSession holds the per-user dialogue state between turns. It
// lives only in the session cache; committed bookings are durable in the
// store, in-flight drafts are volatile.
type ConversationSession struct {
	UserID  string         `json:"user_id"`
	State   SessionState   `json:"state"`
	Draft   BookingDraft   `json:"draft"`
	Manage  ManageContext  `json:"manage"`
	Payment PaymentContext `json:"payment"`
	History []string       `json:"history,omitempty"` // recent user turns fed back to the classifier
}

// NewConversationSession returns a fresh Idle session for the given user.
func NewConversationSession(userID string) *ConversationSession {
	return &ConversationSession{UserID: userID, State: StateIdle}
}

// Reset clears all flow context and returns the session to Idle.
func (s *ConversationSession) Reset() {
	s.State = StateIdle
	s.Draft = BookingDraft{}
	s.Manage = ManageContext{}
	s.Payment = PaymentContext{}
}

package models

// ReportRow is one appointment line of a financial report.
type ReportRow struct {
	PatientName   string  `json:"patient_name"`
	ServiceName   string  `json:"service_name"`
	Date          string  `json:"date,omitempty"`
	Time          string  `json:"time"`
	Price         float64 `json:"price"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	PaymentAmount float64 `json:"payment_amount"`
}

// FinancialReport aggregates a day's (or range's) appointments: expected
// revenue from scheduled services versus what was actually collected.
type FinancialReport struct {
	Title          string             `json:"title"`
	TotalExpected  float64            `json:"total_expected"`
	TotalCollected float64            `json:"total_collected"`
	ByMethod       map[string]float64 `json:"by_method"`
	Rows           []ReportRow        `json:"rows"`
}

// ReminderPayload is the queued reminder task body.
type ReminderPayload struct {
	AppointmentID string `json:"appointment_id"`
	UserID        string `json:"user_id"`
	PatientName   string `json:"patient_name"`
	ServiceName   string `json:"service_name"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

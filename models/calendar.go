package models

import "time"

// CalendarDay is one selectable cell of a month calendar.
type CalendarDay struct {
	Day        int    `json:"day"`
	Date       string `json:"date"` // "YYYY-MM-DD"
	Selectable bool   `json:"selectable"`
}

// Calendar is the bookable-day view for one month.
type Calendar struct {
	Year  int           `json:"year"`
	Month time.Month    `json:"month"`
	Days  []CalendarDay `json:"days"`
}

// DaySlot is one entry of the fixed daily slot grid for a date.
type DaySlot struct {
	Time   string `json:"time"` // "HH:MM"
	Booked bool   `json:"booked"`
	Held   bool   `json:"held,omitempty"` // advisory hint only, never gates a commit
}

// RenderOption is one selectable option attached to an outbound prompt. Data
// is the opaque selection payload the transport echoes back on click.
type RenderOption struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// RenderRequest is the outbound prompt the transport maps to its native UI.
type RenderRequest struct {
	Text     string         `json:"text"`
	Options  []RenderOption `json:"options,omitempty"`
	Document string         `json:"document,omitempty"` // local path of an attached file (reports)
}

// ChatEvent is one opaque inbound event from the transport: free text, a
// discrete selection, or media that needs classification first.
type ChatEvent struct {
	UserID    string `json:"user_id" binding:"required"`
	Text      string `json:"text,omitempty"`
	Selection string `json:"selection,omitempty"`
	Image     []byte `json:"image,omitempty"`
	ImageRef  string `json:"image_ref,omitempty"` // durable URL of the uploaded image, set server-side
	Audio     []byte `json:"audio,omitempty"`
}

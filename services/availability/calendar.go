package availability

import (
	"time"

	"clinicbot/models"
)

// slotGrid is the clinic's fixed daily schedule. Identical for every working
// day; availability is always derived by subtracting confirmed bookings from
// this grid, never stored.
var slotGrid = []string{
	"09:00", "10:00", "11:00",
	"14:00", "15:00", "16:00", "17:00", "18:00",
}

// HolidayChecker reports whether a date is a non-working holiday.
type HolidayChecker interface {
	IsHoliday(date time.Time) bool
}

// Generator derives bookable calendars and slot grids. It holds no state
// beyond the holiday calendar and is safe for concurrent use.
type Generator struct {
	holidays HolidayChecker
}

func NewGenerator(holidays HolidayChecker) *Generator {
	return &Generator{holidays: holidays}
}

// SlotGrid returns a copy of the fixed daily slot grid.
func (g *Generator) SlotGrid() []string {
	out := make([]string, len(slotGrid))
	copy(out, slotGrid)
	return out
}

// ValidSlot reports whether t is one of the grid's slot times.
func (g *Generator) ValidSlot(t string) bool {
	for _, s := range slotGrid {
		if s == t {
			return true
		}
	}
	return false
}

// Selectable reports whether a date can receive new bookings: strictly after
// today, not a Sunday and not a holiday. Today itself is never bookable.
func (g *Generator) Selectable(date, today time.Time) bool {
	d := truncateDay(date)
	if !d.After(truncateDay(today)) {
		return false
	}
	if d.Weekday() == time.Sunday {
		return false
	}
	if g.holidays != nil && g.holidays.IsHoliday(d) {
		return false
	}
	return true
}

// BuildCalendar renders the month view with each day flagged selectable or
// not. Non-selectable days stay in the view so the transport can show them
// disabled rather than leave gaps.
func (g *Generator) BuildCalendar(year int, month time.Month, today time.Time) models.Calendar {
	first := time.Date(year, month, 1, 0, 0, 0, 0, today.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cal := models.Calendar{Year: year, Month: month}
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
		cal.Days = append(cal.Days, models.CalendarDay{
			Day:        day,
			Date:       date.Format("2006-01-02"),
			Selectable: g.Selectable(date, today),
		})
	}
	return cal
}

// BuildDaySlots maps the grid against a date's confirmed bookings and
// advisory holds. Booked slots are unavailable; held slots remain selectable
// and carry only a hint.
func (g *Generator) BuildDaySlots(bookedTimes, heldTimes []string) []models.DaySlot {
	booked := make(map[string]bool, len(bookedTimes))
	for _, t := range bookedTimes {
		booked[t] = true
	}
	held := make(map[string]bool, len(heldTimes))
	for _, t := range heldTimes {
		held[t] = true
	}

	slots := make([]models.DaySlot, 0, len(slotGrid))
	for _, t := range slotGrid {
		slots = append(slots, models.DaySlot{
			Time:   t,
			Booked: booked[t],
			Held:   !booked[t] && held[t],
		})
	}
	return slots
}

// FreeTimes returns the grid times not present in bookedTimes, in grid order.
func (g *Generator) FreeTimes(bookedTimes []string) []string {
	booked := make(map[string]bool, len(bookedTimes))
	for _, t := range bookedTimes {
		booked[t] = true
	}
	var free []string
	for _, t := range slotGrid {
		if !booked[t] {
			free = append(free, t)
		}
	}
	return free
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSelectableRejectsPastTodaySundayAndHoliday(t *testing.T) {
	g := NewGenerator(NewColombianHolidays())
	today := day(2026, time.August, 31) // Monday

	assert.False(t, g.Selectable(day(2026, time.August, 20), today), "past date")
	assert.False(t, g.Selectable(today, today), "today is never bookable")
	assert.False(t, g.Selectable(day(2026, time.September, 6), today), "Sunday")
	assert.False(t, g.Selectable(day(2026, time.December, 25), today), "Christmas")
	assert.True(t, g.Selectable(day(2026, time.September, 1), today), "plain Tuesday")
}

func TestSelectableRejectsObservedMondayHolidays(t *testing.T) {
	g := NewGenerator(NewColombianHolidays())
	today := day(2026, time.January, 2)

	// Epiphany (Jan 6) falls on a Tuesday in 2026 and is observed the
	// following Monday, Jan 12.
	assert.False(t, g.Selectable(day(2026, time.January, 12), today))
	assert.True(t, g.Selectable(day(2026, time.January, 13), today))
}

func TestColombianHolidayCalendar(t *testing.T) {
	h := NewColombianHolidays()

	// Fixed holidays observed on their nominal date.
	assert.True(t, h.IsHoliday(day(2026, time.July, 20)), "Independencia")
	assert.True(t, h.IsHoliday(day(2026, time.August, 7)), "Batalla de Boyacá")
	assert.True(t, h.IsHoliday(day(2026, time.December, 25)), "Navidad")

	// Easter 2026 is April 5: Jueves y Viernes Santo.
	assert.True(t, h.IsHoliday(day(2026, time.April, 2)))
	assert.True(t, h.IsHoliday(day(2026, time.April, 3)))

	// Sagrado Corazón is Easter+68 (Friday Jun 12), observed Monday Jun 15.
	assert.True(t, h.IsHoliday(day(2026, time.June, 15)))

	// Independencia de Cartagena (Nov 11, a Wednesday in 2026) is observed
	// the following Monday, Nov 16.
	assert.True(t, h.IsHoliday(day(2026, time.November, 16)))

	assert.False(t, h.IsHoliday(day(2026, time.November, 17)), "plain Tuesday")
}

func TestBuildCalendarCoversWholeMonth(t *testing.T) {
	g := NewGenerator(NewColombianHolidays())
	today := day(2026, time.August, 31)

	cal := g.BuildCalendar(2026, time.September, today)
	require.Len(t, cal.Days, 30)
	assert.Equal(t, "2026-09-01", cal.Days[0].Date)
	assert.True(t, cal.Days[0].Selectable)
	assert.False(t, cal.Days[5].Selectable, "Sep 6 is a Sunday")
}

func TestBuildDaySlotsFlagsBookedAndHeld(t *testing.T) {
	g := NewGenerator(nil)

	slots := g.BuildDaySlots([]string{"10:00"}, []string{"10:00", "15:00"})
	require.Len(t, slots, 8)

	byTime := make(map[string]int)
	for i, s := range slots {
		byTime[s.Time] = i
	}

	booked := slots[byTime["10:00"]]
	assert.True(t, booked.Booked)
	assert.False(t, booked.Held, "booked wins over held")

	held := slots[byTime["15:00"]]
	assert.False(t, held.Booked)
	assert.True(t, held.Held)

	free := slots[byTime["09:00"]]
	assert.False(t, free.Booked)
	assert.False(t, free.Held)
}

func TestFreeTimesKeepsGridOrder(t *testing.T) {
	g := NewGenerator(nil)

	free := g.FreeTimes([]string{"09:00", "14:00", "18:00"})
	assert.Equal(t, []string{"10:00", "11:00", "15:00", "16:00", "17:00"}, free)

	assert.Empty(t, g.FreeTimes(g.SlotGrid()), "fully booked day has no free times")
}

func TestValidSlot(t *testing.T) {
	g := NewGenerator(nil)
	assert.True(t, g.ValidSlot("09:00"))
	assert.False(t, g.ValidSlot("12:00"))
	assert.False(t, g.ValidSlot("9:00"))
}

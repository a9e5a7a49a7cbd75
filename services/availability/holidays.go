package availability

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/aa"
)

// nextMonday moves the observance to the following Monday, per Ley 51 de 1983
// (Ley Emiliani). A holiday already falling on Monday stays put.
var nextMonday = []cal.AltDay{
	{Day: time.Tuesday, Offset: 6},
	{Day: time.Wednesday, Offset: 5},
	{Day: time.Thursday, Offset: 4},
	{Day: time.Friday, Offset: 3},
	{Day: time.Saturday, Offset: 2},
	{Day: time.Sunday, Offset: 1},
}

// colombianHolidays is Colombia's statutory public holiday set. Easter-based
// entries use the library's Easter offset; Ascensión (+39), Corpus Christi
// (+60) and Sagrado Corazón (+68) land on Thursday or Friday and are always
// observed the following Monday.
var colombianHolidays = []*cal.Holiday{
	aa.NewYear.Clone(&cal.Holiday{Name: "Año Nuevo", Type: cal.ObservancePublic}),
	aa.Epiphany.Clone(&cal.Holiday{Name: "Día de los Reyes Magos", Type: cal.ObservancePublic, Observed: nextMonday}),
	{Name: "Día de San José", Type: cal.ObservancePublic, Month: time.March, Day: 19, Observed: nextMonday, Func: cal.CalcDayOfMonth},
	aa.MaundyThursday.Clone(&cal.Holiday{Name: "Jueves Santo", Type: cal.ObservancePublic}),
	aa.GoodFriday.Clone(&cal.Holiday{Name: "Viernes Santo", Type: cal.ObservancePublic}),
	aa.WorkersDay.Clone(&cal.Holiday{Name: "Día del Trabajo", Type: cal.ObservancePublic}),
	aa.AscensionDay.Clone(&cal.Holiday{Name: "Ascensión del Señor", Type: cal.ObservancePublic, Observed: nextMonday}),
	aa.CorpusChristi.Clone(&cal.Holiday{Name: "Corpus Christi", Type: cal.ObservancePublic, Observed: nextMonday}),
	{Name: "Sagrado Corazón de Jesús", Type: cal.ObservancePublic, Offset: 68, Func: cal.CalcEasterOffset, Observed: nextMonday},
	{Name: "San Pedro y San Pablo", Type: cal.ObservancePublic, Month: time.June, Day: 29, Observed: nextMonday, Func: cal.CalcDayOfMonth},
	{Name: "Día de la Independencia", Type: cal.ObservancePublic, Month: time.July, Day: 20, Func: cal.CalcDayOfMonth},
	{Name: "Batalla de Boyacá", Type: cal.ObservancePublic, Month: time.August, Day: 7, Func: cal.CalcDayOfMonth},
	aa.AssumptionOfMary.Clone(&cal.Holiday{Name: "Asunción de la Virgen", Type: cal.ObservancePublic, Observed: nextMonday}),
	{Name: "Día de la Raza", Type: cal.ObservancePublic, Month: time.October, Day: 12, Observed: nextMonday, Func: cal.CalcDayOfMonth},
	aa.AllSaintsDay.Clone(&cal.Holiday{Name: "Todos los Santos", Type: cal.ObservancePublic, Observed: nextMonday}),
	{Name: "Independencia de Cartagena", Type: cal.ObservancePublic, Month: time.November, Day: 11, Observed: nextMonday, Func: cal.CalcDayOfMonth},
	aa.ImmaculateConception.Clone(&cal.Holiday{Name: "Inmaculada Concepción", Type: cal.ObservancePublic}),
	aa.ChristmasDay.Clone(&cal.Holiday{Name: "Navidad", Type: cal.ObservancePublic}),
}

// ColombianHolidays checks dates against Colombia's public holiday calendar,
// including the Ley Emiliani holidays moved to the following Monday.
type ColombianHolidays struct {
	cal *cal.Calendar
}

func NewColombianHolidays() *ColombianHolidays {
	c := &cal.Calendar{Cacheable: true}
	c.AddHoliday(colombianHolidays...)
	return &ColombianHolidays{cal: c}
}

// IsHoliday treats both the actual and the observed date as non-bookable; the
// clinic closes on the observed Monday and takes no bookings on the nominal
// date either.
func (h *ColombianHolidays) IsHoliday(date time.Time) bool {
	actual, observed, _ := h.cal.IsHoliday(date)
	return actual || observed
}

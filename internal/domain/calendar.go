package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// MultiVehicleStrategy defines how service duration scales when an
// appointment covers several vehicles
type MultiVehicleStrategy string

const (
	// StrategySequential один пост обслуживает автомобили по очереди:
	// длительность умножается на количество автомобилей
	StrategySequential MultiVehicleStrategy = "sequential"

	// StrategyParallel автомобили обслуживаются одновременно на разных постах:
	// длительность не меняется. Размер пула постов не проверяется.
	StrategyParallel MultiVehicleStrategy = "parallel"
)

// LunchBreak обеденный перерыв в расписании сервис-центра
type LunchBreak struct {
	Enabled bool
	Start   types.ClockTime
	End     types.ClockTime
}

// BusinessCalendar represents the operating policy of the service center.
// Loaded once at startup from config and immutable afterwards - components
// receive it by value through constructors, there is no shared mutable state.
type BusinessCalendar struct {
	// OperatingDays дни недели, в которые сервис-центр работает
	OperatingDays map[time.Weekday]bool

	OpenTime  types.ClockTime
	CloseTime types.ClockTime

	Lunch LunchBreak

	// SlotDurationMinutes шаг сетки слотов (не зависит от длительности услуги)
	SlotDurationMinutes int

	// MaxConcurrentAppointments вместимость одного слота (количество постов)
	MaxConcurrentAppointments int

	// AdvanceBookingDays горизонт бронирования в днях (0 = без ограничения)
	AdvanceBookingDays int

	// MinimumNoticeHours минимальное время до начала записи в часах
	MinimumNoticeHours int

	// BlockedDates даты, закрытые для записи (ключ - YYYY-MM-DD)
	BlockedDates map[string]bool

	MultiVehicleStrategy MultiVehicleStrategy

	// BufferTimeMinutes зарезервировано под технологические паузы между записями,
	// в расчетах пока не участвует
	BufferTimeMinutes int

	// Location часовой пояс календаря: границы дня и "сегодня" считаются в нём,
	// а не в поясе сервера
	Location *time.Location
}

// IsOperatingDay returns true if the service center works on the given weekday
func (c *BusinessCalendar) IsOperatingDay(day time.Weekday) bool {
	return c.OperatingDays[day]
}

// IsBlockedDate returns true if the date is explicitly closed for booking
func (c *BusinessCalendar) IsBlockedDate(date time.Time) bool {
	return c.BlockedDates[date.Format(DateFormat)]
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance
// appointments can be made
func (c *BusinessCalendar) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// ScaleDuration scales a base service duration for the given vehicle count
// according to the multi-vehicle strategy
func (c *BusinessCalendar) ScaleDuration(baseMinutes, vehicleCount int) int {
	if vehicleCount <= 1 {
		return baseMinutes
	}
	if c.MultiVehicleStrategy == StrategySequential {
		return baseMinutes * vehicleCount
	}
	return baseMinutes
}

// OverlapsLunch returns true if the interval [start, start+duration) strictly
// overlaps the lunch break. Intervals that merely touch the break do not overlap.
func (c *BusinessCalendar) OverlapsLunch(start types.ClockTime, durationMinutes int) bool {
	if !c.Lunch.Enabled {
		return false
	}
	end := start.Minutes() + durationMinutes
	return start.IsBefore(c.Lunch.End) && end > c.Lunch.Start.Minutes()
}

// FitsBeforeClose returns true if the interval [start, start+duration) ends
// no later than closing time
func (c *BusinessCalendar) FitsBeforeClose(start types.ClockTime, durationMinutes int) bool {
	return start.Minutes()+durationMinutes <= c.CloseTime.Minutes()
}

package get_calendar

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CalendarResponse публичное описание расписания сервис-центра
type CalendarResponse struct {
	OperatingDays []string `json:"operatingDays"` // "Monday", "Tuesday", ...

	OpenTime  string `json:"openTime"`  // "09:00"
	CloseTime string `json:"closeTime"` // "18:00"

	Lunch *LunchBreak `json:"lunch,omitempty"`

	SlotDurationMinutes       int `json:"slotDurationMinutes"`
	MaxConcurrentAppointments int `json:"maxConcurrentAppointments"`
	AdvanceBookingDays        int `json:"advanceBookingDays"`
	MinimumNoticeHours        int `json:"minimumNoticeHours"`

	BlockedDates []string `json:"blockedDates"` // "2025-12-31", ...

	MultiVehicleStrategy string `json:"multiVehicleStrategy"` // sequential / parallel
	Timezone             string `json:"timezone"`             // "Europe/Moscow"
}

// LunchBreak обеденный перерыв
type LunchBreak struct {
	Start string `json:"start"` // "12:00"
	End   string `json:"end"`   // "13:00"
}

// FromDomainCalendar конвертирует доменный календарь в HTTP response
func FromDomainCalendar(c domain.BusinessCalendar) *CalendarResponse {
	resp := &CalendarResponse{
		OperatingDays:             operatingDayNames(c.OperatingDays),
		OpenTime:                  c.OpenTime.String(),
		CloseTime:                 c.CloseTime.String(),
		SlotDurationMinutes:       c.SlotDurationMinutes,
		MaxConcurrentAppointments: c.MaxConcurrentAppointments,
		AdvanceBookingDays:        c.AdvanceBookingDays,
		MinimumNoticeHours:        c.MinimumNoticeHours,
		BlockedDates:              sortedDates(c.BlockedDates),
		MultiVehicleStrategy:      string(c.MultiVehicleStrategy),
		Timezone:                  c.Location.String(),
	}

	if c.Lunch.Enabled {
		resp.Lunch = &LunchBreak{
			Start: c.Lunch.Start.String(),
			End:   c.Lunch.End.String(),
		}
	}

	return resp
}

// operatingDayNames возвращает рабочие дни в порядке недели, начиная с понедельника
func operatingDayNames(days map[time.Weekday]bool) []string {
	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}

	names := make([]string, 0, len(days))
	for _, day := range order {
		if days[day] {
			names = append(names, day.String())
		}
	}
	return names
}

func sortedDates(dates map[string]bool) []string {
	result := make([]string, 0, len(dates))
	for date := range dates {
		result = append(result, date)
	}
	sort.Strings(result)
	return result
}

package scheduler

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Generator генератор сетки слотов на день
// Чистая детерминированная логика: одинаковые входные данные всегда дают
// одинаковую последовательность слотов
type Generator struct {
	calendar domain.BusinessCalendar
}

// NewGenerator создает новый генератор слотов
func NewGenerator(calendar domain.BusinessCalendar) *Generator {
	return &Generator{calendar: calendar}
}

// GenerateSlots генерирует кандидатов-слотов для даты и длительности услуги
//
// Возвращает пустой срез (не ошибку), если дата приходится на нерабочий день
// недели или заблокирована. Сетка идет от времени открытия с фиксированным
// шагом slot_duration_minutes - шаг НЕ зависит от длительности услуги.
// Слот исключается, если:
//   - интервал [start, start+duration) пересекает обеденный перерыв;
//   - запись не успевает завершиться до закрытия (частичные слоты не выдаются).
//
// Каждый слот предзаполнен полной вместимостью - реальная занятость
// проставляется валидатором
func (g *Generator) GenerateSlots(date time.Time, serviceDurationMinutes int) []domain.AvailableSlot {
	slots := make([]domain.AvailableSlot, 0)

	if !g.calendar.IsOperatingDay(date.Weekday()) {
		return slots
	}
	if g.calendar.IsBlockedDate(date) {
		return slots
	}

	duration := serviceDurationMinutes
	if duration <= 0 {
		duration = g.calendar.SlotDurationMinutes
	}

	// Идем по сетке в целых минутах, чтобы не упереться в границу суток
	closeMinutes := g.calendar.CloseTime.Minutes()

	for startMinutes := g.calendar.OpenTime.Minutes(); startMinutes < closeMinutes; startMinutes += g.calendar.SlotDurationMinutes {
		start := types.ClockTime(startMinutes)
		endMinutes := startMinutes + duration

		// Запись должна целиком поместиться до закрытия
		if !g.calendar.FitsBeforeClose(start, duration) {
			continue
		}

		// Пропускаем слоты, пересекающие обед
		if g.calendar.OverlapsLunch(start, duration) {
			continue
		}

		slots = append(slots, domain.AvailableSlot{
			StartTime:       start,
			EndTime:         types.ClockTime(endMinutes),
			DurationMinutes: duration,
			CapacityUsed:    0,
			AvailableSpots:  g.calendar.MaxConcurrentAppointments,
			TotalSpots:      g.calendar.MaxConcurrentAppointments,
		})
	}

	return slots
}

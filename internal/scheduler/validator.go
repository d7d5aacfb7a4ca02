package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Validator проверяет временную допустимость и вместимость записей
//
// Две обязанности намеренно разделены:
//   - ValidateTime - чистая проверка по календарю (без внешних данных);
//   - CheckCapacity - подсчет занятости по данным хранилища записей.
//
// Проверки вне транзакции дают только снимок на момент чтения: две
// параллельные проверки одного слота могут обе увидеть свободное место.
// Запись создается в сериализуемой транзакции, где подсчет повторяется
// с блокировкой строк (см. usecase create_appointment)
type Validator struct {
	calendar domain.BusinessCalendar
	store    AppointmentSource

	// defaultDurationMinutes длительность записи без указанной оценки
	defaultDurationMinutes int

	timeProvider TimeProvider
	logger       Logger
}

// NewValidator создает новый валидатор
func NewValidator(
	calendar domain.BusinessCalendar,
	store AppointmentSource,
	timeProvider TimeProvider,
	logger Logger,
) *Validator {
	return &Validator{
		calendar:               calendar,
		store:                  store,
		defaultDurationMinutes: domain.DefaultAppointmentDurationMinutes,
		timeProvider:           timeProvider,
		logger:                 logger,
	}
}

// WithDefaultDuration переопределяет дефолтную длительность записи (для тестов)
func (v *Validator) WithDefaultDuration(minutes int) *Validator {
	v.defaultDurationMinutes = minutes
	return v
}

// ValidateTime проверяет временную допустимость записи на date в start
// длительностью durationMinutes
//
// Собирает ВСЕ применимые нарушения, а не первое попавшееся:
//  1. время не в прошлом;
//  2. дата не дальше горизонта бронирования;
//  3. до начала записи не меньше минимального времени;
//  4. рабочий день недели;
//  5. дата не заблокирована;
//  6. нет пересечения с обеденным перерывом;
//  7. запись помещается в рабочие часы (от открытия до закрытия).
//
// Каждое правило добавляет не больше одного сообщения
func (v *Validator) ValidateTime(date time.Time, start types.ClockTime, durationMinutes int) *domain.ValidationResult {
	result := domain.NewValidationResult()

	// Все сравнения "сегодня/сейчас" - в часовом поясе календаря, а не сервера
	now := v.timeProvider.Now().In(v.calendar.Location)

	requested := atClockTime(date, start, v.calendar.Location)

	// 1. Время не в прошлом
	if requested.Before(now) {
		result.AddError(MsgTimeInPast)
	}

	// 2. Дата не дальше горизонта бронирования
	if v.calendar.HasAdvanceBookingLimit() {
		maxDate := startOfDay(now).AddDate(0, 0, v.calendar.AdvanceBookingDays)
		if startOfDay(requested).After(maxDate) {
			result.AddError(msgBeyondBookingWindow(v.calendar.AdvanceBookingDays))
		}
	}

	// 3. Минимальное время до начала записи
	if v.calendar.MinimumNoticeHours > 0 {
		minStart := now.Add(time.Duration(v.calendar.MinimumNoticeHours) * time.Hour)
		if requested.Before(minStart) && !requested.Before(now) {
			// Если время уже в прошлом, правило 1 уже сработало - не дублируем
			result.AddError(msgInsufficientNotice(v.calendar.MinimumNoticeHours))
		}
	}

	// 4. Рабочий день недели
	if !v.calendar.IsOperatingDay(date.Weekday()) {
		result.AddError(MsgNotOperatingDay)
	}

	// 5. Дата не заблокирована
	if v.calendar.IsBlockedDate(date) {
		result.AddError(MsgBlockedDate)
	}

	// 6. Пересечение с обедом
	if v.calendar.OverlapsLunch(start, durationMinutes) {
		result.AddError(MsgLunchOverlap)
	}

	// 7. Запись помещается в рабочие часы
	if start.IsBefore(v.calendar.OpenTime) || !v.calendar.FitsBeforeClose(start, durationMinutes) {
		result.AddError(MsgOutsideWorkingHours)
	}

	return result
}

// CheckCapacity проверяет вместимость слота [start, start+duration) на date
//
// Загружает из хранилища все нетерминальные записи календарного дня,
// резолвит их эффективное время и длительность и считает строгие
// пересечения интервалов: записи "впритык" не конфликтуют.
// Исчерпание вместимости - не ошибка, а нормальный результат
//
// Проверка read-then-decide без блокировок; сериализация выполняется
// только на пути создания записи
func (v *Validator) CheckCapacity(ctx context.Context, date time.Time, start types.ClockTime, durationMinutes int) (*domain.CapacityResult, error) {
	appointments, err := v.fetchDayAppointments(ctx, date)
	if err != nil {
		return nil, err
	}

	used := v.CountOverlapping(appointments, start, durationMinutes)

	return v.capacityResult(used), nil
}

// AnnotateSlots генерирует сетку слотов на date и проставляет каждому слоту
// реальную занятость одним чтением хранилища
//
// Если date - сегодня, слоты дополнительно фильтруются по минимальному
// времени до записи перед аннотацией
func (v *Validator) AnnotateSlots(ctx context.Context, generator *Generator, date time.Time, serviceDurationMinutes int) ([]domain.AvailableSlot, error) {
	slots := generator.GenerateSlots(date, serviceDurationMinutes)
	if len(slots) == 0 {
		return slots, nil
	}

	now := v.timeProvider.Now().In(v.calendar.Location)
	if isSameDay(date, now) {
		slots = v.filterByNotice(slots, now)
		if len(slots) == 0 {
			return slots, nil
		}
	}

	appointments, err := v.fetchDayAppointments(ctx, date)
	if err != nil {
		return nil, err
	}

	for i := range slots {
		used := v.CountOverlapping(appointments, slots[i].StartTime, slots[i].DurationMinutes)

		available := v.calendar.MaxConcurrentAppointments - used
		if available < 0 {
			available = 0
		}

		slots[i].CapacityUsed = used
		slots[i].AvailableSpots = available
	}

	return slots, nil
}

// CountVehicleConflicts считает записи дня, пересекающие интервал
// [start, start+duration) и затрагивающие хотя бы один из указанных автомобилей
// Используется оркестратором для проверки конфликта по конкретному ресурсу
func (v *Validator) CountVehicleConflicts(ctx context.Context, date time.Time, start types.ClockTime, durationMinutes int, vehicleIDs []int64) (int, error) {
	if len(vehicleIDs) == 0 {
		return 0, nil
	}

	from := startOfDayIn(date, v.calendar.Location)
	to := endOfDayIn(date, v.calendar.Location)

	appointments, err := v.store.Find(ctx, domain.AppointmentFilter{
		DateFrom:        &from,
		DateTo:          &to,
		ExcludeStatuses: domain.TerminalStatuses,
		VehicleIDs:      vehicleIDs,
	})
	if err != nil {
		v.logger.Error("CountVehicleConflicts: store query failed: date=%s, error=%v",
			date.Format(domain.DateFormat), err)
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return v.CountOverlapping(appointments, start, durationMinutes), nil
}

// fetchDayAppointments загружает нетерминальные записи календарного дня date
// Границы дня включительные: [00:00:00.000, 23:59:59.999] в поясе календаря
func (v *Validator) fetchDayAppointments(ctx context.Context, date time.Time) ([]*domain.Appointment, error) {
	from := startOfDayIn(date, v.calendar.Location)
	to := endOfDayIn(date, v.calendar.Location)

	appointments, err := v.store.Find(ctx, domain.AppointmentFilter{
		DateFrom:        &from,
		DateTo:          &to,
		ExcludeStatuses: domain.TerminalStatuses,
	})
	if err != nil {
		v.logger.Error("fetchDayAppointments: store query failed: date=%s, error=%v",
			date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return appointments, nil
}

// CountOverlapping считает записи, СТРОГО пересекающие интервал [start, start+duration)
//
// Интервалы пересекаются, только если начало записи строго раньше конца слота
// И конец записи строго позже начала слота. Граничные случаи (запись
// заканчивается ровно в начале слота или наоборот) пересечением не считаются:
//   - Слот 11:30-12:00, запись 11:20-11:40 - ЕСТЬ пересечение
//   - Слот 11:30-12:00, запись 11:00-11:30 - НЕТ пересечения (граничат)
//   - Слот 11:30-12:00, запись 12:00-12:30 - НЕТ пересечения (граничат)
func (v *Validator) CountOverlapping(appointments []*domain.Appointment, start types.ClockTime, durationMinutes int) int {
	slotStart := start.Minutes()
	slotEnd := slotStart + durationMinutes

	count := 0

	for _, appt := range appointments {
		// Терминальные записи отфильтрованы в запросе, но проверяем на всякий случай
		if !appt.CountsTowardCapacity() {
			continue
		}

		// Эффективное время: scheduled -> preferred -> время открытия
		apptStart := appt.EffectiveStartTime(v.calendar.OpenTime).Minutes()
		apptEnd := apptStart + appt.EffectiveDuration(v.defaultDurationMinutes)

		if apptStart < slotEnd && apptEnd > slotStart {
			count++
		}
	}

	return count
}

// filterByNotice оставляет слоты, начинающиеся не раньше now + minimum notice
// Применяется только для сегодняшней даты
func (v *Validator) filterByNotice(slots []domain.AvailableSlot, now time.Time) []domain.AvailableSlot {
	minStart := now.Add(time.Duration(v.calendar.MinimumNoticeHours) * time.Hour)

	// Если минимальное время ушло за полночь, сегодня слотов нет
	if !isSameDay(minStart, now) {
		return []domain.AvailableSlot{}
	}

	minClock := types.ClockTimeFromTime(minStart)

	filtered := make([]domain.AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		if !slot.StartTime.IsBefore(minClock) {
			filtered = append(filtered, slot)
		}
	}

	return filtered
}

func (v *Validator) capacityResult(used int) *domain.CapacityResult {
	remaining := v.calendar.MaxConcurrentAppointments - used
	if remaining < 0 {
		remaining = 0
	}

	return &domain.CapacityResult{
		IsAvailable:       remaining > 0,
		CapacityUsed:      used,
		CapacityTotal:     v.calendar.MaxConcurrentAppointments,
		CapacityRemaining: remaining,
	}
}

// atClockTime совмещает календарную дату и время суток в поясе loc
func atClockTime(date time.Time, t types.ClockTime, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Minutes()/60, t.Minutes()%60, 0, 0, loc)
}

// startOfDayIn возвращает полночь даты в поясе loc
func startOfDayIn(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}

// endOfDayIn возвращает последний момент даты (23:59:59.999) в поясе loc
func endOfDayIn(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

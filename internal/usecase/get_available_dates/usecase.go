package get_available_dates

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// UseCase use case для обзора доступности по диапазону дат
//
// Записи всего диапазона загружаются ОДНИМ запросом к хранилищу и
// группируются по эффективной дате в памяти: N дней не превращаются
// в N запросов
type UseCase struct {
	calendar     domain.BusinessCalendar
	store        AppointmentSource
	generator    SlotGenerator
	counter      OverlapCounter
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	calendar domain.BusinessCalendar,
	store AppointmentSource,
	generator SlotGenerator,
	counter OverlapCounter,
	logger Logger,
) *UseCase {
	return &UseCase{
		calendar:     calendar,
		store:        store,
		generator:    generator,
		counter:      counter,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider переопределяет провайдер времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case обзора доступности по датам
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных и подстановка дефолтов
	now := uc.timeProvider.Now().In(uc.calendar.Location)
	today := startOfDay(now)

	from := req.From
	if from.IsZero() {
		from = today
	}
	from = startOfDay(from.In(uc.calendar.Location))

	days := req.Days
	if days == 0 && uc.calendar.HasAdvanceBookingLimit() {
		days = uc.calendar.AdvanceBookingDays
	}
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", ErrInvalidInput)
	}
	if days > MaxRangeDays {
		return nil, fmt.Errorf("%w: range exceeds %d days", ErrInvalidInput, MaxRangeDays)
	}

	uc.logger.Info("GetAvailableDates: from=%s, days=%d", from.Format(domain.DateFormat), days)

	// 2. Загружаем нетерминальные записи всего диапазона одним запросом
	rangeFrom := from
	rangeTo := endOfDay(from.AddDate(0, 0, days-1))

	appointments, err := uc.store.Find(ctx, domain.AppointmentFilter{
		DateFrom:        &rangeFrom,
		DateTo:          &rangeTo,
		ExcludeStatuses: domain.TerminalStatuses,
	})
	if err != nil {
		uc.logger.Error("GetAvailableDates: store query failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// 3. Группируем записи по эффективной дате
	byDate := make(map[string][]*domain.Appointment, days)
	for _, appt := range appointments {
		key := appt.EffectiveDate().Format(domain.DateFormat)
		byDate[key] = append(byDate[key], appt)
	}

	// 4. Горизонт бронирования для пометки дат за его пределами
	var maxDate time.Time
	if uc.calendar.HasAdvanceBookingLimit() {
		maxDate = today.AddDate(0, 0, uc.calendar.AdvanceBookingDays)
	}

	// 5. Считаем сводку по каждому дню диапазона
	dates := make([]DateAvailability, 0, days)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i)
		dates = append(dates, uc.summarizeDay(date, byDate[date.Format(domain.DateFormat)], maxDate))
	}

	uc.logger.Info("GetAvailableDates: summarized %d days, %d appointments in range",
		days, len(appointments))

	return &Response{
		From:  from,
		Days:  days,
		Dates: dates,
	}, nil
}

// summarizeDay строит сводку доступности одного дня по уже загруженным записям
func (uc *UseCase) summarizeDay(date time.Time, appointments []*domain.Appointment, maxDate time.Time) DateAvailability {
	summary := DateAvailability{
		Date:         date,
		IsOperating:  uc.calendar.IsOperatingDay(date.Weekday()),
		IsBlocked:    uc.calendar.IsBlockedDate(date),
		WithinWindow: maxDate.IsZero() || !date.After(maxDate),
	}

	if !summary.IsOperating || summary.IsBlocked || !summary.WithinWindow {
		return summary
	}

	// Сетка минимальной длительности: занятость считаем по шагу сетки
	slots := uc.generator.GenerateSlots(date, uc.calendar.SlotDurationMinutes)
	summary.TotalSlots = len(slots)

	for _, slot := range slots {
		used := uc.counter.CountOverlapping(appointments, slot.StartTime, slot.DurationMinutes)
		if used < uc.calendar.MaxConcurrentAppointments {
			summary.OpenSlots++
		}
	}

	summary.HasCapacity = summary.OpenSlots > 0
	return summary
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

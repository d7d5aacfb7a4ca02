package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduler"
)

// UseCase use case для получения сетки слотов с занятостью на день
type UseCase struct {
	calendar     domain.BusinessCalendar
	generator    *scheduler.Generator
	annotator    SlotAnnotator
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	calendar domain.BusinessCalendar,
	generator *scheduler.Generator,
	annotator SlotAnnotator,
	logger Logger,
) *UseCase {
	return &UseCase{
		calendar:     calendar,
		generator:    generator,
		annotator:    annotator,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider переопределяет провайдер времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения сетки слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s, serviceDuration=%d, vehicles=%d",
		req.Date.Format(domain.DateFormat), req.ServiceDurationMinutes, req.VehicleCount)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время в часовом поясе календаря
	now := uc.timeProvider.Now().In(uc.calendar.Location)
	today := startOfDay(now)

	// 3. Прошедшая дата - не ошибка, просто пустая сетка
	if startOfDay(req.Date).Before(today) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past, returning empty grid",
			req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req), nil
	}

	// 4. Дата за горизонтом бронирования - ошибка
	if uc.calendar.HasAdvanceBookingLimit() {
		maxDate := today.AddDate(0, 0, uc.calendar.AdvanceBookingDays)
		if startOfDay(req.Date).After(maxDate) {
			uc.logger.Warn("GetAvailableSlots: date %s is beyond %d-day booking window",
				req.Date.Format(domain.DateFormat), uc.calendar.AdvanceBookingDays)
			return nil, ErrDateTooFarInFuture
		}
	}

	// 5. Эффективная длительность: сумма услуг (или шаг сетки),
	// масштабированная на количество автомобилей
	base := req.ServiceDurationMinutes
	if base <= 0 {
		base = uc.calendar.SlotDurationMinutes
	}
	duration := uc.calendar.ScaleDuration(base, req.VehicleCount)

	// 6. Генерируем сетку и проставляем занятость одним чтением хранилища
	slots, err := uc.annotator.AnnotateSlots(ctx, uc.generator, req.Date, duration)
	if err != nil {
		if errors.Is(err, scheduler.ErrStoreUnavailable) {
			uc.logger.Error("GetAvailableSlots: store unavailable: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		uc.logger.Error("GetAvailableSlots: failed to annotate slots: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for date=%s, duration=%d",
		len(slots), req.Date.Format(domain.DateFormat), duration)

	return &Response{
		Date:            req.Date,
		DurationMinutes: duration,
		Slots:           toResponseSlots(slots),
	}, nil
}

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.ServiceDurationMinutes < 0 {
		return fmt.Errorf("%w: service duration must not be negative", ErrInvalidInput)
	}
	if req.ServiceDurationMinutes > domain.MaxAppointmentDurationMinutes {
		return fmt.Errorf("%w: service duration exceeds %d minutes", ErrInvalidInput, domain.MaxAppointmentDurationMinutes)
	}
	if req.VehicleCount < 0 {
		return fmt.Errorf("%w: vehicle count must not be negative", ErrInvalidInput)
	}
	if req.VehicleCount > domain.MaxVehiclesPerAppointment {
		return fmt.Errorf("%w: vehicle count exceeds %d", ErrInvalidInput, domain.MaxVehiclesPerAppointment)
	}
	return nil
}

func (uc *UseCase) emptyResponse(req *Request) *Response {
	return &Response{
		Date:            req.Date,
		DurationMinutes: 0,
		Slots:           []Slot{},
	}
}

// toResponseSlots конвертирует доменные слоты в модель ответа
func toResponseSlots(slots []domain.AvailableSlot) []Slot {
	result := make([]Slot, 0, len(slots))
	for _, s := range slots {
		result = append(result, Slot{
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			DisplayTime:    s.StartTime.Display(),
			CapacityUsed:   s.CapacityUsed,
			AvailableSpots: s.AvailableSpots,
			TotalSpots:     s.TotalSpots,
			Availability:   s.Classify(),
		})
	}
	return result
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

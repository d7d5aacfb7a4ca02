package check_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduler"
)

// UseCase use case для точечной проверки слота перед бронированием
//
// Результат - снимок на момент чтения: положительный ответ не
// резервирует место, финальная проверка выполняется в транзакции
// создания записи
type UseCase struct {
	validator SlotValidator
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(validator SlotValidator, logger Logger) *UseCase {
	return &UseCase{
		validator: validator,
		logger:    logger,
	}
}

// Execute выполняет use case проверки слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckSlot: date=%s, time=%s, duration=%d",
		req.Date.Format(domain.DateFormat), req.StartTime, req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckSlot: validation failed: %v", err)
		return nil, err
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = domain.DefaultAppointmentDurationMinutes
	}

	// 2. Проверяем временную допустимость по календарю
	validation := uc.validator.ValidateTime(req.Date, req.StartTime, duration)
	if !validation.IsValid {
		uc.logger.Info("CheckSlot: time rejected with %d violations", len(validation.Errors))
		return &Response{
			IsAvailable: false,
			Validation:  validation,
		}, nil
	}

	// 3. Проверяем вместимость по данным хранилища
	capacity, err := uc.validator.CheckCapacity(ctx, req.Date, req.StartTime, duration)
	if err != nil {
		if errors.Is(err, scheduler.ErrStoreUnavailable) {
			uc.logger.Error("CheckSlot: store unavailable: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		uc.logger.Error("CheckSlot: capacity check failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("CheckSlot: capacity %d/%d used", capacity.CapacityUsed, capacity.CapacityTotal)

	return &Response{
		IsAvailable: capacity.IsAvailable,
		Validation:  validation,
		Capacity:    capacity,
	}, nil
}

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !req.StartTime.IsValid() {
		return fmt.Errorf("%w: start time is out of range", ErrInvalidInput)
	}
	if req.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
	}
	if req.DurationMinutes > domain.MaxAppointmentDurationMinutes {
		return fmt.Errorf("%w: duration exceeds %d minutes", ErrInvalidInput, domain.MaxAppointmentDurationMinutes)
	}
	return nil
}

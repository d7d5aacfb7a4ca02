package check_slot

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// SlotValidator интерфейс валидатора времени и вместимости
type SlotValidator interface {
	ValidateTime(date time.Time, start types.ClockTime, durationMinutes int) *domain.ValidationResult
	CheckCapacity(ctx context.Context, date time.Time, start types.ClockTime, durationMinutes int) (*domain.CapacityResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package get_available_dates

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentSource интерфейс чтения записей из хранилища
type AppointmentSource interface {
	Find(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// SlotGenerator интерфейс генератора сетки слотов
type SlotGenerator interface {
	GenerateSlots(date time.Time, serviceDurationMinutes int) []domain.AvailableSlot
}

// OverlapCounter интерфейс подсчета пересекающихся записей
type OverlapCounter interface {
	CountOverlapping(appointments []*domain.Appointment, start types.ClockTime, durationMinutes int) int
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

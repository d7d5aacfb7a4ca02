package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/garageservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentRepository интерфейс хранилища записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
}

// SlotValidator интерфейс валидатора времени и вместимости
type SlotValidator interface {
	ValidateTime(date time.Time, start types.ClockTime, durationMinutes int) *domain.ValidationResult
	CheckCapacity(ctx context.Context, date time.Time, start types.ClockTime, durationMinutes int) (*domain.CapacityResult, error)
	CountVehicleConflicts(ctx context.Context, date time.Time, start types.ClockTime, durationMinutes int, vehicleIDs []int64) (int, error)
}

// GarageServiceClient интерфейс клиента гаража пользователей
type GarageServiceClient interface {
	GetOwnedVehicles(ctx context.Context, ownerID int64, vehicleIDs []int64) ([]garageservice.Vehicle, error)
}

// CatalogServiceClient интерфейс клиента каталога услуг
type CatalogServiceClient interface {
	GetActiveServices(ctx context.Context, serviceIDs []int64) ([]catalogservice.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

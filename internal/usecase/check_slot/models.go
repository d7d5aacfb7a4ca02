package check_slot

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на проверку конкретного слота
type Request struct {
	Date            time.Time       // Запрашиваемая дата
	StartTime       types.ClockTime // Время начала
	DurationMinutes int             // Длительность; 0 = дефолтная длительность записи
}

// Response модель ответа: временная допустимость плюс вместимость
//
// Capacity равен nil, если время недопустимо - занятость в этом
// случае не проверяется
type Response struct {
	IsAvailable bool
	Validation  *domain.ValidationResult
	Capacity    *domain.CapacityResult
}

package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	CustomerID int64           // ID пользователя из заголовка аутентификации
	VehicleIDs []int64         // Автомобили, участвующие в записи (минимум один)
	ServiceIDs []int64         // Выбранные услуги каталога (минимум одна)
	Date       time.Time       // Желаемая дата
	StartTime  types.ClockTime // Желаемое время начала
	Notes      *string         // Комментарий пользователя
}

// Response модель ответа на создание записи
//
// Validation заполнен всегда. Appointment заполнен только при успешном
// создании; при невалидной записи он nil, а ошибки и предупреждения
// лежат в Validation
type Response struct {
	Validation  *domain.ValidationResult
	Appointment *Appointment
}

// Appointment модель созданной записи
type Appointment struct {
	ID                       int64
	CustomerID               int64
	VehicleIDs               []int64
	ServiceIDs               []int64
	ScheduledDate            time.Time
	ScheduledTime            types.ClockTime
	EstimatedDurationMinutes int
	Status                   string
	ServiceNames             []string
	TotalPrice               float64
	Notes                    *string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на получение сетки слотов
type Request struct {
	Date time.Time // Дата, на которую запрашиваются слоты (без времени)

	// ServiceDurationMinutes суммарная длительность выбранных услуг
	// 0 = использовать шаг сетки слотов
	ServiceDurationMinutes int

	// VehicleCount количество автомобилей в записи (для масштабирования длительности)
	VehicleCount int
}

// Response модель ответа с сеткой слотов на день
type Response struct {
	Date            time.Time // Дата, на которую запрашивались слоты
	DurationMinutes int       // Эффективная длительность с учетом количества автомобилей
	Slots           []Slot    // Сетка слотов в порядке возрастания времени начала
}

// Slot модель временного слота с занятостью
type Slot struct {
	StartTime      types.ClockTime         // Время начала слота
	EndTime        types.ClockTime         // Время окончания
	DisplayTime    string                  // 12-часовое представление ("9:00 AM")
	CapacityUsed   int                     // Занятые места
	AvailableSpots int                     // Свободные места
	TotalSpots     int                     // Всего мест
	Availability   domain.SlotAvailability // Классификация: available / limited / full
}

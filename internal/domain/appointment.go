package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus represents the status of a service appointment
type AppointmentStatus string

const (
	StatusPending            AppointmentStatus = "pending"
	StatusConfirmed          AppointmentStatus = "confirmed"
	StatusInProgress         AppointmentStatus = "in_progress"
	StatusCompleted          AppointmentStatus = "completed"
	StatusCancelledByUser    AppointmentStatus = "cancelled_by_user"
	StatusCancelledByCompany AppointmentStatus = "cancelled_by_company"
)

// Appointment represents a service-center appointment
type Appointment struct {
	ID         int64
	CustomerID int64
	VehicleIDs []int64 // ID автомобилей клиента (несколько - для мультиресурсного бронирования)
	ServiceIDs []int64

	// PreferredDate дата, запрошенная клиентом; ScheduledDate проставляется
	// при подтверждении сотрудником. Эффективная дата - scheduled, иначе preferred
	PreferredDate time.Time
	ScheduledDate *time.Time
	// ScheduledTime подтверждённое время начала; если nil, используется PreferredTime,
	// а при его отсутствии - время открытия из календаря
	ScheduledTime *types.ClockTime
	PreferredTime *types.ClockTime
	// EstimatedDurationMinutes оценка длительности; если nil, используется дефолт
	EstimatedDurationMinutes *int

	Status AppointmentStatus

	// Denormalized data for history
	ServiceNames []string
	TotalPrice   float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CountsTowardCapacity returns true if the appointment occupies capacity
// (i.e. its status is not terminal)
func (a *Appointment) CountsTowardCapacity() bool {
	return a.Status != StatusCompleted &&
		a.Status != StatusCancelledByUser &&
		a.Status != StatusCancelledByCompany
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelledByUser || a.Status == StatusCancelledByCompany
}

// EffectiveDate resolves the appointment calendar date:
// scheduled date if confirmed, else the customer's preferred date
func (a *Appointment) EffectiveDate() time.Time {
	if a.ScheduledDate != nil {
		return *a.ScheduledDate
	}
	return a.PreferredDate
}

// EffectiveStartTime resolves the appointment start time:
// scheduled time, else preferred time, else the provided default (opening time)
func (a *Appointment) EffectiveStartTime(defaultTime types.ClockTime) types.ClockTime {
	if a.ScheduledTime != nil {
		return *a.ScheduledTime
	}
	if a.PreferredTime != nil {
		return *a.PreferredTime
	}
	return defaultTime
}

// EffectiveDuration resolves the appointment duration in minutes:
// stored estimate, else the provided default
func (a *Appointment) EffectiveDuration(defaultMinutes int) int {
	if a.EstimatedDurationMinutes != nil && *a.EstimatedDurationMinutes > 0 {
		return *a.EstimatedDurationMinutes
	}
	return defaultMinutes
}

// AppointmentFilter фильтр для выборки записей из хранилища
// Границы периода трактуются включительно по календарным дням
type AppointmentFilter struct {
	DateFrom        *time.Time          // Начало периода (опционально)
	DateTo          *time.Time          // Конец периода (опционально)
	CustomerID      *int64              // Фильтр по клиенту (опционально)
	ExcludeStatuses []AppointmentStatus // Статусы, исключаемые из выборки
	VehicleIDs      []int64             // Фильтр по автомобилям (опционально, membership)
}

package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetUserAppointmentsRequest запрос на получение записей пользователя
type GetUserAppointmentsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID         int64   `json:"id"`
	CustomerID int64   `json:"customerId"`
	VehicleIDs []int64 `json:"vehicleIds"`
	ServiceIDs []int64 `json:"serviceIds"`

	PreferredDate            string  `json:"preferredDate"`           // "2025-10-15"
	ScheduledDate            *string `json:"scheduledDate,omitempty"` // "2025-10-15"
	PreferredTime            *string `json:"preferredTime,omitempty"` // "10:00"
	ScheduledTime            *string `json:"scheduledTime,omitempty"` // "10:00"
	EstimatedDurationMinutes *int    `json:"estimatedDurationMinutes,omitempty"`

	Status string `json:"status"`

	// Денормализованные данные
	ServiceNames []string `json:"serviceNames"`
	TotalPrice   float64  `json:"totalPrice"`
	Notes        *string  `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// ToDomainAppointmentStatus конвертирует строку в domain статус
func ToDomainAppointmentStatus(s string) (domain.AppointmentStatus, error) {
	status := domain.AppointmentStatus(s)
	switch status {
	case domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusInProgress,
		domain.StatusCompleted,
		domain.StatusCancelledByUser,
		domain.StatusCancelledByCompany:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                       a.ID,
		CustomerID:               a.CustomerID,
		VehicleIDs:               a.VehicleIDs,
		ServiceIDs:               a.ServiceIDs,
		PreferredDate:            a.PreferredDate.Format(domain.DateFormat),
		EstimatedDurationMinutes: a.EstimatedDurationMinutes,
		Status:                   string(a.Status),
		ServiceNames:             a.ServiceNames,
		TotalPrice:               a.TotalPrice,
		Notes:                    a.Notes,
		CancellationReason:       a.CancellationReason,
		CreatedAt:                a.CreatedAt,
		UpdatedAt:                a.UpdatedAt,
	}

	if a.ScheduledDate != nil {
		dateStr := a.ScheduledDate.Format(domain.DateFormat)
		resp.ScheduledDate = &dateStr
	}
	if a.PreferredTime != nil {
		timeStr := a.PreferredTime.String()
		resp.PreferredTime = &timeStr
	}
	if a.ScheduledTime != nil {
		timeStr := a.ScheduledTime.String()
		resp.ScheduledTime = &timeStr
	}
	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	if appointments == nil {
		return &AppointmentListResponse{
			Appointments: []AppointmentResponse{},
		}
	}

	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}

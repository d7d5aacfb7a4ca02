package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	VehicleIDs []int64 `json:"vehicleIds"`
	ServiceIDs []int64 `json:"serviceIds"`
	Date       string  `json:"date"`      // "2025-10-15"
	StartTime  string  `json:"startTime"` // "10:00"
	Notes      *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model созданной записи
type AppointmentResponse struct {
	ID                       int64    `json:"id"`
	CustomerID               int64    `json:"customerId"`
	VehicleIDs               []int64  `json:"vehicleIds"`
	ServiceIDs               []int64  `json:"serviceIds"`
	ScheduledDate            string   `json:"scheduledDate"`
	ScheduledTime            string   `json:"scheduledTime"`
	EstimatedDurationMinutes int      `json:"estimatedDurationMinutes"`
	Status                   string   `json:"status"`
	ServiceNames             []string `json:"serviceNames"`
	TotalPrice               float64  `json:"totalPrice"`
	Notes                    *string  `json:"notes,omitempty"`
	Warnings                 []string `json:"warnings"`
	CreatedAt                string   `json:"createdAt"`
	UpdatedAt                string   `json:"updatedAt"`
}

// ValidationFailedResponse HTTP response при невалидной записи
type ValidationFailedResponse struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.ParseClockTime(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		CustomerID: userID,
		VehicleIDs: r.VehicleIDs,
		ServiceIDs: r.ServiceIDs,
		Date:       date,
		StartTime:  startTime,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	a := resp.Appointment
	return &AppointmentResponse{
		ID:                       a.ID,
		CustomerID:               a.CustomerID,
		VehicleIDs:               a.VehicleIDs,
		ServiceIDs:               a.ServiceIDs,
		ScheduledDate:            a.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime:            a.ScheduledTime.String(),
		EstimatedDurationMinutes: a.EstimatedDurationMinutes,
		Status:                   a.Status,
		ServiceNames:             a.ServiceNames,
		TotalPrice:               a.TotalPrice,
		Notes:                    a.Notes,
		Warnings:                 resp.Validation.Warnings,
		CreatedAt:                a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                a.UpdatedAt.Format(time.RFC3339),
	}
}

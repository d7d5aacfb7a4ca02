package get_available_slots

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime      string `json:"startTime"`   // "10:00"
	EndTime        string `json:"endTime"`     // "10:30"
	DisplayTime    string `json:"displayTime"` // "10:00 AM"
	CapacityUsed   int    `json:"capacityUsed"`
	AvailableSpots int    `json:"availableSpots"`
	TotalSpots     int    `json:"totalSpots"`
	Availability   string `json:"availability"` // available / limited / full
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(dateStr, durationStr, vehicleCountStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	duration := 0
	if durationStr != "" {
		duration, err = strconv.Atoi(durationStr)
		if err != nil {
			return nil, fmt.Errorf("invalid duration: %w", err)
		}
	}

	vehicleCount := 1
	if vehicleCountStr != "" {
		vehicleCount, err = strconv.Atoi(vehicleCountStr)
		if err != nil {
			return nil, fmt.Errorf("invalid vehicle count: %w", err)
		}
	}

	return &getAvailableSlots.Request{
		Date:                   date,
		ServiceDurationMinutes: duration,
		VehicleCount:           vehicleCount,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:      slot.StartTime.String(),
			EndTime:        slot.EndTime.String(),
			DisplayTime:    slot.DisplayTime,
			CapacityUsed:   slot.CapacityUsed,
			AvailableSpots: slot.AvailableSpots,
			TotalSpots:     slot.TotalSpots,
			Availability:   string(slot.Availability),
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

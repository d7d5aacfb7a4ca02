package check_slot

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	checkSlot "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_slot"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CheckSlotResponse HTTP response model
type CheckSlotResponse struct {
	IsAvailable bool     `json:"isAvailable"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`

	Capacity *Capacity `json:"capacity,omitempty"`
}

// Capacity занятость слота
type Capacity struct {
	Used      int `json:"used"`
	Total     int `json:"total"`
	Remaining int `json:"remaining"`
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(dateStr, timeStr, durationStr string) (*checkSlot.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	startTime, err := types.ParseClockTime(timeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid time: %w", err)
	}

	duration := 0
	if durationStr != "" {
		duration, err = strconv.Atoi(durationStr)
		if err != nil {
			return nil, fmt.Errorf("invalid duration: %w", err)
		}
	}

	return &checkSlot.Request{
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: duration,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkSlot.Response) *CheckSlotResponse {
	out := &CheckSlotResponse{
		IsAvailable: resp.IsAvailable,
		Errors:      resp.Validation.Errors,
		Warnings:    resp.Validation.Warnings,
	}

	if resp.Capacity != nil {
		out.Capacity = &Capacity{
			Used:      resp.Capacity.CapacityUsed,
			Total:     resp.Capacity.CapacityTotal,
			Remaining: resp.Capacity.CapacityRemaining,
		}
	}

	return out
}

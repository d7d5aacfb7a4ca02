package get_available_dates

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableDates "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_dates"
)

// AvailableDatesResponse HTTP response model
type AvailableDatesResponse struct {
	From  string             `json:"from"`
	Days  int                `json:"days"`
	Dates []DateAvailability `json:"dates"`
}

// DateAvailability сводка доступности одного дня
type DateAvailability struct {
	Date         string `json:"date"`
	IsOperating  bool   `json:"isOperating"`
	IsBlocked    bool   `json:"isBlocked"`
	WithinWindow bool   `json:"withinWindow"`
	HasCapacity  bool   `json:"hasCapacity"`
	TotalSlots   int    `json:"totalSlots"`
	OpenSlots    int    `json:"openSlots"`
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(fromStr, daysStr string) (*getAvailableDates.Request, error) {
	req := &getAvailableDates.Request{}

	if fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid from date: %w", err)
		}
		req.From = from
	}

	if daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return nil, fmt.Errorf("invalid days: %w", err)
		}
		req.Days = days
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableDates.Response) *AvailableDatesResponse {
	dates := make([]DateAvailability, len(resp.Dates))
	for i, d := range resp.Dates {
		dates[i] = DateAvailability{
			Date:         d.Date.Format(domain.DateFormat),
			IsOperating:  d.IsOperating,
			IsBlocked:    d.IsBlocked,
			WithinWindow: d.WithinWindow,
			HasCapacity:  d.HasCapacity,
			TotalSlots:   d.TotalSlots,
			OpenSlots:    d.OpenSlots,
		}
	}

	return &AvailableDatesResponse{
		From:  resp.From.Format(domain.DateFormat),
		Days:  resp.Days,
		Dates: dates,
	}
}

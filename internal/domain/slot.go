package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// SlotAvailability классификация слота по оставшейся вместимости
type SlotAvailability string

const (
	// SlotFullyAvailable свободно больше одного места
	SlotFullyAvailable SlotAvailability = "available"

	// SlotLimited осталось ровно одно место
	SlotLimited SlotAvailability = "limited"

	// SlotFull свободных мест нет
	SlotFull SlotAvailability = "full"
)

// AvailableSlot represents a candidate time slot for a single date.
// Slots are recomputed per request and never persisted.
type AvailableSlot struct {
	StartTime       types.ClockTime
	EndTime         types.ClockTime
	DurationMinutes int
	CapacityUsed    int // Занятые места
	AvailableSpots  int // Свободные места
	TotalSpots      int // Всего мест (постов)
}

// IsFull returns true if the slot has no available spots
func (s *AvailableSlot) IsFull() bool {
	return s.AvailableSpots <= 0
}

// Classify returns the availability bucket of the slot
func (s *AvailableSlot) Classify() SlotAvailability {
	switch {
	case s.AvailableSpots <= 0:
		return SlotFull
	case s.AvailableSpots == 1:
		return SlotLimited
	default:
		return SlotFullyAvailable
	}
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *AvailableSlot) OccupancyRate() float64 {
	if s.TotalSpots == 0 {
		return 0
	}
	return float64(s.CapacityUsed) / float64(s.TotalSpots) * 100
}

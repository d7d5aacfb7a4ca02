package create_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrSlotNotAvailable возвращается, когда место в слоте было занято
	// конкурентной записью между проверкой и фиксацией
	ErrSlotNotAvailable = errors.New("create_appointment: slot is no longer available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)

package check_slot

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_slot: invalid input data")

	// ErrStoreUnavailable возвращается, когда хранилище записей недоступно
	ErrStoreUnavailable = errors.New("check_slot: appointment store unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_slot: internal error")
)

package scheduler

import "errors"

var (
	// ErrStoreUnavailable возвращается, когда хранилище записей недоступно
	// Вызывающая сторона должна повторить запрос или вернуть 5xx
	ErrStoreUnavailable = errors.New("scheduler: appointment store unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("scheduler: invalid input data")

	// ErrInternal возвращается при внутренних ошибках планировщика
	ErrInternal = errors.New("scheduler: internal error")
)

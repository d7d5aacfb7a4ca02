package garageservice

import "errors"

var (
	// ErrOwnerNotFound возвращается, когда клиент не найден
	ErrOwnerNotFound = errors.New("garageservice client: owner not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("garageservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("garageservice client: invalid response")
)

package plannedavailability

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("plannedavailability client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("plannedavailability client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Сервис планирования недоступен, отчет строится без запланированных слотов
	ErrServiceDegraded = errors.New("plannedavailability unavailable: graceful degradation applied")
)

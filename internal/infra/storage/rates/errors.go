package rates

import "errors"

var (
	// ErrOverrideNotFound возвращается, когда у назначения нет явной стоимости
	ErrOverrideNotFound = errors.New("rates.repository: cost override not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("rates.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("rates.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("rates.repository: failed to scan row")
)

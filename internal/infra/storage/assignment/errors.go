package assignment

import "errors"

var (
	// ErrAssignmentNotFound возвращается, когда назначение не найдено
	ErrAssignmentNotFound = errors.New("assignment.repository: assignment not found")

	// ErrUnknownKind возвращается для неподдерживаемого типа назначения
	ErrUnknownKind = errors.New("assignment.repository: unknown assignment kind")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("assignment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("assignment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("assignment.repository: failed to scan row")
)

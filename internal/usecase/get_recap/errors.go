package get_recap

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidDateRange возвращается, когда начало периода позже конца
	ErrInvalidDateRange = errors.New("start date is after end date")

	// ErrRangeTooLong возвращается, когда период длиннее допустимого
	ErrRangeTooLong = errors.New("date range is too long")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)

package notes

import "errors"

var (
	// ErrNoteNotFound возвращается, когда заметка не найдена
	ErrNoteNotFound = errors.New("note not found")

	// ErrAccessDenied возвращается, когда заметку удаляет не автор
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

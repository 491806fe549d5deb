package note

import "errors"

var (
	// ErrNoteNotFound возвращается, когда заметка не найдена
	ErrNoteNotFound = errors.New("note.repository: note not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("note.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("note.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("note.repository: failed to scan row")
)

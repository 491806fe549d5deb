package notes

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
)

// NoteRepository интерфейс репозитория заметок
type NoteRepository interface {
	Create(ctx context.Context, n *domain.Note) (*domain.Note, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)
	ListByTour(ctx context.Context, filter domain.NotesFilter) ([]*domain.Note, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

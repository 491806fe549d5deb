package create_note

import (
	"context"

	"github.com/m04kA/SMC-TourRecapService/internal/service/notes/models"
)

type NoteService interface {
	Create(ctx context.Context, req *models.CreateNoteRequest) (*models.NoteResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package list_notes

import (
	"context"

	"github.com/m04kA/SMC-TourRecapService/internal/service/notes/models"
)

type NoteService interface {
	List(ctx context.Context, req *models.ListNotesRequest) (*models.NotesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

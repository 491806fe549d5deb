package delete_note

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TourRecapService/internal/api/handlers"
	"github.com/m04kA/SMC-TourRecapService/internal/api/middleware"
	"github.com/m04kA/SMC-TourRecapService/internal/service/notes"
)

const (
	msgInvalidNoteID = "некорректный ID заметки"
	msgMissingUserID = "отсутствует ID пользователя"
	msgNotFound      = "заметка не найдена"
	msgForbidden     = "удалить заметку может только автор"
)

type Handler struct {
	service NoteService
	logger  Logger
}

func NewHandler(service NoteService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/notes/{noteId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["noteId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /notes/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Delete(r.Context(), noteID, userID); err != nil {
		switch {
		case errors.Is(err, notes.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidNoteID)

		case errors.Is(err, notes.ErrNoteNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, notes.ErrAccessDenied):
			h.logger.Warn("DELETE /notes/{id} - Access denied: note_id=%s, user_id=%d", noteID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /notes/{id} - Failed to delete note: note_id=%s, error=%v", noteID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /notes/{id} - Note deleted: note_id=%s, user_id=%d", noteID, userID)
	w.WriteHeader(http.StatusNoContent)
}

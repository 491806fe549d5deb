package create_note

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TourRecapService/internal/api/handlers"
	"github.com/m04kA/SMC-TourRecapService/internal/api/middleware"
	"github.com/m04kA/SMC-TourRecapService/internal/service/notes"
	"github.com/m04kA/SMC-TourRecapService/internal/service/notes/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные заметки"
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

// Handle POST /api/v1/notes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /notes - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateNoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /notes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.AuthorID = userID

	note, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, notes.ErrInvalidInput) {
			h.logger.Warn("POST /notes - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("POST /notes - Failed to create note: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /notes - Note created: id=%s, user_id=%d", note.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, note)
}

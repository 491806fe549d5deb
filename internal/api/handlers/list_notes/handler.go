package list_notes

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TourRecapService/internal/api/handlers"
	"github.com/m04kA/SMC-TourRecapService/internal/service/notes"
	"github.com/m04kA/SMC-TourRecapService/internal/service/notes/models"
)

const (
	msgMissingDates = "startDate и endDate обязательны"
	msgInvalidInput = "некорректные параметры запроса"
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

// Handle GET /api/v1/tours/{tourId}/notes
// Query params: startDate, endDate (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tourID := mux.Vars(r)["tourId"]
	q := r.URL.Query()

	req := &models.ListNotesRequest{
		TourID:    tourID,
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}
	if req.StartDate == "" || req.EndDate == "" {
		handlers.RespondBadRequest(w, msgMissingDates)
		return
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, notes.ErrInvalidInput) {
			h.logger.Warn("GET /tours/{id}/notes - Invalid input: tour_id=%s, error=%v", tourID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("GET /tours/{id}/notes - Failed to list notes: tour_id=%s, error=%v", tourID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /tours/{id}/notes - Notes retrieved: tour_id=%s, count=%d", tourID, len(result.Notes))
	handlers.RespondJSON(w, http.StatusOK, result)
}

package export_recap

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TourRecapService/internal/api/handlers"
	exportRecap "github.com/m04kA/SMC-TourRecapService/internal/usecase/export_recap"
	getRecap "github.com/m04kA/SMC-TourRecapService/internal/usecase/get_recap"
)

const (
	msgMissingTourID = "ID тура обязателен"
	msgMissingDates  = "startDate и endDate обязательны"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange  = "некорректный период"
)

type Handler struct {
	useCase ExportRecapUseCase
	logger  Logger
}

func NewHandler(useCase ExportRecapUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tours/{tourId}/recap/export
// Query params: startDate, endDate (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tourID := mux.Vars(r)["tourId"]
	if tourID == "" {
		handlers.RespondBadRequest(w, msgMissingTourID)
		return
	}

	start, end, err := handlers.ParseDateRange(r)
	if err != nil {
		h.logger.Warn("GET /tours/{id}/recap/export - Invalid dates: tour_id=%s, error=%v", tourID, err)
		if errors.Is(err, handlers.ErrMissingDate) {
			handlers.RespondBadRequest(w, msgMissingDates)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), &exportRecap.Request{
		TourID:    tourID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		switch {
		case errors.Is(err, getRecap.ErrInvalidInput),
			errors.Is(err, getRecap.ErrInvalidDateRange),
			errors.Is(err, getRecap.ErrRangeTooLong):
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /tours/{id}/recap/export - Failed to export: tour_id=%s, error=%v", tourID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	size := result.Body.Len()
	if err := handlers.RespondFile(w, exportRecap.ContentType, result.Filename, result.Body); err != nil {
		h.logger.Warn("GET /tours/{id}/recap/export - Failed to write file: tour_id=%s, error=%v", tourID, err)
		return
	}

	h.logger.Info("GET /tours/{id}/recap/export - Exported: tour_id=%s, file=%s, bytes=%d", tourID, result.Filename, size)
}

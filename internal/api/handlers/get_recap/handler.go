package get_recap

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TourRecapService/internal/api/handlers"
	getRecap "github.com/m04kA/SMC-TourRecapService/internal/usecase/get_recap"
)

const (
	msgMissingTourID = "ID тура обязателен"
	msgMissingDates  = "startDate и endDate обязательны"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange  = "дата начала позже даты окончания"
	msgRangeTooLong  = "слишком длинный период"
	msgInvalidInput  = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetRecapUseCase
	logger  Logger
}

func NewHandler(useCase GetRecapUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tours/{tourId}/recap
// Query params: startDate, endDate (required, YYYY-MM-DD), refresh (optional, true - не читать кэш)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tourID := mux.Vars(r)["tourId"]
	if tourID == "" {
		handlers.RespondBadRequest(w, msgMissingTourID)
		return
	}

	start, end, err := handlers.ParseDateRange(r)
	if err != nil {
		h.logger.Warn("GET /tours/{id}/recap - Invalid dates: tour_id=%s, error=%v", tourID, err)
		if errors.Is(err, handlers.ErrMissingDate) {
			handlers.RespondBadRequest(w, msgMissingDates)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	refresh := r.URL.Query().Get("refresh") == "true"

	result, err := h.useCase.Execute(r.Context(), ToUseCaseRequest(tourID, start, end, refresh))
	if err != nil {
		switch {
		case errors.Is(err, getRecap.ErrInvalidDateRange):
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, getRecap.ErrRangeTooLong):
			handlers.RespondBadRequest(w, msgRangeTooLong)

		case errors.Is(err, getRecap.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /tours/{id}/recap - Failed to compute recap: tour_id=%s, error=%v", tourID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tours/{id}/recap - Recap retrieved: tour_id=%s, days=%d, from_cache=%t",
		tourID, len(result.Result.Days), result.FromCache)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

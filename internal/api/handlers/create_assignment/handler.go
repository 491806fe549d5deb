package create_assignment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TourRecapService/internal/api/handlers"
	"github.com/m04kA/SMC-TourRecapService/internal/api/middleware"
	"github.com/m04kA/SMC-TourRecapService/internal/service/assignments"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные назначения"
	msgSlotNotFound       = "слот не найден"
)

type Handler struct {
	service AssignmentService
	logger  Logger
}

func NewHandler(service AssignmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/assignments/{kind}
// kind: guide | escort | headphone | printing
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /assignments/{kind} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAssignmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /assignments/{kind} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.Create(r.Context(), req.ToServiceRequest(kind, userID))
	if err != nil {
		switch {
		case errors.Is(err, assignments.ErrInvalidInput):
			h.logger.Warn("POST /assignments/{kind} - Invalid input: kind=%s, error=%v", kind, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, assignments.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgSlotNotFound)

		default:
			h.logger.Error("POST /assignments/{kind} - Failed to create: kind=%s, slot_id=%d, error=%v",
				kind, req.AvailabilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /assignments/{kind} - Created: kind=%s, id=%d, user_id=%d", kind, created.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, created)
}

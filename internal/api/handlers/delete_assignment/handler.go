package delete_assignment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TourRecapService/internal/api/handlers"
	"github.com/m04kA/SMC-TourRecapService/internal/api/middleware"
	"github.com/m04kA/SMC-TourRecapService/internal/service/assignments"
)

const (
	msgInvalidAssignmentID = "некорректный ID назначения"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgInvalidKind         = "неизвестный тип назначения"
	msgNotFound            = "назначение не найдено"
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

// Handle DELETE /api/v1/assignments/{kind}/{assignmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind := vars["kind"]

	assignmentID, err := strconv.ParseInt(vars["assignmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /assignments/{kind}/{id} - Invalid assignment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAssignmentID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /assignments/{kind}/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Delete(r.Context(), kind, assignmentID, userID); err != nil {
		switch {
		case errors.Is(err, assignments.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidKind)

		case errors.Is(err, assignments.ErrAssignmentNotFound):
			h.logger.Warn("DELETE /assignments/{kind}/{id} - Not found: kind=%s, id=%d", kind, assignmentID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /assignments/{kind}/{id} - Failed to delete: kind=%s, id=%d, error=%v",
				kind, assignmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /assignments/{kind}/{id} - Deleted: kind=%s, id=%d, user_id=%d", kind, assignmentID, userID)
	w.WriteHeader(http.StatusNoContent)
}

package delete_note

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-TourRecapService/internal/api/middleware"
	"github.com/m04kA/SMC-TourRecapService/internal/service/notes"
	"github.com/m04kA/SMC-TourRecapService/pkg/logger"
)

type fakeService struct {
	err error
}

func (f *fakeService) Delete(context.Context, string, int64) error {
	return f.err
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"invalid id", notes.ErrInvalidInput, http.StatusBadRequest},
		{"not found", notes.ErrNoteNotFound, http.StatusNotFound},
		{"not author", notes.ErrAccessDenied, http.StatusForbidden},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mux.NewRouter()
			h := NewHandler(&fakeService{err: tt.err}, logger.NewNop())
			r.Handle("/notes/{noteId}", middleware.Auth(http.HandlerFunc(h.Handle)))

			req := httptest.NewRequest(http.MethodDelete, "/notes/0b7c6f5e-3a43-4c4c-9b84-7a8f0b0a8a11", nil)
			req.Header.Set(middleware.UserIDHeader, "1")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

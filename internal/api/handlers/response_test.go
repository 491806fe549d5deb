package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondNotFound(rec, "не найдено")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Code: http.StatusNotFound, Message: "не найдено"}, body)
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"a"}`, false},
		{"unknown field", `{"name":"a","extra":1}`, true},
		{"two objects", `{"name":"a"}{"name":"b"}`, true},
		{"broken", `{"name":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload
			err := DecodeJSON(req, &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a", p.Name)
		})
	}
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr error
	}{
		{"valid", "?startDate=2026-05-01&endDate=2026-05-31", nil},
		{"missing end", "?startDate=2026-05-01", ErrMissingDate},
		{"bad format", "?startDate=01.05.2026&endDate=2026-05-31", ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			start, end, err := ParseDateRange(req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "2026-05-01", start.Format("2006-01-02"))
			assert.Equal(t, "2026-05-31", end.Format("2006-01-02"))
		})
	}
}

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
)

var (
	// ErrMissingDate отсутствует startDate или endDate
	ErrMissingDate = errors.New("startDate and endDate are required")

	// ErrInvalidDate дата не в формате YYYY-MM-DD
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
)

// ParseDateRange читает startDate и endDate из query параметров
func ParseDateRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	startStr, endStr := q.Get("startDate"), q.Get("endDate")
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, ErrMissingDate
	}

	start, err := time.Parse(domain.DateFormat, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	end, err := time.Parse(domain.DateFormat, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}

	return start, end, nil
}

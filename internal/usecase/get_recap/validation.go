package get_recap

import (
	"fmt"
	"strings"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxRangeDays int) error {
	if strings.TrimSpace(req.TourID) == "" {
		return fmt.Errorf("%w: tourId is required", ErrInvalidInput)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	start := dateOnly(req.StartDate)
	end := dateOnly(req.EndDate)

	if start.After(end) {
		return ErrInvalidDateRange
	}

	if maxRangeDays > 0 {
		days := int(end.Sub(start).Hours()/24) + 1
		if days > maxRangeDays {
			return fmt.Errorf("%w: %d days requested, at most %d allowed", ErrRangeTooLong, days, maxRangeDays)
		}
	}

	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
)

const (
	keyPrefix    = "recap:"
	watchPrefix  = "recap:watch:"
	watchedTours = "recap:watched"
)

// Range период отчета, за которым следит воркер обновления
type Range struct {
	StartDate time.Time
	EndDate   time.Time
}

func recapKey(tourID string, startDate, endDate time.Time) string {
	return fmt.Sprintf("%s%s:%s:%s", keyPrefix, tourID, startDate.Format(domain.DateFormat), endDate.Format(domain.DateFormat))
}

func watchKey(tourID string) string {
	return watchPrefix + tourID
}

func encodeRange(startDate, endDate time.Time) string {
	return startDate.Format(domain.DateFormat) + "|" + endDate.Format(domain.DateFormat)
}

func decodeRange(member string) (Range, error) {
	parts := strings.Split(member, "|")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("invalid range %q", member)
	}

	start, err := time.Parse(domain.DateFormat, parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("invalid range start %q: %v", member, err)
	}
	end, err := time.Parse(domain.DateFormat, parts[1])
	if err != nil {
		return Range{}, fmt.Errorf("invalid range end %q: %v", member, err)
	}

	return Range{StartDate: start, EndDate: end}, nil
}

package domain

import (
	"time"

	"github.com/m04kA/SMC-TourRecapService/pkg/types"
)

// SlotStatus статус слота доступности
type SlotStatus string

const (
	SlotAvailable SlotStatus = "AVAILABLE"
	SlotLimited   SlotStatus = "LIMITED"
	SlotSoldOut   SlotStatus = "SOLD_OUT"
	SlotClosed    SlotStatus = "CLOSED"
	SlotPlanned   SlotStatus = "PLANNED"
)

// ParseSlotStatus нормализует статус из бэкенда; неизвестные значения считаются PLANNED
func ParseSlotStatus(s string) SlotStatus {
	switch SlotStatus(s) {
	case SlotAvailable, SlotLimited, SlotSoldOut, SlotClosed, SlotPlanned:
		return SlotStatus(s)
	default:
		return SlotPlanned
	}
}

// AvailabilitySlot опубликованный экземпляр тура на дату и время
// Создаётся туроператором во внешней системе, здесь только читается
type AvailabilitySlot struct {
	ID               int64
	TourID           string
	Date             time.Time
	Time             types.TimeString
	VacancyAvailable int
	Status           SlotStatus
}

// PlannedSlot ещё не опубликованный слот из сервиса планирования
type PlannedSlot struct {
	ID      int64
	TourID  string
	Date    time.Time
	Time    types.TimeString
	Vacancy int
	Status  SlotStatus
}

// SlotKey составной ключ сопоставления бронирования со слотом
type SlotKey struct {
	TourID string
	Date   string // YYYY-MM-DD
	Time   types.TimeString
}

// NewSlotKey строит ключ с нормализацией даты и времени
func NewSlotKey(tourID string, date time.Time, t types.TimeString) SlotKey {
	normalized, err := types.NewTimeStringFromString(t.String())
	if err != nil {
		normalized = t
	}
	return SlotKey{TourID: tourID, Date: date.Format(DateFormat), Time: normalized}
}

package recap

import (
	"time"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
)

// Snapshot все данные, нужные для расчета отчета по туру за период
// Заполняется usecase'ом из независимых выборок; пустое поле означает, что данных нет
// (в том числе если выборка завершилась ошибкой)
type Snapshot struct {
	TourID    string
	StartDate time.Time
	EndDate   time.Time

	Slots          []domain.AvailabilitySlot
	PlannedSlots   []domain.PlannedSlot
	Bookings       []domain.Booking
	Assignments    []domain.Assignment
	Rates          []domain.ResourceRate
	Overrides      []domain.CostOverride
	GuideCosts     GuideCostTables
	ServiceGroups  []domain.ServiceGroup
	Vouchers       []domain.Voucher
	ProductSources []domain.ProductSource
}

// GuideCostTables многоуровневые таблицы стоимости гидов
type GuideCostTables struct {
	TourCosts        []domain.GuideActivityCost
	Seasons          []domain.CostSeason
	SeasonalCosts    []domain.SeasonalCost
	SpecialDates     []domain.SpecialCostDate
	SpecialDateCosts []domain.SpecialDateCost
}

// inRange проверяет дату по включительному диапазону снапшота
// Нулевые границы означают отсутствие ограничения
func (s *Snapshot) inRange(date time.Time) bool {
	d := date.Format(domain.DateFormat)
	if !s.StartDate.IsZero() && d < s.StartDate.Format(domain.DateFormat) {
		return false
	}
	if !s.EndDate.IsZero() && d > s.EndDate.Format(domain.DateFormat) {
		return false
	}
	return true
}

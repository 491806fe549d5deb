package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GuideActivityCost стоимость гида для тура
// GuideID == nil - общая стоимость тура для всех гидов
type GuideActivityCost struct {
	ID      int64
	TourID  string
	GuideID *int64
	Amount  decimal.Decimal
}

// IsGlobal true для общей (не привязанной к гиду) стоимости
func (c *GuideActivityCost) IsGlobal() bool {
	return c.GuideID == nil
}

// CostSeason сезон с включительными границами дат
type CostSeason struct {
	ID        int64
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// Contains проверяет, попадает ли дата в сезон (границы включительно)
func (s *CostSeason) Contains(date time.Time) bool {
	d := date.Format(DateFormat)
	return d >= s.StartDate.Format(DateFormat) && d <= s.EndDate.Format(DateFormat)
}

// SeasonalCost стоимость гида для тура в сезоне
type SeasonalCost struct {
	TourID   string
	SeasonID int64
	Amount   decimal.Decimal
}

// SpecialCostDate особая дата (праздник и т.п.) со своей стоимостью
type SpecialCostDate struct {
	ID   int64
	Name string
	Date time.Time
}

// SpecialDateCost стоимость гида для тура в особую дату
type SpecialDateCost struct {
	TourID        string
	SpecialDateID int64
	Amount        decimal.Decimal
}

// ServiceGroup набор назначений гидов, оплачиваемых как одна услуга
// Стоимость начисляется только на PrimaryAssignmentID
type ServiceGroup struct {
	ID                  int64
	PrimaryAssignmentID int64
	MemberAssignmentIDs []int64
}

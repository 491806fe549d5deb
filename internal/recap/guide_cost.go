package recap

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
)

// GuideCostQuery параметры расчета стоимости одного назначения гида
type GuideCostQuery struct {
	AssignmentID int64
	TourID       string
	GuideID      int64
	Date         time.Time
}

// GuideCostRule один уровень правил стоимости гида
// Resolve возвращает false, если на этом уровне правила нет
type GuideCostRule interface {
	Name() string
	Resolve(q GuideCostQuery) (decimal.Decimal, bool)
}

// Названия уровней правил
const (
	RuleOverride    = "override"
	RuleSpecialDate = "special_date"
	RuleSeasonal    = "seasonal"
	RuleGlobalTour  = "global_tour"
	RuleGuideTour   = "guide_tour"
	RuleNone        = "none"
)

type ruleFunc struct {
	name string
	fn   func(q GuideCostQuery) (decimal.Decimal, bool)
}

func (r ruleFunc) Name() string {
	return r.name
}

func (r ruleFunc) Resolve(q GuideCostQuery) (decimal.Decimal, bool) {
	return r.fn(q)
}

// GuideCostResolver упорядоченный список правил: первое сработавшее правило побеждает
type GuideCostResolver struct {
	rules []GuideCostRule
}

// NewGuideCostResolver создает резолвер с правилами в порядке приоритета
func NewGuideCostResolver(rules ...GuideCostRule) *GuideCostResolver {
	return &GuideCostResolver{rules: rules}
}

// DefaultGuideCostResolver стандартный порядок:
// override -> особая дата -> сезон -> общая стоимость тура -> стоимость тура для гида -> 0
func DefaultGuideCostResolver(overrides map[int64]decimal.Decimal, tables GuideCostTables) *GuideCostResolver {
	return NewGuideCostResolver(
		OverrideRule(overrides),
		SpecialDateRule(tables),
		SeasonalRule(tables),
		GlobalTourRule(tables),
		GuideTourRule(tables),
	)
}

// Resolve стоимость и название сработавшего правила; RuleNone и ноль, если ни одно не сработало
func (r *GuideCostResolver) Resolve(q GuideCostQuery) (decimal.Decimal, string) {
	for _, rule := range r.rules {
		if amount, ok := rule.Resolve(q); ok {
			return amount, rule.Name()
		}
	}
	return decimal.Zero, RuleNone
}

// OverrideRule явная стоимость назначения (assignment id -> сумма)
func OverrideRule(overrides map[int64]decimal.Decimal) GuideCostRule {
	return ruleFunc{name: RuleOverride, fn: func(q GuideCostQuery) (decimal.Decimal, bool) {
		amount, ok := overrides[q.AssignmentID]
		return amount, ok
	}}
}

type tourDate struct {
	tourID string
	date   string
}

type tourSeason struct {
	tourID   string
	seasonID int64
}

// SpecialDateRule стоимость тура в особую дату
func SpecialDateRule(tables GuideCostTables) GuideCostRule {
	dates := indexBy(tables.SpecialDates, func(d domain.SpecialCostDate) int64 { return d.ID })

	costs := make(map[tourDate]decimal.Decimal, len(tables.SpecialDateCosts))
	for _, c := range tables.SpecialDateCosts {
		special, ok := dates[c.SpecialDateID]
		if !ok {
			continue
		}
		key := tourDate{tourID: c.TourID, date: special.Date.Format(domain.DateFormat)}
		if _, exists := costs[key]; !exists {
			costs[key] = c.Amount
		}
	}

	return ruleFunc{name: RuleSpecialDate, fn: func(q GuideCostQuery) (decimal.Decimal, bool) {
		amount, ok := costs[tourDate{tourID: q.TourID, date: q.Date.Format(domain.DateFormat)}]
		return amount, ok
	}}
}

// SeasonalRule стоимость тура в сезоне, содержащем дату
// Если дату содержат несколько сезонов, берется сезон с самой поздней датой начала
func SeasonalRule(tables GuideCostTables) GuideCostRule {
	seasons := make([]domain.CostSeason, len(tables.Seasons))
	copy(seasons, tables.Seasons)
	sort.SliceStable(seasons, func(i, j int) bool {
		return seasons[i].StartDate.After(seasons[j].StartDate)
	})

	costs := make(map[tourSeason]decimal.Decimal, len(tables.SeasonalCosts))
	for _, c := range tables.SeasonalCosts {
		key := tourSeason{tourID: c.TourID, seasonID: c.SeasonID}
		if _, exists := costs[key]; !exists {
			costs[key] = c.Amount
		}
	}

	return ruleFunc{name: RuleSeasonal, fn: func(q GuideCostQuery) (decimal.Decimal, bool) {
		for i := range seasons {
			if !seasons[i].Contains(q.Date) {
				continue
			}
			if amount, ok := costs[tourSeason{tourID: q.TourID, seasonID: seasons[i].ID}]; ok {
				return amount, true
			}
		}
		return decimal.Zero, false
	}}
}

// GlobalTourRule общая стоимость тура (без привязки к гиду)
func GlobalTourRule(tables GuideCostTables) GuideCostRule {
	costs := make(map[string]decimal.Decimal)
	for _, c := range tables.TourCosts {
		if !c.IsGlobal() {
			continue
		}
		if _, exists := costs[c.TourID]; !exists {
			costs[c.TourID] = c.Amount
		}
	}

	return ruleFunc{name: RuleGlobalTour, fn: func(q GuideCostQuery) (decimal.Decimal, bool) {
		amount, ok := costs[q.TourID]
		return amount, ok
	}}
}

// GuideTourRule стоимость тура для конкретного гида
func GuideTourRule(tables GuideCostTables) GuideCostRule {
	type tourGuide struct {
		tourID  string
		guideID int64
	}

	costs := make(map[tourGuide]decimal.Decimal)
	for _, c := range tables.TourCosts {
		if c.IsGlobal() {
			continue
		}
		key := tourGuide{tourID: c.TourID, guideID: *c.GuideID}
		if _, exists := costs[key]; !exists {
			costs[key] = c.Amount
		}
	}

	return ruleFunc{name: RuleGuideTour, fn: func(q GuideCostQuery) (decimal.Decimal, bool) {
		amount, ok := costs[tourGuide{tourID: q.TourID, guideID: q.GuideID}]
		return amount, ok
	}}
}

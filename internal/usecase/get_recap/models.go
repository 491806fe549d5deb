package get_recap

import (
	"time"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/internal/recap"
)

// Request модель запроса отчета по туру
type Request struct {
	TourID    string    // ID тура
	StartDate time.Time // Начало периода (включительно)
	EndDate   time.Time // Конец периода (включительно)
	SkipCache bool      // Пересчитать, не читая кэш
}

// Response модель ответа с отчетом
type Response struct {
	Result    *recap.Result
	FromCache bool
}

// Options параметры расчета
type Options struct {
	MaxRangeDays     int                  // 0 - без ограничения
	FetchConcurrency int                  // <= 0 - без ограничения
	Policy           domain.PricingPolicy // Таблицы исключений категорий
}

// Источники данных, по которым фиксируется деградация
const (
	SourceBookings         = "bookings"
	SourceAvailability     = "availability"
	SourceAssignments      = "assignments"
	SourceRates            = "rates"
	SourceOverrides        = "overrides"
	SourceTourCosts        = "guide_tour_costs"
	SourceSeasons          = "cost_seasons"
	SourceSeasonalCosts    = "seasonal_costs"
	SourceSpecialDates     = "special_dates"
	SourceSpecialDateCosts = "special_date_costs"
	SourceServiceGroups    = "service_groups"
	SourceProductSources   = "product_sources"
	SourcePlanned          = "planned_availability"
	SourceVouchers         = "vouchers"
)

// Результаты обращения к кэшу для метрик
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

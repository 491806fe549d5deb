package get_recap

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/internal/recap"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListByTour(ctx context.Context, tourID string, startDate, endDate time.Time) ([]domain.Booking, error)
}

// AvailabilityRepository интерфейс репозитория опубликованных слотов
type AvailabilityRepository interface {
	ListByTour(ctx context.Context, tourID string, startDate, endDate time.Time) ([]domain.AvailabilitySlot, error)
}

// AssignmentRepository интерфейс репозитория назначений
type AssignmentRepository interface {
	ListByTour(ctx context.Context, tourID string, startDate, endDate time.Time) ([]domain.Assignment, error)
}

// RatesRepository интерфейс репозитория тарифов и явных стоимостей
type RatesRepository interface {
	ListRates(ctx context.Context) ([]domain.ResourceRate, error)
	ListOverrides(ctx context.Context) ([]domain.CostOverride, error)
}

// GuideCostRepository интерфейс репозитория стоимостей гидов
type GuideCostRepository interface {
	ListTourCosts(ctx context.Context, tourID string) ([]domain.GuideActivityCost, error)
	ListSeasons(ctx context.Context) ([]domain.CostSeason, error)
	ListSeasonalCosts(ctx context.Context, tourID string) ([]domain.SeasonalCost, error)
	ListSpecialDates(ctx context.Context) ([]domain.SpecialCostDate, error)
	ListSpecialDateCosts(ctx context.Context, tourID string) ([]domain.SpecialDateCost, error)
	ListServiceGroups(ctx context.Context) ([]domain.ServiceGroup, error)
}

// VoucherRepository интерфейс репозитория ваучеров
type VoucherRepository interface {
	ListBySlots(ctx context.Context, slotIDs, plannedIDs []int64) ([]domain.Voucher, error)
	ListProductSources(ctx context.Context) ([]domain.ProductSource, error)
}

// PlannedAvailabilityClient интерфейс клиента сервиса планирования
type PlannedAvailabilityClient interface {
	ListPlannedWithGracefulDegradation(ctx context.Context, tourID string, startDate, endDate time.Time) ([]domain.PlannedSlot, error)
}

// RecapCache интерфейс кэша отчетов
type RecapCache interface {
	Get(ctx context.Context, tourID string, startDate, endDate time.Time) (*recap.Result, error)
	Set(ctx context.Context, result *recap.Result) error
}

// Metrics интерфейс метрик расчета отчета
type Metrics interface {
	ObserveRecapDuration(d time.Duration)
	IncDegradedFetch(source string)
	IncCache(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type nopMetrics struct{}

func (nopMetrics) ObserveRecapDuration(time.Duration) {}
func (nopMetrics) IncDegradedFetch(string)            {}
func (nopMetrics) IncCache(string)                    {}

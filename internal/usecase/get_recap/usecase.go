package get_recap

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/internal/infra/cache"
	"github.com/m04kA/SMC-TourRecapService/internal/recap"
)

// UseCase use case расчета отчета по туру за период
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	assignmentRepo   AssignmentRepository
	ratesRepo        RatesRepository
	guideCostRepo    GuideCostRepository
	voucherRepo      VoucherRepository
	plannedClient    PlannedAvailabilityClient
	cache            RecapCache
	metrics          Metrics
	timeProvider     TimeProvider
	opts             Options
	logger           Logger
}

// Dependencies зависимости use case. PlannedClient, Cache и Metrics опциональны
type Dependencies struct {
	Bookings      BookingRepository
	Availability  AvailabilityRepository
	Assignments   AssignmentRepository
	Rates         RatesRepository
	GuideCosts    GuideCostRepository
	Vouchers      VoucherRepository
	PlannedClient PlannedAvailabilityClient
	Cache         RecapCache
	Metrics       Metrics
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(deps Dependencies, opts Options, logger Logger) *UseCase {
	uc := &UseCase{
		bookingRepo:      deps.Bookings,
		availabilityRepo: deps.Availability,
		assignmentRepo:   deps.Assignments,
		ratesRepo:        deps.Rates,
		guideCostRepo:    deps.GuideCosts,
		voucherRepo:      deps.Vouchers,
		plannedClient:    deps.PlannedClient,
		cache:            deps.Cache,
		metrics:          deps.Metrics,
		timeProvider:     &RealTimeProvider{},
		opts:             opts,
		logger:           logger,
	}
	if uc.metrics == nil {
		uc.metrics = nopMetrics{}
	}
	return uc
}

// Policy таблицы исключений, с которыми считается отчет
func (uc *UseCase) Policy() domain.PricingPolicy {
	return uc.opts.Policy
}

// Execute выполняет use case получения отчета
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetRecap: tour=%s, period=%s..%s, skip_cache=%t",
		req.TourID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), req.SkipCache)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.opts.MaxRangeDays); err != nil {
		uc.logger.Warn("GetRecap: validation failed: %v", err)
		return nil, err
	}
	req.StartDate = dateOnly(req.StartDate)
	req.EndDate = dateOnly(req.EndDate)

	// 2. Кэш
	if uc.cache != nil && !req.SkipCache {
		cached, err := uc.cache.Get(ctx, req.TourID, req.StartDate, req.EndDate)
		switch {
		case err == nil:
			uc.metrics.IncCache(CacheHit)
			uc.logger.Info("GetRecap: cache hit for tour=%s, computed_at=%s", req.TourID, cached.ComputedAt.Format("2006-01-02T15:04:05Z07:00"))
			return &Response{Result: cached, FromCache: true}, nil
		case errors.Is(err, cache.ErrCacheMiss):
			uc.metrics.IncCache(CacheMiss)
		default:
			uc.metrics.IncCache(CacheError)
			uc.logger.Warn("GetRecap: cache read failed for tour=%s: %v", req.TourID, err)
		}
	}

	// 3. Расчет
	result, err := uc.compute(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Запись в кэш; ошибка кэша не влияет на ответ
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, result); err != nil {
			uc.logger.Warn("GetRecap: cache write failed for tour=%s: %v", req.TourID, err)
		}
	}

	return &Response{Result: result}, nil
}

// Recompute пересчитывает отчет и перезаписывает кэш. Используется воркером обновления
func (uc *UseCase) Recompute(ctx context.Context, req *Request) (*recap.Result, error) {
	req.SkipCache = true
	resp, err := uc.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Result, nil
}

func (uc *UseCase) compute(ctx context.Context, req *Request) (*recap.Result, error) {
	started := uc.timeProvider.Now()

	snapshot, degraded := uc.fetchSnapshot(ctx, req)

	// Если запрос отменен, частичный результат не нужен
	if err := ctx.Err(); err != nil {
		uc.logger.Warn("GetRecap: request for tour=%s cancelled: %v", req.TourID, err)
		return nil, fmt.Errorf("%w: request cancelled: %v", ErrInternal, err)
	}

	result := recap.Compute(snapshot, uc.opts.Policy)
	result.ComputedAt = uc.timeProvider.Now()
	result.DegradedFrom = degraded

	elapsed := result.ComputedAt.Sub(started)
	uc.metrics.ObserveRecapDuration(elapsed)

	if len(degraded) > 0 {
		uc.logger.Warn("GetRecap: tour=%s computed with missing sources %v", req.TourID, degraded)
	}
	uc.logger.Info("GetRecap: tour=%s, days=%d, slots=%d, revenue=%s, net_profit=%s, took=%s",
		req.TourID, len(result.Days), result.SlotCount(),
		result.Totals.Revenue.StringFixed(domain.MoneyPlaces), result.Totals.NetProfit.StringFixed(domain.MoneyPlaces), elapsed)

	return result, nil
}

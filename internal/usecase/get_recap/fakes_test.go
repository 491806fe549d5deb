package get_recap

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/internal/infra/cache"
	"github.com/m04kA/SMC-TourRecapService/internal/recap"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookings struct {
	items []domain.Booking
	err   error
}

func (f *fakeBookings) ListByTour(context.Context, string, time.Time, time.Time) ([]domain.Booking, error) {
	return f.items, f.err
}

type fakeAvailability struct {
	items []domain.AvailabilitySlot
	err   error
}

func (f *fakeAvailability) ListByTour(context.Context, string, time.Time, time.Time) ([]domain.AvailabilitySlot, error) {
	return f.items, f.err
}

type fakeAssignments struct {
	items []domain.Assignment
	err   error
}

func (f *fakeAssignments) ListByTour(context.Context, string, time.Time, time.Time) ([]domain.Assignment, error) {
	return f.items, f.err
}

type fakeRates struct {
	rates     []domain.ResourceRate
	overrides []domain.CostOverride
	err       error
}

func (f *fakeRates) ListRates(context.Context) ([]domain.ResourceRate, error) {
	return f.rates, f.err
}

func (f *fakeRates) ListOverrides(context.Context) ([]domain.CostOverride, error) {
	return f.overrides, f.err
}

type fakeGuideCosts struct {
	tables recap.GuideCostTables
	groups []domain.ServiceGroup
}

func (f *fakeGuideCosts) ListTourCosts(context.Context, string) ([]domain.GuideActivityCost, error) {
	return f.tables.TourCosts, nil
}

func (f *fakeGuideCosts) ListSeasons(context.Context) ([]domain.CostSeason, error) {
	return f.tables.Seasons, nil
}

func (f *fakeGuideCosts) ListSeasonalCosts(context.Context, string) ([]domain.SeasonalCost, error) {
	return f.tables.SeasonalCosts, nil
}

func (f *fakeGuideCosts) ListSpecialDates(context.Context) ([]domain.SpecialCostDate, error) {
	return f.tables.SpecialDates, nil
}

func (f *fakeGuideCosts) ListSpecialDateCosts(context.Context, string) ([]domain.SpecialDateCost, error) {
	return f.tables.SpecialDateCosts, nil
}

func (f *fakeGuideCosts) ListServiceGroups(context.Context) ([]domain.ServiceGroup, error) {
	return f.groups, nil
}

type fakeVouchers struct {
	mu         sync.Mutex
	items      []domain.Voucher
	sources    []domain.ProductSource
	err        error
	slotIDs    []int64
	plannedIDs []int64
}

func (f *fakeVouchers) ListBySlots(_ context.Context, slotIDs, plannedIDs []int64) ([]domain.Voucher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slotIDs = slotIDs
	f.plannedIDs = plannedIDs
	return f.items, f.err
}

func (f *fakeVouchers) ListProductSources(context.Context) ([]domain.ProductSource, error) {
	return f.sources, nil
}

type fakePlanned struct {
	items []domain.PlannedSlot
	err   error
}

func (f *fakePlanned) ListPlannedWithGracefulDegradation(context.Context, string, time.Time, time.Time) ([]domain.PlannedSlot, error) {
	return f.items, f.err
}

type fakeCache struct {
	stored map[string]*recap.Result
	getErr error
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: make(map[string]*recap.Result)}
}

func cacheKey(tourID string, start, end time.Time) string {
	return tourID + start.Format(domain.DateFormat) + end.Format(domain.DateFormat)
}

func (f *fakeCache) Get(_ context.Context, tourID string, start, end time.Time) (*recap.Result, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.stored[cacheKey(tourID, start, end)]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return r, nil
}

func (f *fakeCache) Set(_ context.Context, r *recap.Result) error {
	f.sets++
	f.stored[cacheKey(r.TourID, r.StartDate, r.EndDate)] = r
	return nil
}

type fakeMetrics struct {
	mu        sync.Mutex
	durations int
	degraded  []string
	cache     []string
}

func (f *fakeMetrics) ObserveRecapDuration(time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.durations++
}

func (f *fakeMetrics) IncDegradedFetch(source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.degraded = append(f.degraded, source)
}

func (f *fakeMetrics) IncCache(result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache = append(f.cache, result)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

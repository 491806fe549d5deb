package get_recap

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/internal/recap"
)

// degradation собирает источники, выборка из которых не удалась
type degradation struct {
	mu      sync.Mutex
	sources []string
	logger  Logger
	metrics Metrics
	tourID  string
}

func (d *degradation) record(source string, err error) {
	d.logger.Error("GetRecap: fetch %s failed for tour=%s, continuing without it: %v", source, d.tourID, err)
	d.metrics.IncDegradedFetch(source)

	d.mu.Lock()
	d.sources = append(d.sources, source)
	d.mu.Unlock()
}

func (d *degradation) list() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]string, len(d.sources))
	copy(out, d.sources)
	sort.Strings(out)
	return out
}

// spawn запускает выборку в группе. Ошибка не останавливает остальные выборки:
// она фиксируется, а dst остается пустым
func spawn[T any](g *errgroup.Group, d *degradation, source string, dst *T, fn func() (T, error)) {
	g.Go(func() error {
		v, err := fn()
		if err != nil {
			d.record(source, err)
			return nil
		}
		*dst = v
		return nil
	})
}

// fetchSnapshot загружает все данные отчета
// Этап 1 - независимые выборки параллельно; этап 2 - ваучеры по ID слотов из этапа 1
func (uc *UseCase) fetchSnapshot(ctx context.Context, req *Request) (recap.Snapshot, []string) {
	in := recap.Snapshot{
		TourID:    req.TourID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	d := &degradation{logger: uc.logger, metrics: uc.metrics, tourID: req.TourID}

	g := &errgroup.Group{}
	if uc.opts.FetchConcurrency > 0 {
		g.SetLimit(uc.opts.FetchConcurrency)
	}

	spawn(g, d, SourceBookings, &in.Bookings, func() ([]domain.Booking, error) {
		return uc.bookingRepo.ListByTour(ctx, req.TourID, req.StartDate, req.EndDate)
	})
	spawn(g, d, SourceAvailability, &in.Slots, func() ([]domain.AvailabilitySlot, error) {
		return uc.availabilityRepo.ListByTour(ctx, req.TourID, req.StartDate, req.EndDate)
	})
	spawn(g, d, SourceAssignments, &in.Assignments, func() ([]domain.Assignment, error) {
		return uc.assignmentRepo.ListByTour(ctx, req.TourID, req.StartDate, req.EndDate)
	})
	spawn(g, d, SourceRates, &in.Rates, func() ([]domain.ResourceRate, error) {
		return uc.ratesRepo.ListRates(ctx)
	})
	spawn(g, d, SourceOverrides, &in.Overrides, func() ([]domain.CostOverride, error) {
		return uc.ratesRepo.ListOverrides(ctx)
	})
	spawn(g, d, SourceTourCosts, &in.GuideCosts.TourCosts, func() ([]domain.GuideActivityCost, error) {
		return uc.guideCostRepo.ListTourCosts(ctx, req.TourID)
	})
	spawn(g, d, SourceSeasons, &in.GuideCosts.Seasons, func() ([]domain.CostSeason, error) {
		return uc.guideCostRepo.ListSeasons(ctx)
	})
	spawn(g, d, SourceSeasonalCosts, &in.GuideCosts.SeasonalCosts, func() ([]domain.SeasonalCost, error) {
		return uc.guideCostRepo.ListSeasonalCosts(ctx, req.TourID)
	})
	spawn(g, d, SourceSpecialDates, &in.GuideCosts.SpecialDates, func() ([]domain.SpecialCostDate, error) {
		return uc.guideCostRepo.ListSpecialDates(ctx)
	})
	spawn(g, d, SourceSpecialDateCosts, &in.GuideCosts.SpecialDateCosts, func() ([]domain.SpecialDateCost, error) {
		return uc.guideCostRepo.ListSpecialDateCosts(ctx, req.TourID)
	})
	spawn(g, d, SourceServiceGroups, &in.ServiceGroups, func() ([]domain.ServiceGroup, error) {
		return uc.guideCostRepo.ListServiceGroups(ctx)
	})
	spawn(g, d, SourceProductSources, &in.ProductSources, func() ([]domain.ProductSource, error) {
		return uc.voucherRepo.ListProductSources(ctx)
	})
	if uc.plannedClient != nil {
		spawn(g, d, SourcePlanned, &in.PlannedSlots, func() ([]domain.PlannedSlot, error) {
			return uc.plannedClient.ListPlannedWithGracefulDegradation(ctx, req.TourID, req.StartDate, req.EndDate)
		})
	}

	_ = g.Wait()

	// Этап 2: ваучеры привязаны к ID слотов, поэтому ждут выборку слотов
	slotIDs := make([]int64, 0, len(in.Slots))
	for _, s := range in.Slots {
		slotIDs = append(slotIDs, s.ID)
	}
	plannedIDs := make([]int64, 0, len(in.PlannedSlots))
	for _, p := range in.PlannedSlots {
		plannedIDs = append(plannedIDs, p.ID)
	}

	if len(slotIDs) > 0 || len(plannedIDs) > 0 {
		vouchers, err := uc.voucherRepo.ListBySlots(ctx, slotIDs, plannedIDs)
		if err != nil {
			d.record(SourceVouchers, err)
		} else {
			in.Vouchers = vouchers
		}
	}

	return in, d.list()
}

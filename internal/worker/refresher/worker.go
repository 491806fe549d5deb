package refresher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/internal/infra/cache"
	"github.com/m04kA/SMC-TourRecapService/internal/usecase/get_recap"
)

// Источники запуска пересчета
const (
	TriggerCron   = "cron"
	TriggerNotify = "notify"
)

// Options параметры воркера
type Options struct {
	Schedule      string        // cron выражение полного обновления, пусто - без расписания
	Debounce      time.Duration // окно схлопывания уведомлений по туру
	RatePerMinute float64       // максимум пересчетов тура в минуту, 0 - без ограничения
	Retention     time.Duration // периоды, закончившиеся раньше now-Retention, перестают обновляться
	Timeout       time.Duration // таймаут пересчета одного периода
}

// Worker фоновое обновление закэшированных отчетов
// Запускается по расписанию и по уведомлениям об изменении тура
type Worker struct {
	recomputer Recomputer
	watches    WatchStore
	feed       ChangeFeed
	metrics    Metrics
	opts       Options
	logger     Logger
	now        func() time.Time

	cron      *cron.Cron
	debouncer *Debouncer

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	baseCtx  context.Context
	cancel   context.CancelFunc
	stopping bool
	wg       sync.WaitGroup
}

// NewWorker создает воркер. feed и metrics могут быть nil
func NewWorker(recomputer Recomputer, watches WatchStore, feed ChangeFeed, metrics Metrics, opts Options, logger Logger) *Worker {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}

	w := &Worker{
		recomputer: recomputer,
		watches:    watches,
		feed:       feed,
		metrics:    metrics,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
		limiters:   make(map[string]*rate.Limiter),
		baseCtx:    context.Background(),
	}
	w.debouncer = NewDebouncer(opts.Debounce, w.refreshNotified)

	return w
}

// Start запускает расписание и подписку на уведомления
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return ErrAlreadyStarted
	}
	w.baseCtx, w.cancel = context.WithCancel(ctx)
	baseCtx := w.baseCtx
	w.mu.Unlock()

	// 1. Расписание полного обновления
	if w.opts.Schedule != "" {
		w.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{w.logger})))
		if _, err := w.cron.AddFunc(w.opts.Schedule, func() { w.RefreshAll(baseCtx) }); err != nil {
			w.cancel()
			return fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, w.opts.Schedule, err)
		}
		w.cron.Start()
		w.logger.Info("Refresher: schedule %q started", w.opts.Schedule)
	}

	// 2. Уведомления об изменениях
	if w.feed != nil {
		changes, err := w.feed.SubscribeChanges(baseCtx)
		if err != nil {
			if w.cron != nil {
				w.cron.Stop()
			}
			w.cancel()
			return fmt.Errorf("%w: %v", ErrSubscribe, err)
		}

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for tourID := range changes {
				w.Notify(tourID)
			}
		}()
		w.logger.Info("Refresher: subscribed to change notifications")
	}

	return nil
}

// Notify ставит пересчет тура в очередь с учетом окна схлопывания
func (w *Worker) Notify(tourID string) {
	if tourID == "" {
		return
	}
	w.debouncer.Trigger(tourID)
}

// PublishChange позволяет использовать воркер как получателя уведомлений внутри процесса
func (w *Worker) PublishChange(_ context.Context, tourID string) error {
	w.Notify(tourID)
	return nil
}

// Stop останавливает расписание, отменяет ожидающие пересчеты и дожидается подписки
func (w *Worker) Stop(ctx context.Context) error {
	w.debouncer.Stop()

	if w.cron != nil {
		cronCtx := w.cron.Stop()
		select {
		case <-cronCtx.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// После stopping новые пересчеты по уведомлениям не стартуют, начатые учтены в wg
	w.mu.Lock()
	w.stopping = true
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RefreshAll пересчитывает все наблюдаемые периоды всех туров
func (w *Worker) RefreshAll(ctx context.Context) {
	tours, err := w.watches.WatchedTours(ctx)
	if err != nil {
		w.logger.Error("RefreshAll: failed to list watched tours: %v", err)
		return
	}

	w.logger.Info("RefreshAll: %d watched tours", len(tours))
	for _, tourID := range tours {
		if ctx.Err() != nil {
			return
		}
		w.RefreshTour(ctx, tourID, TriggerCron)
	}
}

// RefreshTour пересчитывает наблюдаемые периоды тура
// Если лимит пересчетов исчерпан, уведомление откладывается, а запуск по расписанию пропускается
func (w *Worker) RefreshTour(ctx context.Context, tourID string, trigger string) {
	// 1. Ограничение частоты
	if !w.limiter(tourID).Allow() {
		switch {
		case trigger == TriggerNotify && ctx.Err() == nil:
			w.logger.Warn("RefreshTour: rate limit for tour=%s, postponed", tourID)
			w.debouncer.Trigger(tourID)
		case trigger == TriggerNotify:
			w.logger.Warn("RefreshTour: rate limit for tour=%s, dropped on shutdown", tourID)
		default:
			w.logger.Warn("RefreshTour: rate limit for tour=%s, skipped", tourID)
		}
		return
	}

	// 2. Периоды тура
	ranges, err := w.watches.WatchedRanges(ctx, tourID)
	if err != nil {
		w.logger.Error("RefreshTour: failed to list ranges for tour=%s: %v", tourID, err)
		return
	}

	w.metrics.IncRefreshRun(trigger)
	cutoff := w.now().Add(-w.opts.Retention)

	// 3. Пересчет каждого периода, устаревшие и некорректные больше не отслеживаются
	refreshed := 0
	for _, r := range ranges {
		if ctx.Err() != nil {
			return
		}

		if w.opts.Retention > 0 && r.EndDate.Before(cutoff) {
			w.unwatch(ctx, tourID, r, "expired")
			continue
		}

		reqCtx, cancel := context.WithTimeout(ctx, w.opts.Timeout)
		_, err := w.recomputer.Recompute(reqCtx, &get_recap.Request{
			TourID:    tourID,
			StartDate: r.StartDate,
			EndDate:   r.EndDate,
		})
		cancel()

		if err != nil {
			if errors.Is(err, get_recap.ErrInvalidInput) ||
				errors.Is(err, get_recap.ErrInvalidDateRange) ||
				errors.Is(err, get_recap.ErrRangeTooLong) {
				w.unwatch(ctx, tourID, r, "invalid")
				continue
			}
			w.logger.Error("RefreshTour: tour=%s, period=%s..%s: %v",
				tourID, r.StartDate.Format(domain.DateFormat), r.EndDate.Format(domain.DateFormat), err)
			continue
		}
		refreshed++
	}

	w.logger.Info("RefreshTour: tour=%s, trigger=%s, refreshed %d of %d periods", tourID, trigger, refreshed, len(ranges))
}

func (w *Worker) unwatch(ctx context.Context, tourID string, r cache.Range, reason string) {
	if err := w.watches.Unwatch(ctx, tourID, r); err != nil {
		w.logger.Warn("RefreshTour: failed to unwatch %s period of tour=%s: %v", reason, tourID, err)
		return
	}
	w.logger.Info("RefreshTour: unwatched %s period %s..%s of tour=%s",
		reason, r.StartDate.Format(domain.DateFormat), r.EndDate.Format(domain.DateFormat), tourID)
}

// refreshNotified пересчет по сработавшему уведомлению, Stop дожидается его завершения
func (w *Worker) refreshNotified(tourID string) {
	w.mu.Lock()
	if w.stopping {
		w.mu.Unlock()
		return
	}
	w.wg.Add(1)
	ctx := w.baseCtx
	w.mu.Unlock()
	defer w.wg.Done()

	if ctx.Err() != nil {
		return
	}
	w.RefreshTour(ctx, tourID, TriggerNotify)
}

func (w *Worker) limiter(tourID string) *rate.Limiter {
	w.mu.Lock()
	defer w.mu.Unlock()

	l, ok := w.limiters[tourID]
	if !ok {
		limit := rate.Inf
		if w.opts.RatePerMinute > 0 {
			limit = rate.Limit(w.opts.RatePerMinute / 60)
		}
		l = rate.NewLimiter(limit, 1)
		w.limiters[tourID] = l
	}
	return l
}

// cronLogger адаптер Logger к интерфейсу логгера cron
type cronLogger struct {
	log Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info("cron: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: %s: %v %v", msg, err, keysAndValues)
}

package refresher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourRecapService/internal/infra/cache"
	"github.com/m04kA/SMC-TourRecapService/internal/recap"
	"github.com/m04kA/SMC-TourRecapService/internal/usecase/get_recap"
	"github.com/m04kA/SMC-TourRecapService/pkg/logger"
)

type fakeRecomputer struct {
	mu    sync.Mutex
	calls []get_recap.Request
	errs  map[string]error // по дате начала
}

func (f *fakeRecomputer) Recompute(_ context.Context, req *get_recap.Request) (*recap.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, *req)
	if err := f.errs[req.StartDate.Format("2006-01-02")]; err != nil {
		return nil, err
	}
	return &recap.Result{TourID: req.TourID, StartDate: req.StartDate, EndDate: req.EndDate}, nil
}

func (f *fakeRecomputer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeWatches struct {
	mu        sync.Mutex
	ranges    map[string][]cache.Range
	unwatched []cache.Range
	err       error
}

func (f *fakeWatches) WatchedTours(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var tours []string
	for t := range f.ranges {
		tours = append(tours, t)
	}
	return tours, nil
}

func (f *fakeWatches) WatchedRanges(_ context.Context, tourID string) ([]cache.Range, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.ranges[tourID], nil
}

func (f *fakeWatches) Unwatch(_ context.Context, _ string, r cache.Range) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unwatched = append(f.unwatched, r)
	return nil
}

type fakeFeed struct {
	ch  chan string
	err error
}

func (f *fakeFeed) SubscribeChanges(context.Context) (<-chan string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ch, nil
}

type countingMetrics struct {
	mu   sync.Mutex
	runs map[string]int
}

func (m *countingMetrics) IncRefreshRun(trigger string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.runs == nil {
		m.runs = map[string]int{}
	}
	m.runs[trigger]++
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func period(start, end string) cache.Range {
	return cache.Range{StartDate: day(start), EndDate: day(end)}
}

func TestWorker_RefreshTour(t *testing.T) {
	rc := &fakeRecomputer{errs: map[string]error{
		"2026-06-01": get_recap.ErrRangeTooLong,
		"2026-07-01": errors.New("db timeout"),
	}}
	watches := &fakeWatches{ranges: map[string][]cache.Range{
		"colosseum-underground": {
			period("2025-01-01", "2025-01-31"),
			period("2026-05-01", "2026-05-31"),
			period("2026-06-01", "2026-12-31"),
			period("2026-07-01", "2026-07-31"),
		},
	}}
	m := &countingMetrics{}

	w := NewWorker(rc, watches, nil, m, Options{Retention: 30 * 24 * time.Hour}, logger.NewNop())
	w.now = func() time.Time { return day("2026-05-15") }

	w.RefreshTour(context.Background(), "colosseum-underground", TriggerCron)

	// Просроченный период не пересчитывается
	require.Equal(t, 3, rc.count())
	assert.Equal(t, day("2026-05-01"), rc.calls[0].StartDate)
	assert.Equal(t, "colosseum-underground", rc.calls[0].TourID)

	assert.ElementsMatch(t, []cache.Range{
		period("2025-01-01", "2025-01-31"),
		period("2026-06-01", "2026-12-31"),
	}, watches.unwatched)
	assert.Equal(t, 1, m.runs[TriggerCron])
}

func TestWorker_RefreshTour_RateLimit(t *testing.T) {
	rc := &fakeRecomputer{}
	watches := &fakeWatches{ranges: map[string][]cache.Range{
		"t": {period("2026-05-01", "2026-05-02")},
	}}

	w := NewWorker(rc, watches, nil, nil, Options{RatePerMinute: 1, Debounce: time.Hour}, logger.NewNop())
	defer w.debouncer.Stop()

	w.RefreshTour(context.Background(), "t", TriggerCron)
	w.RefreshTour(context.Background(), "t", TriggerCron)
	assert.Equal(t, 1, rc.count())
	assert.Zero(t, w.debouncer.Pending())

	// Уведомление сверх лимита откладывается
	w.RefreshTour(context.Background(), "t", TriggerNotify)
	assert.Equal(t, 1, rc.count())
	assert.Equal(t, 1, w.debouncer.Pending())

	// Лимит считается по туру
	watches.ranges["other"] = []cache.Range{period("2026-05-01", "2026-05-02")}
	w.RefreshTour(context.Background(), "other", TriggerCron)
	assert.Equal(t, 2, rc.count())
}

func TestWorker_RefreshAll(t *testing.T) {
	rc := &fakeRecomputer{}
	watches := &fakeWatches{ranges: map[string][]cache.Range{
		"a": {period("2026-05-01", "2026-05-02")},
		"b": {period("2026-05-01", "2026-05-02"), period("2026-06-01", "2026-06-02")},
	}}

	w := NewWorker(rc, watches, nil, nil, Options{}, logger.NewNop())
	w.RefreshAll(context.Background())
	assert.Equal(t, 3, rc.count())

	watches.err = errors.New("redis down")
	w.RefreshAll(context.Background())
	assert.Equal(t, 3, rc.count())
}

func TestWorker_NotifyFromFeed(t *testing.T) {
	rc := &fakeRecomputer{}
	watches := &fakeWatches{ranges: map[string][]cache.Range{
		"t": {period("2026-05-01", "2026-05-02")},
	}}
	feed := &fakeFeed{ch: make(chan string)}
	m := &countingMetrics{}

	w := NewWorker(rc, watches, feed, m, Options{Debounce: 100 * time.Millisecond}, logger.NewNop())
	require.NoError(t, w.Start(context.Background()))

	for i := 0; i < 5; i++ {
		feed.ch <- "t"
	}

	assert.Eventually(t, func() bool { return rc.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, rc.count())

	close(feed.ch)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Stop(ctx))

	m.mu.Lock()
	assert.Equal(t, 1, m.runs[TriggerNotify])
	m.mu.Unlock()
}

func TestWorker_Start_Errors(t *testing.T) {
	t.Run("invalid schedule", func(t *testing.T) {
		w := NewWorker(&fakeRecomputer{}, &fakeWatches{}, nil, nil, Options{Schedule: "every tuesday"}, logger.NewNop())
		assert.ErrorIs(t, w.Start(context.Background()), ErrInvalidSchedule)
	})

	t.Run("subscribe fails", func(t *testing.T) {
		feed := &fakeFeed{err: errors.New("redis down")}
		w := NewWorker(&fakeRecomputer{}, &fakeWatches{}, feed, nil, Options{Schedule: "@every 1h"}, logger.NewNop())
		assert.ErrorIs(t, w.Start(context.Background()), ErrSubscribe)
	})

	t.Run("started twice", func(t *testing.T) {
		w := NewWorker(&fakeRecomputer{}, &fakeWatches{}, nil, nil, Options{Schedule: "@every 1h"}, logger.NewNop())
		require.NoError(t, w.Start(context.Background()))
		assert.ErrorIs(t, w.Start(context.Background()), ErrAlreadyStarted)
		require.NoError(t, w.Stop(context.Background()))
	})
}

func TestWorker_PublishChange(t *testing.T) {
	w := NewWorker(&fakeRecomputer{}, &fakeWatches{}, nil, nil, Options{Debounce: time.Hour}, logger.NewNop())
	defer w.debouncer.Stop()

	require.NoError(t, w.PublishChange(context.Background(), "t"))
	require.NoError(t, w.PublishChange(context.Background(), ""))
	assert.Equal(t, 1, w.debouncer.Pending())
}

// blockingRecomputer не завершает пересчет, пока не закрыт release, и игнорирует отмену контекста
type blockingRecomputer struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingRecomputer) Recompute(_ context.Context, req *get_recap.Request) (*recap.Result, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return &recap.Result{TourID: req.TourID}, nil
}

func TestWorker_StopWaitsForNotifiedRefresh(t *testing.T) {
	rc := &blockingRecomputer{started: make(chan struct{}), release: make(chan struct{})}
	watches := &fakeWatches{ranges: map[string][]cache.Range{
		"t": {period("2026-05-01", "2026-05-02")},
	}}

	w := NewWorker(rc, watches, nil, nil, Options{Debounce: time.Millisecond}, logger.NewNop())
	require.NoError(t, w.Start(context.Background()))

	w.Notify("t")
	select {
	case <-rc.started:
	case <-time.After(2 * time.Second):
		t.Fatal("notified refresh did not start")
	}

	stopped := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		stopped <- w.Stop(ctx)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while refresh was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(rc.release)
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after refresh finished")
	}

	// после остановки сработавшие уведомления не запускают пересчет
	w.refreshNotified("t")
	assert.Zero(t, w.debouncer.Pending())
}

func TestWorker_RefreshTour_RateLimitedNotifyOnShutdown(t *testing.T) {
	rc := &fakeRecomputer{}
	watches := &fakeWatches{ranges: map[string][]cache.Range{
		"t": {period("2026-05-01", "2026-05-02")},
	}}

	w := NewWorker(rc, watches, nil, nil, Options{RatePerMinute: 1, Debounce: time.Hour}, logger.NewNop())
	defer w.debouncer.Stop()

	w.RefreshTour(context.Background(), "t", TriggerNotify)
	require.Equal(t, 1, rc.count())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.RefreshTour(ctx, "t", TriggerNotify)

	assert.Equal(t, 1, rc.count())
	assert.Zero(t, w.debouncer.Pending())
}

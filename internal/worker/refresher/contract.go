package refresher

import (
	"context"

	"github.com/m04kA/SMC-TourRecapService/internal/infra/cache"
	"github.com/m04kA/SMC-TourRecapService/internal/recap"
	"github.com/m04kA/SMC-TourRecapService/internal/usecase/get_recap"
)

// Recomputer пересчитывает отчет и перезаписывает кэш
type Recomputer interface {
	Recompute(ctx context.Context, req *get_recap.Request) (*recap.Result, error)
}

// WatchStore периоды, отчеты по которым нужно поддерживать свежими
type WatchStore interface {
	WatchedTours(ctx context.Context) ([]string, error)
	WatchedRanges(ctx context.Context, tourID string) ([]cache.Range, error)
	Unwatch(ctx context.Context, tourID string, r cache.Range) error
}

// ChangeFeed поток ID туров, данные которых изменились
type ChangeFeed interface {
	SubscribeChanges(ctx context.Context) (<-chan string, error)
}

// Metrics интерфейс метрик воркера
type Metrics interface {
	IncRefreshRun(trigger string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type nopMetrics struct{}

func (nopMetrics) IncRefreshRun(string) {}

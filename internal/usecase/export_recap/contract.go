package export_recap

import (
	"context"

	"github.com/m04kA/SMC-TourRecapService/internal/usecase/get_recap"
)

// RecapProvider интерфейс получения отчета
type RecapProvider interface {
	Execute(ctx context.Context, req *get_recap.Request) (*get_recap.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

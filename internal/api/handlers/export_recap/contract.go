package export_recap

import (
	"context"

	exportRecap "github.com/m04kA/SMC-TourRecapService/internal/usecase/export_recap"
)

type ExportRecapUseCase interface {
	Execute(ctx context.Context, req *exportRecap.Request) (*exportRecap.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

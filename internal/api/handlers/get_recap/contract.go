package get_recap

import (
	"context"

	getRecap "github.com/m04kA/SMC-TourRecapService/internal/usecase/get_recap"
)

type GetRecapUseCase interface {
	Execute(ctx context.Context, req *getRecap.Request) (*getRecap.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

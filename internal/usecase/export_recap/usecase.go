package export_recap

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/internal/usecase/get_recap"
)

// UseCase use case выгрузки отчета в xlsx
type UseCase struct {
	recaps RecapProvider
	logger Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(recaps RecapProvider, logger Logger) *UseCase {
	return &UseCase{recaps: recaps, logger: logger}
}

// Execute выполняет выгрузку. Ошибки валидации get_recap возвращаются без изменений
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ExportRecap: tour=%s, period=%s..%s",
		req.TourID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Получаем отчет (из кэша или расчетом)
	resp, err := uc.recaps.Execute(ctx, &get_recap.Request{
		TourID:    req.TourID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		return nil, err
	}

	// 2. Формируем файл
	buf, err := renderWorkbook(resp.Result)
	if err != nil {
		uc.logger.Error("ExportRecap: failed to render tour=%s: %v", req.TourID, err)
		return nil, err
	}

	filename := fmt.Sprintf("recap_%s_%s_%s.xlsx",
		sanitizeFilename(req.TourID),
		req.StartDate.Format(domain.DateFormat),
		req.EndDate.Format(domain.DateFormat))

	uc.logger.Info("ExportRecap: tour=%s, file=%s, size=%d bytes", req.TourID, filename, buf.Len())

	return &Response{Body: buf, Filename: filename}, nil
}

package get_recap

import (
	"time"

	"github.com/m04kA/SMC-TourRecapService/internal/recap"
	getRecap "github.com/m04kA/SMC-TourRecapService/internal/usecase/get_recap"
)

// RecapResponse HTTP response model
type RecapResponse struct {
	*recap.Result
	FromCache bool `json:"fromCache"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getRecap.Response) *RecapResponse {
	return &RecapResponse{Result: resp.Result, FromCache: resp.FromCache}
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(tourID string, start, end time.Time, refresh bool) *getRecap.Request {
	return &getRecap.Request{
		TourID:    tourID,
		StartDate: start,
		EndDate:   end,
		SkipCache: refresh,
	}
}

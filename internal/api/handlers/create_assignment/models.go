package create_assignment

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TourRecapService/internal/service/assignments/models"
)

// CreateAssignmentRequest HTTP request model
type CreateAssignmentRequest struct {
	ResourceID     int64            `json:"resourceId"`
	AvailabilityID int64            `json:"availabilityId"`
	CostOverride   *decimal.Decimal `json:"costOverride,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateAssignmentRequest) ToServiceRequest(kind string, userID int64) *models.CreateAssignmentRequest {
	return &models.CreateAssignmentRequest{
		UserID:         userID,
		Kind:           kind,
		ResourceID:     r.ResourceID,
		AvailabilityID: r.AvailabilityID,
		CostOverride:   r.CostOverride,
	}
}

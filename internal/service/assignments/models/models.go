package models

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
)

// Request модели

// CreateAssignmentRequest запрос на назначение ресурса на слот
type CreateAssignmentRequest struct {
	UserID         int64            `json:"-"`
	Kind           string           `json:"-"`
	ResourceID     int64            `json:"resourceId"`
	AvailabilityID int64            `json:"availabilityId"`
	CostOverride   *decimal.Decimal `json:"costOverride,omitempty"`
}

// Response модели

// AssignmentResponse назначение
type AssignmentResponse struct {
	ID             int64            `json:"id"`
	Kind           string           `json:"kind"`
	ResourceID     int64            `json:"resourceId"`
	ResourceName   string           `json:"resourceName,omitempty"`
	AvailabilityID int64            `json:"availabilityId"`
	TourID         string           `json:"tourId"`
	CostOverride   *decimal.Decimal `json:"costOverride,omitempty"`
}

// FromDomainAssignment конвертирует назначение в ответ
func FromDomainAssignment(a *domain.Assignment, tourID string, override *domain.CostOverride) *AssignmentResponse {
	resp := &AssignmentResponse{
		ID:             a.ID,
		Kind:           string(a.Kind),
		ResourceID:     a.ResourceID,
		ResourceName:   a.ResourceName,
		AvailabilityID: a.AvailabilityID,
		TourID:         tourID,
	}
	if override != nil {
		amount := override.Amount
		resp.CostOverride = &amount
	}
	return resp
}

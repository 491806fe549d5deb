package create_assignment

import (
	"context"

	"github.com/m04kA/SMC-TourRecapService/internal/service/assignments/models"
)

type AssignmentService interface {
	Create(ctx context.Context, req *models.CreateAssignmentRequest) (*models.AssignmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package assignments

import (
	"context"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
)

// AssignmentRepository интерфейс репозитория назначений
type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error)
	GetByID(ctx context.Context, kind domain.AssignmentKind, id int64) (*domain.Assignment, error)
	Delete(ctx context.Context, kind domain.AssignmentKind, id int64) error
}

// OverrideRepository интерфейс репозитория явных стоимостей
type OverrideRepository interface {
	CreateOverride(ctx context.Context, o *domain.CostOverride) (*domain.CostOverride, error)
	DeleteOverride(ctx context.Context, kind domain.AssignmentKind, assignmentID int64) error
}

// AvailabilityRepository интерфейс репозитория слотов
type AvailabilityRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error)
}

// ChangePublisher уведомляет об изменении данных тура
type ChangePublisher interface {
	PublishChange(ctx context.Context, tourID string) error
}

// RecapInvalidator сбрасывает закэшированные отчеты тура
type RecapInvalidator interface {
	Invalidate(ctx context.Context, tourID string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

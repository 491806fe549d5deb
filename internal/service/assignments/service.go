package assignments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	assignmentRepo "github.com/m04kA/SMC-TourRecapService/internal/infra/storage/assignment"
	availabilityRepo "github.com/m04kA/SMC-TourRecapService/internal/infra/storage/availability"
	ratesRepo "github.com/m04kA/SMC-TourRecapService/internal/infra/storage/rates"
	"github.com/m04kA/SMC-TourRecapService/internal/service/assignments/models"
)

// Service сервис назначений гидов, сопровождающих, наушников и печати
type Service struct {
	assignmentRepo   AssignmentRepository
	overrideRepo     OverrideRepository
	availabilityRepo AvailabilityRepository
	txManager        TransactionManager
	publisher        ChangePublisher
	invalidator      RecapInvalidator
	logger           Logger
}

// NewService создает новый экземпляр сервиса назначений
// publisher и invalidator могут быть nil, тогда уведомления и сброс кэша не выполняются
func NewService(
	assignmentRepo AssignmentRepository,
	overrideRepo OverrideRepository,
	availabilityRepo AvailabilityRepository,
	txManager TransactionManager,
	publisher ChangePublisher,
	invalidator RecapInvalidator,
	logger Logger,
) *Service {
	return &Service{
		assignmentRepo:   assignmentRepo,
		overrideRepo:     overrideRepo,
		availabilityRepo: availabilityRepo,
		txManager:        txManager,
		publisher:        publisher,
		invalidator:      invalidator,
		logger:           logger,
	}
}

// Create назначает ресурс на слот. Явная стоимость, если указана, сохраняется в той же транзакции
func (s *Service) Create(ctx context.Context, req *models.CreateAssignmentRequest) (*models.AssignmentResponse, error) {
	s.logger.Info("Create: kind=%s, resource=%d, slot=%d, user=%d", req.Kind, req.ResourceID, req.AvailabilityID, req.UserID)

	// 1. Валидация
	kind, err := domain.ParseAssignmentKind(req.Kind)
	if err != nil {
		s.logger.Warn("Create: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.ResourceID <= 0 || req.AvailabilityID <= 0 {
		return nil, fmt.Errorf("%w: resourceId and availabilityId must be positive", ErrInvalidInput)
	}
	if req.CostOverride != nil && req.CostOverride.IsNegative() {
		return nil, fmt.Errorf("%w: costOverride must not be negative", ErrInvalidInput)
	}

	// 2. Слот нужен для tourID уведомления
	slot, err := s.availabilityRepo.GetByID(ctx, req.AvailabilityID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrSlotNotFound) {
			s.logger.Warn("Create: slot id=%d not found", req.AvailabilityID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("Create: failed to get slot id=%d: %v", req.AvailabilityID, err)
		return nil, fmt.Errorf("%w: Create - get slot: %v", ErrInternal, err)
	}

	// 3. Назначение и явная стоимость в одной транзакции
	var created *domain.Assignment
	var override *domain.CostOverride
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		a, err := s.assignmentRepo.Create(ctx, &domain.Assignment{
			Kind:           kind,
			ResourceID:     req.ResourceID,
			AvailabilityID: req.AvailabilityID,
		})
		if err != nil {
			return err
		}
		created = a

		if req.CostOverride != nil {
			o, err := s.overrideRepo.CreateOverride(ctx, &domain.CostOverride{
				Kind:         kind,
				AssignmentID: a.ID,
				Amount:       req.CostOverride.Round(domain.MoneyPlaces),
			})
			if err != nil {
				return err
			}
			override = o
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Create: transaction failed for kind=%s, slot=%d: %v", kind, req.AvailabilityID, err)
		return nil, fmt.Errorf("%w: Create - transaction: %v", ErrInternal, err)
	}

	// 4. Уведомление об изменении тура
	s.notify(ctx, slot.TourID)

	s.logger.Info("Create: created %s assignment id=%d on slot=%d", kind, created.ID, req.AvailabilityID)
	return models.FromDomainAssignment(created, slot.TourID, override), nil
}

// Delete удаляет назначение вместе с его явной стоимостью
func (s *Service) Delete(ctx context.Context, kindName string, id int64, userID int64) error {
	s.logger.Info("Delete: kind=%s, id=%d, user=%d", kindName, id, userID)

	kind, err := domain.ParseAssignmentKind(kindName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if id <= 0 {
		return fmt.Errorf("%w: assignment id must be positive", ErrInvalidInput)
	}

	// 1. Назначение нужно для поиска тура
	a, err := s.assignmentRepo.GetByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, assignmentRepo.ErrAssignmentNotFound) {
			s.logger.Warn("Delete: %s assignment id=%d not found", kind, id)
			return ErrAssignmentNotFound
		}
		s.logger.Error("Delete: failed to get %s assignment id=%d: %v", kind, id, err)
		return fmt.Errorf("%w: Delete - get assignment: %v", ErrInternal, err)
	}

	// 2. Сначала явная стоимость, потом назначение
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.overrideRepo.DeleteOverride(ctx, kind, id); err != nil && !errors.Is(err, ratesRepo.ErrOverrideNotFound) {
			return err
		}
		return s.assignmentRepo.Delete(ctx, kind, id)
	})
	if err != nil {
		if errors.Is(err, assignmentRepo.ErrAssignmentNotFound) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("Delete: transaction failed for %s assignment id=%d: %v", kind, id, err)
		return fmt.Errorf("%w: Delete - transaction: %v", ErrInternal, err)
	}

	// 3. Уведомление; слот мог быть уже удален
	slot, err := s.availabilityRepo.GetByID(ctx, a.AvailabilityID)
	if err != nil {
		s.logger.Warn("Delete: slot id=%d for assignment id=%d unavailable, change not published: %v", a.AvailabilityID, id, err)
	} else {
		s.notify(ctx, slot.TourID)
	}

	s.logger.Info("Delete: deleted %s assignment id=%d", kind, id)
	return nil
}

// notify сначала сбрасывает кэш отчетов тура, затем публикует изменение
func (s *Service) notify(ctx context.Context, tourID string) {
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, tourID); err != nil {
			s.logger.Warn("failed to invalidate cached recaps for tour=%s: %v", tourID, err)
		}
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, tourID); err != nil {
		s.logger.Warn("failed to publish change for tour=%s: %v", tourID, err)
	}
}

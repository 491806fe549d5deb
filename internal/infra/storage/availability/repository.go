package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourRecapService/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"tour_id",
	"date",
	"time",
	"vacancy_available",
	"status",
}

// Repository репозиторий опубликованных слотов доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByTour слоты тура за период [startDate, endDate] (включительно), упорядочены по дате и времени
func (r *Repository) ListByTour(ctx context.Context, tourID string, startDate, endDate time.Time) ([]domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("availability").
		Where(squirrel.Eq{"tour_id": tourID}).
		Where(squirrel.GtOrEq{"date": startDate.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"date": endDate.Format(domain.DateFormat)}).
		OrderBy("date ASC", "time ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByTour - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTour - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var slots []domain.AvailabilitySlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByTour - scan slot: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByTour - rows iteration: %v", ErrScanRow, err)
	}

	return slots, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("availability").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return &slot, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row scanner) (domain.AvailabilitySlot, error) {
	var slot domain.AvailabilitySlot
	var status string

	err := row.Scan(
		&slot.ID,
		&slot.TourID,
		&slot.Date,
		&slot.Time,
		&slot.VacancyAvailable,
		&status,
	)
	if err != nil {
		return slot, err
	}

	slot.Status = domain.ParseSlotStatus(status)
	return slot, nil
}

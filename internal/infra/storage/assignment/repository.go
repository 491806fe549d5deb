package assignment

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

// Repository репозиторий назначений гидов, сопровождающих, наушников и печати
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория назначений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByTour назначения всех четырех типов на слоты тура за период
// У назначения нет своей даты, она берется из слота
func (r *Repository) ListByTour(ctx context.Context, tourID string, startDate, endDate time.Time) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, kind := range domain.AssignmentKinds {
		list, err := r.listKind(ctx, kind, tourID, startDate, endDate)
		if err != nil {
			return nil, err
		}
		out = append(out, list...)
	}
	return out, nil
}

func (r *Repository) listKind(ctx context.Context, kind domain.AssignmentKind, tourID string, startDate, endDate time.Time) ([]domain.Assignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	t, _ := tableFor(kind)

	query, args, err := psqlbuilder.Select(
		"a.id",
		"a."+t.resourceCol,
		"COALESCE(res.name, '')",
		"a.availability_id",
	).
		From(t.name + " a").
		Join("availability av ON av.id = a.availability_id").
		LeftJoin(t.resourceTable + " res ON res.id = a." + t.resourceCol).
		Where(squirrel.Eq{"av.tour_id": tourID}).
		Where(squirrel.GtOrEq{"av.date": startDate.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"av.date": endDate.Format(domain.DateFormat)}).
		OrderBy("a.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByTour - build select query (%s): %v", ErrBuildQuery, kind, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTour - execute query (%s): %v", ErrExecQuery, kind, err)
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		a := domain.Assignment{Kind: kind}
		if err := rows.Scan(&a.ID, &a.ResourceID, &a.ResourceName, &a.AvailabilityID); err != nil {
			return nil, fmt.Errorf("%w: ListByTour - scan assignment (%s): %v", ErrScanRow, kind, err)
		}
		out = append(out, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByTour - rows iteration (%s): %v", ErrScanRow, kind, err)
	}

	return out, nil
}

// Create создает назначение ресурса на слот
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	t, ok := tableFor(a.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, a.Kind)
	}

	query, args, err := psqlbuilder.Insert(t.name).
		Columns(t.resourceCol, "availability_id").
		Values(a.ResourceID, a.AvailabilityID).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return a, nil
}

// GetByID получает назначение по типу и ID
func (r *Repository) GetByID(ctx context.Context, kind domain.AssignmentKind, id int64) (*domain.Assignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	t, ok := tableFor(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	query, args, err := psqlbuilder.Select(
		"a.id",
		"a."+t.resourceCol,
		"COALESCE(res.name, '')",
		"a.availability_id",
	).
		From(t.name + " a").
		LeftJoin(t.resourceTable + " res ON res.id = a." + t.resourceCol).
		Where(squirrel.Eq{"a.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a := domain.Assignment{Kind: kind}
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.ResourceID, &a.ResourceName, &a.AvailabilityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAssignmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan assignment: %v", ErrScanRow, err)
	}

	return &a, nil
}

// Delete удаляет назначение
func (r *Repository) Delete(ctx context.Context, kind domain.AssignmentKind, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	t, ok := tableFor(kind)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	query, args, err := psqlbuilder.Delete(t.name).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrAssignmentNotFound
	}

	return nil
}

package rates

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourRecapService/pkg/psqlbuilder"
)

// Repository репозиторий тарифов ресурсов и явных стоимостей назначений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория тарифов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListRates все тарифы ресурсов
func (r *Repository) ListRates(ctx context.Context) ([]domain.ResourceRate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("kind", "resource_id", "amount", "rate_type").
		From("resource_rates").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListRates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var out []domain.ResourceRate
	for rows.Next() {
		var rate domain.ResourceRate
		var kind, rateType string
		if err := rows.Scan(&kind, &rate.ResourceID, &rate.Amount, &rateType); err != nil {
			return nil, fmt.Errorf("%w: ListRates - scan rate: %v", ErrScanRow, err)
		}
		rate.Kind = domain.AssignmentKind(kind)
		rate.Type = domain.RateType(rateType)
		out = append(out, rate)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRates - rows iteration: %v", ErrScanRow, err)
	}

	return out, nil
}

// ListOverrides все явные стоимости назначений
func (r *Repository) ListOverrides(ctx context.Context) ([]domain.CostOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "kind", "assignment_id", "amount").
		From("cost_overrides").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var out []domain.CostOverride
	for rows.Next() {
		var o domain.CostOverride
		var kind string
		if err := rows.Scan(&o.ID, &kind, &o.AssignmentID, &o.Amount); err != nil {
			return nil, fmt.Errorf("%w: ListOverrides - scan override: %v", ErrScanRow, err)
		}
		o.Kind = domain.AssignmentKind(kind)
		out = append(out, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - rows iteration: %v", ErrScanRow, err)
	}

	return out, nil
}

// CreateOverride сохраняет явную стоимость назначения
// Если в контексте передана активная транзакция, использует её
func (r *Repository) CreateOverride(ctx context.Context, o *domain.CostOverride) (*domain.CostOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("cost_overrides").
		Columns("kind", "assignment_id", "amount").
		Values(string(o.Kind), o.AssignmentID, o.Amount).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateOverride - build insert query: %v", ErrBuildQuery, err)
	}

	if err = executor.QueryRowContext(ctx, query, args...).Scan(&o.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateOverride - execute insert: %v", ErrExecQuery, err)
	}

	return o, nil
}

// DeleteOverride удаляет явную стоимость назначения
// Возвращает ErrOverrideNotFound, если удалять нечего
func (r *Repository) DeleteOverride(ctx context.Context, kind domain.AssignmentKind, assignmentID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("cost_overrides").
		Where(squirrel.Eq{"kind": string(kind), "assignment_id": assignmentID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

package guidecost

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourRecapService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-TourRecapService/pkg/ptr"
)

// Repository репозиторий многоуровневых стоимостей гидов и групп услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория стоимостей гидов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// query выполняет SELECT и вызывает scan для каждой строки
func (r *Repository) query(ctx context.Context, method string, b squirrel.SelectBuilder, scan func(rows *sql.Rows) error) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, method, err)
	}

	return nil
}

// ListTourCosts общие и персональные стоимости гидов для тура
func (r *Repository) ListTourCosts(ctx context.Context, tourID string) ([]domain.GuideActivityCost, error) {
	var out []domain.GuideActivityCost

	b := psqlbuilder.Select("id", "tour_id", "guide_id", "amount").
		From("guide_activity_costs").
		Where(squirrel.Eq{"tour_id": tourID}).
		OrderBy("id ASC")

	err := r.query(ctx, "ListTourCosts", b, func(rows *sql.Rows) error {
		var c domain.GuideActivityCost
		var guideID sql.NullInt64
		if err := rows.Scan(&c.ID, &c.TourID, &guideID, &c.Amount); err != nil {
			return err
		}
		if guideID.Valid {
			c.GuideID = ptr.Ptr(guideID.Int64)
		}
		out = append(out, c)
		return nil
	})

	return out, err
}

// ListSeasons все сезоны стоимости
func (r *Repository) ListSeasons(ctx context.Context) ([]domain.CostSeason, error) {
	var out []domain.CostSeason

	b := psqlbuilder.Select("id", "name", "start_date", "end_date").
		From("cost_seasons").
		OrderBy("start_date DESC", "id ASC")

	err := r.query(ctx, "ListSeasons", b, func(rows *sql.Rows) error {
		var s domain.CostSeason
		if err := rows.Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate); err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})

	return out, err
}

// ListSeasonalCosts сезонные стоимости тура
func (r *Repository) ListSeasonalCosts(ctx context.Context, tourID string) ([]domain.SeasonalCost, error) {
	var out []domain.SeasonalCost

	b := psqlbuilder.Select("tour_id", "season_id", "amount").
		From("seasonal_costs").
		Where(squirrel.Eq{"tour_id": tourID})

	err := r.query(ctx, "ListSeasonalCosts", b, func(rows *sql.Rows) error {
		var c domain.SeasonalCost
		if err := rows.Scan(&c.TourID, &c.SeasonID, &c.Amount); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})

	return out, err
}

// ListSpecialDates все особые даты
func (r *Repository) ListSpecialDates(ctx context.Context) ([]domain.SpecialCostDate, error) {
	var out []domain.SpecialCostDate

	b := psqlbuilder.Select("id", "name", "date").
		From("special_cost_dates").
		OrderBy("date ASC")

	err := r.query(ctx, "ListSpecialDates", b, func(rows *sql.Rows) error {
		var d domain.SpecialCostDate
		if err := rows.Scan(&d.ID, &d.Name, &d.Date); err != nil {
			return err
		}
		out = append(out, d)
		return nil
	})

	return out, err
}

// ListSpecialDateCosts стоимости тура в особые даты
func (r *Repository) ListSpecialDateCosts(ctx context.Context, tourID string) ([]domain.SpecialDateCost, error) {
	var out []domain.SpecialDateCost

	b := psqlbuilder.Select("tour_id", "special_date_id", "amount").
		From("special_date_costs").
		Where(squirrel.Eq{"tour_id": tourID})

	err := r.query(ctx, "ListSpecialDateCosts", b, func(rows *sql.Rows) error {
		var c domain.SpecialDateCost
		if err := rows.Scan(&c.TourID, &c.SpecialDateID, &c.Amount); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})

	return out, err
}

// ListServiceGroups группы услуг с составом участников
func (r *Repository) ListServiceGroups(ctx context.Context) ([]domain.ServiceGroup, error) {
	var out []domain.ServiceGroup

	b := psqlbuilder.Select(
		"g.id",
		"g.primary_assignment_id",
		"COALESCE(array_agg(m.assignment_id ORDER BY m.assignment_id) FILTER (WHERE m.assignment_id IS NOT NULL), '{}')",
	).
		From("service_groups g").
		LeftJoin("service_group_members m ON m.group_id = g.id").
		GroupBy("g.id", "g.primary_assignment_id").
		OrderBy("g.id ASC")

	err := r.query(ctx, "ListServiceGroups", b, func(rows *sql.Rows) error {
		var g domain.ServiceGroup
		var members pq.Int64Array
		if err := rows.Scan(&g.ID, &g.PrimaryAssignmentID, &members); err != nil {
			return err
		}
		g.MemberAssignmentIDs = []int64(members)
		out = append(out, g)
		return nil
	})

	return out, err
}

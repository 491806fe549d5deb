package voucher

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

// Repository репозиторий ваучеров и соответствия продуктов источникам продаж
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ваучеров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListBySlots ваучеры опубликованных слотов slotIDs и запланированных plannedIDs вместе с билетами
func (r *Repository) ListBySlots(ctx context.Context, slotIDs, plannedIDs []int64) ([]domain.Voucher, error) {
	if len(slotIDs) == 0 && len(plannedIDs) == 0 {
		return nil, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"v.id",
		"v.availability_id",
		"v.planned_availability_id",
		"v.category_id",
		"COALESCE(c.name, '')",
		"v.product_name",
		"v.is_placeholder",
		"v.placeholder_ticket_count",
		"v.source",
	).
		From("vouchers v").
		LeftJoin("voucher_categories c ON c.id = v.category_id").
		Where(squirrel.Or{
			squirrel.Expr("v.availability_id = ANY(?)", pq.Array(slotIDs)),
			squirrel.Expr("v.planned_availability_id = ANY(?)", pq.Array(plannedIDs)),
		}).
		OrderBy("v.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBySlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var vouchers []domain.Voucher
	for rows.Next() {
		var v domain.Voucher
		var availabilityID, plannedID, categoryID sql.NullInt64
		var source string
		err := rows.Scan(
			&v.ID,
			&availabilityID,
			&plannedID,
			&categoryID,
			&v.CategoryName,
			&v.ProductName,
			&v.IsPlaceholder,
			&v.PlaceholderTicketCount,
			&source,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListBySlots - scan voucher: %v", ErrScanRow, err)
		}
		if availabilityID.Valid {
			v.AvailabilityID = ptr.Ptr(availabilityID.Int64)
		}
		if plannedID.Valid {
			v.PlannedAvailabilityID = ptr.Ptr(plannedID.Int64)
		}
		if categoryID.Valid {
			v.CategoryID = ptr.Ptr(categoryID.Int64)
		}
		v.Source = domain.ParseVoucherSource(source)
		vouchers = append(vouchers, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBySlots - rows iteration: %v", ErrScanRow, err)
	}

	if len(vouchers) == 0 {
		return vouchers, nil
	}

	ids := make([]int64, len(vouchers))
	for i := range vouchers {
		ids[i] = vouchers[i].ID
	}

	tickets, err := r.listTickets(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range vouchers {
		vouchers[i].Tickets = tickets[vouchers[i].ID]
	}

	return vouchers, nil
}

func (r *Repository) listTickets(ctx context.Context, voucherIDs []int64) (map[int64][]domain.VoucherTicket, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "voucher_id", "ticket_type", "pax", "price").
		From("voucher_tickets").
		Where(squirrel.Expr("voucher_id = ANY(?)", pq.Array(voucherIDs))).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: listTickets - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listTickets - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make(map[int64][]domain.VoucherTicket)
	for rows.Next() {
		var t domain.VoucherTicket
		if err := rows.Scan(&t.ID, &t.VoucherID, &t.TicketType, &t.Pax, &t.Price); err != nil {
			return nil, fmt.Errorf("%w: listTickets - scan ticket: %v", ErrScanRow, err)
		}
		out[t.VoucherID] = append(out[t.VoucherID], t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listTickets - rows iteration: %v", ErrScanRow, err)
	}

	return out, nil
}

// ListProductSources соответствие названий продуктов источникам продаж
func (r *Repository) ListProductSources(ctx context.Context) ([]domain.ProductSource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("product_name", "source").
		From("product_sources").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListProductSources - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListProductSources - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var out []domain.ProductSource
	for rows.Next() {
		var ps domain.ProductSource
		var source string
		if err := rows.Scan(&ps.ProductName, &source); err != nil {
			return nil, fmt.Errorf("%w: ListProductSources - scan row: %v", ErrScanRow, err)
		}
		ps.Source = domain.ParseVoucherSource(source)
		out = append(out, ps)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListProductSources - rows iteration: %v", ErrScanRow, err)
	}

	return out, nil
}

package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourRecapService/pkg/psqlbuilder"
)

// Repository репозиторий бронирований тура (только чтение, данные импортируются извне)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByTour возвращает все версии бронирований тура с началом в [startDate, endDate] (включительно)
// вместе с участниками. Отмененные записи тоже возвращаются: последняя версия брони
// может оказаться отмененной, и это решается при дедупликации
func (r *Repository) ListByTour(ctx context.Context, tourID string, startDate, endDate time.Time) ([]domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"activity_booking_id",
		"tour_id",
		"start_date_time",
		"net_price",
		"total_price",
		"status",
		"created_at",
	).
		From("bookings").
		Where(squirrel.Eq{"tour_id": tourID}).
		Where(squirrel.GtOrEq{"start_date_time": startDate}).
		Where(squirrel.Lt{"start_date_time": endDate.AddDate(0, 0, 1)}).
		OrderBy("start_date_time ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByTour - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTour - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		var status string
		err := rows.Scan(
			&b.ID,
			&b.BookingID,
			&b.ActivityBookingID,
			&b.TourID,
			&b.StartDateTime,
			&b.NetPrice,
			&b.TotalPrice,
			&status,
			&b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByTour - scan booking: %v", ErrScanRow, err)
		}
		b.Status = domain.BookingStatus(status)
		bookings = append(bookings, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByTour - rows iteration: %v", ErrScanRow, err)
	}

	if len(bookings) == 0 {
		return bookings, nil
	}

	// Участники подгружаются вторым запросом и раскладываются по конкретным версиям броней
	rowIDs := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		rowIDs = append(rowIDs, b.ID)
	}

	participants, err := r.listParticipants(ctx, rowIDs)
	if err != nil {
		return nil, err
	}

	for i := range bookings {
		bookings[i].Participants = participants[bookings[i].ID]
	}

	return bookings, nil
}

// listParticipants участники по id строк bookings, сгруппированные по BookingRowID
func (r *Repository) listParticipants(ctx context.Context, rowIDs []int64) (map[int64][]domain.Participant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_row_id",
		"activity_booking_id",
		"pricing_category_id",
		"category",
		"quantity",
	).
		From("booking_participants").
		Where(squirrel.Expr("booking_row_id = ANY(?)", pq.Array(rowIDs))).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: listParticipants - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listParticipants - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make(map[int64][]domain.Participant)
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.ID, &p.BookingRowID, &p.ActivityBookingID, &p.PricingCategoryID, &p.Category, &p.Quantity); err != nil {
			return nil, fmt.Errorf("%w: listParticipants - scan participant: %v", ErrScanRow, err)
		}
		out[p.BookingRowID] = append(out[p.BookingRowID], p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listParticipants - rows iteration: %v", ErrScanRow, err)
	}

	return out, nil
}

package note

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourRecapService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-TourRecapService/pkg/ptr"
)

var noteColumns = []string{
	"id",
	"tour_id",
	"date",
	"availability_id",
	"guide_id",
	"escort_id",
	"voucher_id",
	"content",
	"author_id",
	"created_at",
}

// Repository репозиторий операционных заметок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заметок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет заметку. ID должен быть заполнен вызывающим кодом
func (r *Repository) Create(ctx context.Context, n *domain.Note) (*domain.Note, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("notes").
		Columns(
			"id",
			"tour_id",
			"date",
			"availability_id",
			"guide_id",
			"escort_id",
			"voucher_id",
			"content",
			"author_id",
		).
		Values(
			n.ID,
			n.TourID,
			n.Date.Format(domain.DateFormat),
			n.AvailabilityID,
			n.GuideID,
			n.EscortID,
			n.VoucherID,
			n.Content,
			n.AuthorID,
		).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err = executor.QueryRowContext(ctx, query, args...).Scan(&n.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return n, nil
}

// GetByID получает заметку по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(noteColumns...).
		From("notes").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	n, err := scanNote(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan note: %v", ErrScanRow, err)
	}

	return n, nil
}

// ListByTour заметки тура за период. Заметки без тура относятся ко всем турам
func (r *Repository) ListByTour(ctx context.Context, filter domain.NotesFilter) ([]*domain.Note, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(noteColumns...).
		From("notes").
		Where(squirrel.Or{
			squirrel.Eq{"tour_id": filter.TourID},
			squirrel.Eq{"tour_id": nil},
		}).
		Where(squirrel.GtOrEq{"date": filter.StartDate.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"date": filter.EndDate.Format(domain.DateFormat)}).
		OrderBy("date ASC", "created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByTour - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTour - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByTour - scan note: %v", ErrScanRow, err)
		}
		notes = append(notes, n)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByTour - rows iteration: %v", ErrScanRow, err)
	}

	return notes, nil
}

// Delete удаляет заметку
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("notes").
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
		return ErrNoteNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(row scanner) (*domain.Note, error) {
	var n domain.Note
	var tourID sql.NullString
	var availabilityID, guideID, escortID, voucherID sql.NullInt64

	err := row.Scan(
		&n.ID,
		&tourID,
		&n.Date,
		&availabilityID,
		&guideID,
		&escortID,
		&voucherID,
		&n.Content,
		&n.AuthorID,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if tourID.Valid {
		n.TourID = ptr.Ptr(tourID.String)
	}
	n.AvailabilityID = nullInt(availabilityID)
	n.GuideID = nullInt(guideID)
	n.EscortID = nullInt(escortID)
	n.VoucherID = nullInt(voucherID)

	return &n, nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return ptr.Ptr(v.Int64)
}

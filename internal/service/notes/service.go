package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	noteRepo "github.com/m04kA/SMC-TourRecapService/internal/infra/storage/note"
	"github.com/m04kA/SMC-TourRecapService/internal/service/notes/models"
)

// Service сервис операционных заметок
type Service struct {
	noteRepo     NoteRepository
	maxRangeDays int
	logger       Logger
}

// NewService создает новый экземпляр сервиса заметок
func NewService(noteRepo NoteRepository, maxRangeDays int, logger Logger) *Service {
	if maxRangeDays <= 0 {
		maxRangeDays = domain.DefaultMaxRangeDays
	}
	return &Service{
		noteRepo:     noteRepo,
		maxRangeDays: maxRangeDays,
		logger:       logger,
	}
}

// List возвращает заметки тура за период вместе со счетчиками
func (s *Service) List(ctx context.Context, req *models.ListNotesRequest) (*models.NotesResponse, error) {
	s.logger.Info("List: tour=%s, period=%s..%s", req.TourID, req.StartDate, req.EndDate)

	// 1. Валидация
	if strings.TrimSpace(req.TourID) == "" {
		return nil, fmt.Errorf("%w: tourId is required", ErrInvalidInput)
	}
	start, err := time.Parse(domain.DateFormat, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: startDate must be YYYY-MM-DD", ErrInvalidInput)
	}
	end, err := time.Parse(domain.DateFormat, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: endDate must be YYYY-MM-DD", ErrInvalidInput)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}
	if int(end.Sub(start).Hours()/24)+1 > s.maxRangeDays {
		return nil, fmt.Errorf("%w: range exceeds %d days", ErrInvalidInput, s.maxRangeDays)
	}

	// 2. Заметки из БД
	notes, err := s.noteRepo.ListByTour(ctx, domain.NotesFilter{
		TourID:    req.TourID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		s.logger.Error("List: failed to list notes for tour=%s: %v", req.TourID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	// 3. Ответ
	resp := &models.NotesResponse{
		Notes:  make([]models.NoteResponse, 0, len(notes)),
		Badges: models.CountBadges(notes),
	}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, models.FromDomainNote(n))
	}

	return resp, nil
}

// Create создает заметку
func (s *Service) Create(ctx context.Context, req *models.CreateNoteRequest) (*models.NoteResponse, error) {
	s.logger.Info("Create: note for date=%s by user=%d", req.Date, req.AuthorID)

	// 1. Валидация
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > domain.MaxNoteLength {
		return nil, fmt.Errorf("%w: content exceeds %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if req.TourID != nil && strings.TrimSpace(*req.TourID) == "" {
		return nil, fmt.Errorf("%w: tourId must not be blank", ErrInvalidInput)
	}

	// 2. Сохранение
	note, err := s.noteRepo.Create(ctx, &domain.Note{
		ID:             uuid.New(),
		TourID:         req.TourID,
		Date:           date,
		AvailabilityID: req.AvailabilityID,
		GuideID:        req.GuideID,
		EscortID:       req.EscortID,
		VoucherID:      req.VoucherID,
		Content:        content,
		AuthorID:       req.AuthorID,
	})
	if err != nil {
		s.logger.Error("Create: failed to save note: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: note id=%s created", note.ID)
	resp := models.FromDomainNote(note)
	return &resp, nil
}

// Delete удаляет заметку. Удалить может только автор
func (s *Service) Delete(ctx context.Context, rawID string, userID int64) error {
	s.logger.Info("Delete: note id=%s by user=%d", rawID, userID)

	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("%w: invalid note id", ErrInvalidInput)
	}

	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, noteRepo.ErrNoteNotFound) {
			s.logger.Warn("Delete: note id=%s not found", id)
			return ErrNoteNotFound
		}
		s.logger.Error("Delete: failed to get note id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - get note: %v", ErrInternal, err)
	}

	if note.AuthorID != userID {
		s.logger.Warn("Delete: user=%d is not the author of note id=%s", userID, id)
		return ErrAccessDenied
	}

	if err := s.noteRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, noteRepo.ErrNoteNotFound) {
			return ErrNoteNotFound
		}
		s.logger.Error("Delete: failed to delete note id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	return nil
}

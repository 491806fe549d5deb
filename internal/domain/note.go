package domain

import (
	"time"

	"github.com/google/uuid"
)

// Note свободная операционная заметка
// Привязана к дате и, опционально, к слоту, гиду, сопровождающему или ваучеру
type Note struct {
	ID             uuid.UUID
	TourID         *string
	Date           time.Time
	AvailabilityID *int64
	GuideID        *int64
	EscortID       *int64
	VoucherID      *int64
	Content        string
	AuthorID       int64
	CreatedAt      time.Time
}

// NotesFilter фильтр заметок тура за период
type NotesFilter struct {
	TourID    string
	StartDate time.Time
	EndDate   time.Time
}
